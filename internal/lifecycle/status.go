package lifecycle

import "zapp/models"

var transitions = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusPending:   models.OrderStatusAccepted,
	models.OrderStatusAccepted:  models.OrderStatusDelivered,
	models.OrderStatusDelivered: models.OrderStatusArchived,
}

// ResolveStatus returns the first non-empty status among values, or pending.
// Callers pass the store snapshot first and any local copy after it.
func ResolveStatus(values ...models.OrderStatus) models.OrderStatus {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return models.OrderStatusPending
}

// CanTransition reports whether from -> to is a forward edge of the lifecycle.
// An empty from is read as pending. Archived is terminal.
func CanTransition(from, to models.OrderStatus) bool {
	next, ok := transitions[ResolveStatus(from)]
	return ok && next == to
}

// IsClaimable reports whether o can be claimed: pending and not yet accepted by anyone.
func IsClaimable(o *models.Order) bool {
	return o != nil && ResolveStatus(o.Status) == models.OrderStatusPending && o.AcceptedBy == ""
}
