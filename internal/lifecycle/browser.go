package lifecycle

import (
	"context"
	"fmt"
	"sort"

	"zapp/models"
)

// Filter selects orders client-side.
type Filter func(o *models.Order) bool

// Available matches orders open for claiming: not accepted and with no fulfiller.
// Delivered or archived orders that somehow lack acceptedBy still match; the
// claim step re-checks the snapshot.
func Available() Filter {
	return func(o *models.Order) bool {
		return ResolveStatus(o.Status) != models.OrderStatusAccepted && o.AcceptedBy == ""
	}
}

// AcceptedBy matches orders claimed by uid, whatever their status.
func AcceptedBy(uid string) Filter {
	return func(o *models.Order) bool { return o.AcceptedBy == uid }
}

// DeliveredForPlacer matches uid's delivered orders, the ones eligible for archiving.
func DeliveredForPlacer(uid string) Filter {
	return func(o *models.Order) bool {
		return o.UserID == uid && o.Status == models.OrderStatusDelivered
	}
}

// InProgressForPlacer matches uid's orders that a fulfiller has picked up.
func InProgressForPlacer(uid string) Filter {
	return func(o *models.Order) bool {
		if o.UserID != uid {
			return false
		}
		return o.Status == models.OrderStatusAccepted || o.Status == models.OrderStatusDelivered
	}
}

// PlacedBy matches every order uid placed.
func PlacedBy(uid string) Filter {
	return func(o *models.Order) bool { return o.UserID == uid }
}

// Apply returns the orders matching every filter, preserving input order.
func Apply(orders []models.Order, filters ...Filter) []models.Order {
	out := make([]models.Order, 0, len(orders))
next:
	for i := range orders {
		for _, f := range filters {
			if !f(&orders[i]) {
				continue next
			}
		}
		out = append(out, orders[i])
	}
	return out
}

// SortNewestFirst orders by orderDate descending. Orders without a date go last;
// ties keep their relative order.
func SortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i].OrderDate, orders[j].OrderDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

// ListAvailable fetches every order and keeps the claimable-looking ones.
func (s *Service) ListAvailable(ctx context.Context) ([]models.Order, error) {
	all, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := Apply(all, Available())
	SortNewestFirst(out)
	return out, nil
}

// ListAccepted returns the orders actor has claimed.
func (s *Service) ListAccepted(ctx context.Context, actor string) ([]models.Order, error) {
	if actor == "" {
		return nil, ErrUnauthenticated
	}
	orders, err := s.orders.ListByAcceptedBy(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list accepted orders: %w", err)
	}
	out := Apply(orders, AcceptedBy(actor))
	SortNewestFirst(out)
	return out, nil
}

// ListDelivered returns actor's delivered orders awaiting archive.
func (s *Service) ListDelivered(ctx context.Context, actor string) ([]models.Order, error) {
	return s.listPlaced(ctx, actor, DeliveredForPlacer(actor))
}

// ListActive returns actor's orders currently with a fulfiller or just delivered.
func (s *Service) ListActive(ctx context.Context, actor string) ([]models.Order, error) {
	return s.listPlaced(ctx, actor, InProgressForPlacer(actor))
}

// ListPlaced returns every order actor placed.
func (s *Service) ListPlaced(ctx context.Context, actor string) ([]models.Order, error) {
	return s.listPlaced(ctx, actor, PlacedBy(actor))
}

func (s *Service) listPlaced(ctx context.Context, actor string, f Filter) ([]models.Order, error) {
	if actor == "" {
		return nil, ErrUnauthenticated
	}
	orders, err := s.orders.ListByUserID(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list placed orders: %w", err)
	}
	out := Apply(orders, f)
	SortNewestFirst(out)
	return out, nil
}

// GetOrder returns a single order visible to actor: one they placed, one they
// accepted, or one still open for claiming.
func (s *Service) GetOrder(ctx context.Context, actor, id string) (*models.Order, error) {
	if actor == "" {
		return nil, ErrUnauthenticated
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if o.UserID != actor && o.AcceptedBy != actor && !IsClaimable(o) {
		return nil, ErrNotAuthorized
	}
	return o, nil
}
