package lifecycle

import (
	"fmt"
	"strings"

	"zapp/models"
)

// DeliveryPolicy decides who may mark an accepted order delivered.
type DeliveryPolicy string

const (
	// AccepterOnly lets only the fulfiller who claimed the order deliver it.
	AccepterOnly DeliveryPolicy = "accepter_only"
	// PlacerOrAccepter also lets the placer confirm delivery.
	PlacerOrAccepter DeliveryPolicy = "placer_or_accepter"
	// PlacerOnly lets only the placer confirm receipt.
	PlacerOnly DeliveryPolicy = "placer_only"
)

// ParseDeliveryPolicy accepts the policy names above; empty means AccepterOnly.
func ParseDeliveryPolicy(s string) (DeliveryPolicy, error) {
	switch p := DeliveryPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return AccepterOnly, nil
	case AccepterOnly, PlacerOrAccepter, PlacerOnly:
		return p, nil
	default:
		return "", fmt.Errorf("unknown delivery policy %q", s)
	}
}

// Allows reports whether actor may deliver o.
func (p DeliveryPolicy) Allows(actor string, o *models.Order) bool {
	if actor == "" || o == nil {
		return false
	}
	isAccepter := o.AcceptedBy != "" && actor == o.AcceptedBy
	isPlacer := o.UserID != "" && actor == o.UserID
	switch p {
	case PlacerOrAccepter:
		return isAccepter || isPlacer
	case PlacerOnly:
		return isPlacer
	default:
		return isAccepter
	}
}
