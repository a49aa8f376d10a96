package lifecycle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"zapp/internal/feed"
	"zapp/models"
)

// Deliver marks an accepted order delivered when the delivery policy lets actor
// do so, then notifies the other party.
func (s *Service) Deliver(ctx context.Context, actor, orderID string) (*models.Order, error) {
	if actor == "" {
		return nil, ErrUnauthenticated
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if from := ResolveStatus(o.Status); !CanTransition(from, models.OrderStatusDelivered) {
		return nil, fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, orderID, from)
	}
	if !s.policy.Allows(actor, o) {
		return nil, fmt.Errorf("%w: %s may not deliver order %s under %s", ErrNotAuthorized, actor, orderID, s.policy)
	}

	updated, err := s.orders.MarkDelivered(ctx, orderID, s.now())
	if err != nil {
		if isNoRows(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	s.publish(ctx, feed.EventDelivered, updated)
	s.log.Info("order delivered", zap.String("order_id", orderID), zap.String("actor", actor))

	n := models.Notification{Type: models.NotificationOrderDelivered, OrderID: orderID}
	if actor == o.AcceptedBy {
		n.UserID = o.UserID
		n.Message = deliveredToPlacerMessage(o.RestaurantName)
	} else {
		n.UserID = o.AcceptedBy
		n.Message = deliveredToAccepterMessage(o.RestaurantName)
	}
	if n.UserID == actor {
		return updated, nil
	}
	s.emit(ctx, n)
	return updated, nil
}
