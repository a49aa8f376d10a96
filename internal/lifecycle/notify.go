package lifecycle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"zapp/models"
)

func acceptedMessage(restaurant string) string {
	return fmt.Sprintf("Your order from %s has been accepted", orDefault(restaurant, "restaurant"))
}

func deliveredToPlacerMessage(restaurant string) string {
	return fmt.Sprintf("Your order from %s has been delivered", orDefault(restaurant, "restaurant"))
}

func deliveredToAccepterMessage(restaurant string) string {
	return fmt.Sprintf("Order from %s has been marked as delivered", orDefault(restaurant, "restaurant"))
}

// emit appends one notification. It never fails the calling workflow: errors are
// logged and dropped. It returns the stored notification, or nil.
func (s *Service) emit(ctx context.Context, n models.Notification) *models.Notification {
	if n.UserID == "" {
		s.log.Warn("notification skipped, no recipient", zap.String("type", string(n.Type)), zap.String("order_id", n.OrderID))
		return nil
	}
	stored, err := s.notifications.Create(ctx, &n)
	if err != nil {
		s.log.Error("notification write failed",
			zap.String("type", string(n.Type)),
			zap.String("user_id", n.UserID),
			zap.String("order_id", n.OrderID),
			zap.Error(err))
		return nil
	}
	return stored
}

// ListNotifications returns actor's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, actor string) ([]models.Notification, error) {
	if actor == "" {
		return nil, ErrUnauthenticated
	}
	list, err := s.notifications.ListByUser(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// MarkNotificationRead flags one of actor's notifications as read.
func (s *Service) MarkNotificationRead(ctx context.Context, actor, id string) error {
	if actor == "" {
		return ErrUnauthenticated
	}
	if err := s.notifications.MarkRead(ctx, id, actor); err != nil {
		if isNoRows(err) {
			return fmt.Errorf("notification %s: %w", id, ErrNotificationNotFound)
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
