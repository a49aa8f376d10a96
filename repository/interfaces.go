package repository

import (
	"context"
	"time"

	"zapp/models"
)

// OrderRepositoryI defines operations on Order documents. Queries filter on a
// single field at most; anything richer is done by the caller.
type OrderRepositoryI interface {
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Order, error)
	ListByAcceptedBy(ctx context.Context, uid string) ([]models.Order, error)
	UpdateClaim(ctx context.Context, id string, f models.ClaimFields) (*models.Order, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

// UserRepositoryI defines operations on User profiles.
type UserRepositoryI interface {
	Upsert(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AcceptedOrderRepositoryI defines the append-only acceptance audit log.
type AcceptedOrderRepositoryI interface {
	Create(ctx context.Context, a *models.AcceptedOrder) (*models.AcceptedOrder, error)
	ListByAcceptedBy(ctx context.Context, uid string) ([]models.AcceptedOrder, error)
	ListByOrderID(ctx context.Context, orderID string) ([]models.AcceptedOrder, error)
}

// NotificationRepositoryI defines operations on per-user notifications.
type NotificationRepositoryI interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}
