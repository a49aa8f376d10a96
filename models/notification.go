package models

import "time"

// NotificationType tags what a notification is about.
type NotificationType string

const (
	NotificationOrderAccepted  NotificationType = "ORDER_ACCEPTED"
	NotificationOrderDelivered NotificationType = "ORDER_DELIVERED"
)

// Notification is a fire-and-forget message addressed to one user.
type Notification struct {
	ID              string           `db:"id" json:"id"`
	UserID          string           `db:"user_id" json:"userId"`
	Type            NotificationType `db:"type" json:"type"`
	Message         string           `db:"message" json:"message"`
	OrderID         string           `db:"order_id" json:"orderId"`
	AcceptedOrderID string           `db:"accepted_order_id" json:"acceptedOrderId,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	Read            bool             `db:"read" json:"read"`
}
