package models

import "time"

// OrderStatus represents the current progress of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusArchived  OrderStatus = "archived"
)

// Valid reports whether s is one of the known statuses. Empty is not valid
// here; callers resolve it to pending first.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusDelivered, OrderStatusArchived:
		return true
	}
	return false
}

// OrderItem is one cart line frozen into an order.
type OrderItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    Money  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Order is a food order placed by UserID and optionally claimed by AcceptedBy.
// Status may be empty on records written before statuses existed; it is then
// treated as pending.
type Order struct {
	ID             string      `db:"id" json:"id"`
	Items          []OrderItem `db:"items" json:"items"`
	Total          Money       `db:"total" json:"total"`
	Location       string      `db:"location" json:"location"`
	RestaurantID   string      `db:"restaurant_id" json:"restaurantId,omitempty"`
	RestaurantName string      `db:"restaurant_name" json:"restaurantName"`
	Email          string      `db:"email" json:"email,omitempty"`
	UserID         string      `db:"user_id" json:"userId,omitempty"`
	Status         OrderStatus `db:"status" json:"status,omitempty"`
	AcceptedBy     string      `db:"accepted_by" json:"acceptedBy,omitempty"`
	ZapperPhone    string      `db:"zapper_phone" json:"zapperPhone,omitempty"`
	ZapperRegNo    string      `db:"zapper_reg_no" json:"zapperRegNo,omitempty"`
	OrderDate      *time.Time  `db:"order_date" json:"orderDate,omitempty"`
	AcceptedAt     *time.Time  `db:"accepted_at" json:"acceptedAt,omitempty"`
	DeliveredAt    *time.Time  `db:"delivered_at" json:"deliveredAt,omitempty"`
	// UpdatedAt is stamped by the store on every write.
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ClaimFields is the set of fields written atomically with acceptance.
type ClaimFields struct {
	AcceptedBy  string
	AcceptedAt  time.Time
	ZapperPhone string
	ZapperRegNo string
}
