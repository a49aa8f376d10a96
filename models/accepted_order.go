package models

import "time"

// AcceptedOrder is the append-only audit row written once per acceptance.
// It is never updated and can drift from the source order.
type AcceptedOrder struct {
	ID             string    `db:"id" json:"id"`
	OrdererID      string    `db:"orderer_id" json:"ordererId"`
	OrdererName    string    `db:"orderer_name" json:"ordererName"`
	AcceptedBy     string    `db:"accepted_by" json:"acceptedBy"`
	OrderID        string    `db:"order_id" json:"orderId"`
	Location       string    `db:"location" json:"location"`
	Amount         Money     `db:"amount" json:"amount"`
	RestaurantName string    `db:"restaurant_name" json:"restaurantName"`
	AcceptedAt     time.Time `db:"accepted_at" json:"acceptedAt"`
	ZapperPhone    string    `db:"zapper_phone" json:"zapperPhone"`
	ZapperRegNo    string    `db:"zapper_reg_no" json:"zapperRegNo"`
	Read           bool      `db:"read" json:"read"`
}
