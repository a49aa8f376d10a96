package models

import "time"

// User is a profile record. Any user may both place and claim orders.
// It maps to the `users` table in SQLite.
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email,omitempty"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	RegNo     string    `db:"reg_no" json:"regNo,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
