// Package feed carries order snapshots to live subscribers after each write.
// Delivery is best-effort: a slow subscriber loses events rather than
// blocking the writer.
package feed

import (
	"context"
	"time"

	"zapp/models"
)

// EventType says which write produced the snapshot.
type EventType string

const (
	EventPlaced    EventType = "order.placed"
	EventClaimed   EventType = "order.claimed"
	EventDelivered EventType = "order.delivered"
	EventArchived  EventType = "order.archived"
)

// Event is one order snapshot taken right after a store write.
type Event struct {
	Type  EventType    `json:"type"`
	Order models.Order `json:"order"`
	At    time.Time    `json:"at"`
}

// Concerns reports whether uid placed or accepted the order in e.
func (e Event) Concerns(uid string) bool {
	return uid != "" && (e.Order.UserID == uid || e.Order.AcceptedBy == uid)
}

// Broker publishes events and hands out subscriptions. Subscriptions end, and
// their channel closes, when the subscribing context is done.
type Broker interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}

// NewEvent stamps an event for o.
func NewEvent(t EventType, o models.Order) Event {
	return Event{Type: t, Order: o, At: time.Now().UTC()}
}
