package cart

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"zapp/internal/feed"
	"zapp/internal/lifecycle"
	"zapp/internal/logger"
	"zapp/models"
	"zapp/repository"
)

// Placer writes carts to the store as pending orders.
type Placer struct {
	orders repository.OrderRepositoryI
	feed   feed.Broker
	log    *zap.Logger
}

func NewPlacer(orders repository.OrderRepositoryI, b feed.Broker, l *zap.Logger) *Placer {
	return &Placer{orders: orders, feed: b, log: logger.OrNop(l)}
}

// Customer identifies who is placing the order.
type Customer struct {
	UserID string
	Email  string
}

// Restaurant is the vendor the cart was filled from.
type Restaurant struct {
	ID   string
	Name string
}

// PlaceOrder writes one pending order from c and then empties c. The total is
// computed here and never recomputed later.
func (p *Placer) PlaceOrder(ctx context.Context, who Customer, c *Cart, r Restaurant, location string) (*models.Order, error) {
	if strings.TrimSpace(who.UserID) == "" {
		return nil, lifecycle.ErrUnauthenticated
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: delivery location is required", lifecycle.ErrInvalidOrder)
	}
	if strings.TrimSpace(r.Name) == "" {
		return nil, fmt.Errorf("%w: restaurant is required", lifecycle.ErrInvalidOrder)
	}
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("%w: cart is empty", lifecycle.ErrInvalidOrder)
	}

	lines := c.Items()
	items := make([]models.OrderItem, 0, len(lines))
	for _, it := range lines {
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("%w: item %d has a negative price", lifecycle.ErrInvalidOrder, it.ID)
		}
		items = append(items, models.OrderItem{ID: it.ID, Title: it.Title, Price: it.Price, Quantity: it.Quantity})
	}
	o, err := p.orders.Create(ctx, &models.Order{
		Items:          items,
		Total:          c.Total(),
		Location:       location,
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
		Email:          who.Email,
		UserID:         who.UserID,
		Status:         models.OrderStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	c.Clear()

	if p.feed != nil {
		if err := p.feed.Publish(ctx, feed.NewEvent(feed.EventPlaced, *o)); err != nil {
			p.log.Warn("feed publish failed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	p.log.Info("order placed", zap.String("order_id", o.ID), zap.String("user_id", who.UserID), zap.Stringer("total", o.Total))
	return o, nil
}
