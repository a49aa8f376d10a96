// Package cart holds the pre-order cart and turns it into a pending order.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"zapp/models"
)

// DeliveryChargeRate is the share of the subtotal added as delivery charge.
var DeliveryChargeRate = decimal.NewFromFloat(0.10)

// Item is one cart line. Quantity is never below 1.
type Item struct {
	ID       int64
	Title    string
	Price    models.Money
	Quantity int
}

// Cart is a single user's cart. It is safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items []Item
}

func New() *Cart { return &Cart{} }

// Add puts item in the cart with quantity 1, or bumps the quantity of the line
// with the same ID.
func (c *Cart) Add(item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity++
			return
		}
	}
	item.Quantity = 1
	c.items = append(c.items, item)
}

// UpdateQuantity sets the quantity of line id, clamped to at least 1.
// It reports whether the line exists.
func (c *Cart) UpdateQuantity(id int64, quantity int) bool {
	if quantity < 1 {
		quantity = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			return true
		}
	}
	return false
}

func (c *Cart) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.items[:0]
	for _, it := range c.items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	c.items = out
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Subtotal is the sum of price times quantity.
func (c *Cart) Subtotal() models.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return subtotal(c.items)
}

// DeliveryCharge is DeliveryChargeRate of the subtotal.
func (c *Cart) DeliveryCharge() models.Money {
	return models.NewMoneyFromDecimal(c.Subtotal().Decimal.Mul(DeliveryChargeRate))
}

// Total is subtotal plus delivery charge.
func (c *Cart) Total() models.Money {
	sub := c.Subtotal()
	return models.NewMoneyFromDecimal(sub.Decimal.Add(sub.Decimal.Mul(DeliveryChargeRate)))
}

func subtotal(items []Item) models.Money {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Decimal.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return models.NewMoneyFromDecimal(sum)
}
