package cart

import (
	"context"
	"errors"
	"testing"

	"zapp/internal/feed"
	"zapp/internal/lifecycle"
	"zapp/internal/testutil"
	"zapp/models"
	"zapp/repository"
)

func TestCart_AddBumpsQuantity(t *testing.T) {
	c := New()
	c.Add(Item{ID: 1, Title: "Dosa", Price: models.MustMoney("60"), Quantity: 5})
	c.Add(Item{ID: 1, Title: "Dosa", Price: models.MustMoney("60")})
	c.Add(Item{ID: 2, Title: "Coffee", Price: models.MustMoney("15.50")})

	items := c.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 for repeated add, got %d", items[0].Quantity)
	}
	if items[1].Quantity != 1 {
		t.Fatalf("new line should start at 1, got %d", items[1].Quantity)
	}
}

func TestCart_UpdateQuantityClamps(t *testing.T) {
	c := New()
	c.Add(Item{ID: 1, Price: models.MustMoney("10")})
	if !c.UpdateQuantity(1, 0) {
		t.Fatalf("expected line to exist")
	}
	if q := c.Items()[0].Quantity; q != 1 {
		t.Fatalf("quantity should clamp to 1, got %d", q)
	}
	c.UpdateQuantity(1, -4)
	if q := c.Items()[0].Quantity; q != 1 {
		t.Fatalf("quantity should clamp to 1, got %d", q)
	}
	if c.UpdateQuantity(99, 3) {
		t.Fatalf("unknown line reported as updated")
	}
}

func TestCart_Totals(t *testing.T) {
	c := New()
	c.Add(Item{ID: 1, Price: models.MustMoney("60")})
	c.UpdateQuantity(1, 2)
	c.Add(Item{ID: 2, Price: models.MustMoney("15.50")})

	if got := c.Subtotal().String(); got != "135.50" {
		t.Fatalf("subtotal: got %s", got)
	}
	if got := c.DeliveryCharge().String(); got != "13.55" {
		t.Fatalf("delivery charge: got %s", got)
	}
	if got := c.Total().String(); got != "149.05" {
		t.Fatalf("total: got %s", got)
	}

	c.Remove(1)
	if c.Len() != 1 || c.Subtotal().String() != "15.50" {
		t.Fatalf("remove: len=%d subtotal=%s", c.Len(), c.Subtotal())
	}
	c.Clear()
	if c.Len() != 0 || c.Total().String() != "0.00" {
		t.Fatalf("clear: len=%d total=%s", c.Len(), c.Total())
	}
}

func TestPlaceOrder(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "cart_place")
	orders := repository.NewOrderRepository(d)
	broker := feed.NewMemoryBroker()
	defer broker.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _ := broker.Subscribe(ctx)

	p := NewPlacer(orders, broker, nil)
	c := New()
	c.Add(Item{ID: 1, Title: "Dosa", Price: models.MustMoney("60")})
	c.Add(Item{ID: 1, Title: "Dosa", Price: models.MustMoney("60")})
	c.Add(Item{ID: 2, Title: "Coffee", Price: models.MustMoney("15.50")})

	o, err := p.PlaceOrder(ctx, Customer{UserID: "alice", Email: "alice@example.com"}, c, Restaurant{ID: "r1", Name: "Dosa Point"}, "  Hostel B  ")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if o.Status != models.OrderStatusPending || o.UserID != "alice" || o.Location != "Hostel B" {
		t.Fatalf("unexpected order: %+v", o)
	}
	if o.Total.String() != "149.05" || len(o.Items) != 2 || o.Items[0].Quantity != 2 {
		t.Fatalf("unexpected totals/items: total=%s items=%+v", o.Total, o.Items)
	}
	if c.Len() != 0 {
		t.Fatalf("cart should be cleared after placement")
	}
	select {
	case e := <-events:
		if e.Type != feed.EventPlaced || e.Order.ID != o.ID {
			t.Fatalf("unexpected event: %+v", e)
		}
	default:
		t.Fatalf("expected a placed event")
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "cart_place_validation")
	p := NewPlacer(repository.NewOrderRepository(d), nil, nil)
	ctx := context.Background()
	full := New()
	full.Add(Item{ID: 1, Price: models.MustMoney("10")})
	r := Restaurant{Name: "Dosa Point"}

	if _, err := p.PlaceOrder(ctx, Customer{}, full, r, "Hostel B"); !errors.Is(err, lifecycle.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := p.PlaceOrder(ctx, Customer{UserID: "alice"}, full, r, "   "); !errors.Is(err, lifecycle.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder for blank location, got %v", err)
	}
	if _, err := p.PlaceOrder(ctx, Customer{UserID: "alice"}, full, Restaurant{}, "Hostel B"); !errors.Is(err, lifecycle.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder for missing restaurant, got %v", err)
	}
	if _, err := p.PlaceOrder(ctx, Customer{UserID: "alice"}, New(), r, "Hostel B"); !errors.Is(err, lifecycle.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder for empty cart, got %v", err)
	}
	if full.Len() != 1 {
		t.Fatalf("rejected placement must not clear the cart")
	}

	refund := New()
	refund.Add(Item{ID: 2, Title: "Voucher", Price: models.MustMoney("-500")})
	if _, err := p.PlaceOrder(ctx, Customer{UserID: "alice"}, refund, r, "Hostel B"); !errors.Is(err, lifecycle.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder for negative price, got %v", err)
	}
	if refund.Len() != 1 {
		t.Fatalf("rejected placement must not clear the cart")
	}
}
