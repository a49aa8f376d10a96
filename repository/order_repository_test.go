package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"zapp/internal/db"
	"zapp/models"
)

func openTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	d := openTestDB(t, "orders_create")
	repo := NewOrderRepository(d)
	ctx := context.Background()

	in := &models.Order{
		Items: []models.OrderItem{
			{ID: 1, Title: "Masala Dosa", Price: models.MustMoney("60"), Quantity: 2},
			{ID: 7, Title: "Filter Coffee", Price: models.MustMoney("15.50"), Quantity: 1},
		},
		Total:          models.MustMoney("149.05"),
		Location:       "Hostel B, Room 12",
		RestaurantID:   "r1",
		RestaurantName: "Dosa Point",
		Email:          "alice@example.com",
		UserID:         "alice",
		Status:         models.OrderStatusPending,
	}
	o, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID == "" || o.OrderDate == nil || o.UpdatedAt.IsZero() {
		t.Fatalf("store did not assign id/orderDate/updatedAt: %+v", o)
	}
	if len(o.Items) != 2 || o.Items[1].Title != "Filter Coffee" || o.Items[0].Quantity != 2 {
		t.Fatalf("items not round-tripped: %+v", o.Items)
	}
	if o.Total.String() != "149.05" {
		t.Fatalf("expected total 149.05, got %s", o.Total)
	}
	if o.AcceptedAt != nil || o.DeliveredAt != nil {
		t.Fatalf("new order should have no acceptance or delivery time: %+v", o)
	}

	missing, err := repo.GetByID(ctx, "does-not-exist")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing order; got %+v, %v", missing, err)
	}
}

func TestOrderRepository_EmptyStatusIsPreserved(t *testing.T) {
	d := openTestDB(t, "orders_empty_status")
	repo := NewOrderRepository(d)
	ctx := context.Background()

	o, err := repo.Create(ctx, &models.Order{UserID: "bob", RestaurantName: "Chai Stop"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.Status != "" {
		t.Fatalf("expected empty status to be stored as-is, got %q", o.Status)
	}
	if o.Items == nil || len(o.Items) != 0 {
		t.Fatalf("expected empty item list, got %+v", o.Items)
	}
}

func TestOrderRepository_SingleFieldQueries(t *testing.T) {
	d := openTestDB(t, "orders_queries")
	repo := NewOrderRepository(d)
	ctx := context.Background()

	mk := func(user string) *models.Order {
		o, err := repo.Create(ctx, &models.Order{UserID: user, Status: models.OrderStatusPending})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return o
	}
	a1 := mk("alice")
	mk("alice")
	mk("bob")

	all, err := repo.ListAll(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: %v len=%d", err, len(all))
	}
	mine, err := repo.ListByUserID(ctx, "alice")
	if err != nil || len(mine) != 2 {
		t.Fatalf("list by user: %v len=%d", err, len(mine))
	}

	if _, err := repo.UpdateClaim(ctx, a1.ID, models.ClaimFields{AcceptedBy: "zed", AcceptedAt: time.Now(), ZapperPhone: "9999999999", ZapperRegNo: "REG1"}); err != nil {
		t.Fatalf("update claim: %v", err)
	}
	accepted, err := repo.ListByAcceptedBy(ctx, "zed")
	if err != nil || len(accepted) != 1 || accepted[0].ID != a1.ID {
		t.Fatalf("list by accepted: %v %+v", err, accepted)
	}
}

func TestOrderRepository_TransitionsStampTimes(t *testing.T) {
	d := openTestDB(t, "orders_transitions")
	repo := NewOrderRepository(d)
	ctx := context.Background()

	o, err := repo.Create(ctx, &models.Order{UserID: "alice", Status: models.OrderStatusPending})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created := o.UpdatedAt

	acceptedAt := time.Now().UTC().Add(-time.Minute).Truncate(time.Second)
	claimed, err := repo.UpdateClaim(ctx, o.ID, models.ClaimFields{AcceptedBy: "zed", AcceptedAt: acceptedAt, ZapperPhone: "9999999999", ZapperRegNo: "REG1"})
	if err != nil {
		t.Fatalf("update claim: %v", err)
	}
	if claimed.Status != models.OrderStatusAccepted || claimed.AcceptedBy != "zed" || claimed.ZapperPhone != "9999999999" || claimed.ZapperRegNo != "REG1" {
		t.Fatalf("claim fields not written: %+v", claimed)
	}
	if claimed.AcceptedAt == nil || !claimed.AcceptedAt.Equal(acceptedAt) {
		t.Fatalf("acceptedAt mismatch: %v vs %v", claimed.AcceptedAt, acceptedAt)
	}
	if claimed.UpdatedAt.Before(created) {
		t.Fatalf("updatedAt went backwards")
	}

	// A second claim overwrites the first without any status check.
	again, err := repo.UpdateClaim(ctx, o.ID, models.ClaimFields{AcceptedBy: "yan", AcceptedAt: time.Now(), ZapperPhone: "8888888888", ZapperRegNo: "REG2"})
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if again.AcceptedBy != "yan" {
		t.Fatalf("expected last write to win, got %q", again.AcceptedBy)
	}

	delivered, err := repo.MarkDelivered(ctx, o.ID, time.Now())
	if err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	if delivered.Status != models.OrderStatusDelivered || delivered.DeliveredAt == nil {
		t.Fatalf("delivery not recorded: %+v", delivered)
	}

	archived, err := repo.UpdateStatus(ctx, o.ID, models.OrderStatusArchived)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != models.OrderStatusArchived {
		t.Fatalf("expected archived, got %s", archived.Status)
	}

	if _, err := repo.UpdateStatus(ctx, "missing", models.OrderStatusArchived); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for missing order, got %v", err)
	}
}
