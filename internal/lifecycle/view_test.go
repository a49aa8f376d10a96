package lifecycle

import (
	"testing"
	"time"

	"zapp/models"
)

func TestView_SnapshotOverridesLocal(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := NewView(models.Order{ID: "o1", Status: models.OrderStatusPending, UpdatedAt: t0})

	v.ApplyLocal(models.Order{ID: "o1", Status: models.OrderStatusAccepted, AcceptedBy: "zed", UpdatedAt: t0})
	if got, _ := v.Get("o1"); got.AcceptedBy != "zed" || !v.Dirty("o1") {
		t.Fatalf("local edit not visible: %+v", got)
	}

	// The store says someone else won the claim.
	if !v.ApplySnapshot(models.Order{ID: "o1", Status: models.OrderStatusAccepted, AcceptedBy: "yan", UpdatedAt: t0.Add(time.Second)}) {
		t.Fatalf("newer snapshot rejected")
	}
	if got, _ := v.Get("o1"); got.AcceptedBy != "yan" || v.Dirty("o1") {
		t.Fatalf("snapshot did not replace local edit: %+v", got)
	}
}

func TestView_IgnoresOlderSnapshots(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := NewView(models.Order{ID: "o1", Status: models.OrderStatusDelivered, UpdatedAt: t0.Add(time.Minute)})

	if v.ApplySnapshot(models.Order{ID: "o1", Status: models.OrderStatusAccepted, UpdatedAt: t0}) {
		t.Fatalf("older snapshot applied")
	}
	if got, _ := v.Get("o1"); got.Status != models.OrderStatusDelivered {
		t.Fatalf("status regressed to %s", got.Status)
	}
	// Equal timestamps are applied.
	if !v.ApplySnapshot(models.Order{ID: "o1", Status: models.OrderStatusDelivered, Location: "Gate 2", UpdatedAt: t0.Add(time.Minute)}) {
		t.Fatalf("same-age snapshot rejected")
	}
}

func TestView_SelectAndReset(t *testing.T) {
	v := NewView(
		models.Order{ID: "a", UserID: "alice", Status: models.OrderStatusDelivered, OrderDate: at(1)},
		models.Order{ID: "b", UserID: "alice", Status: models.OrderStatusDelivered, OrderDate: at(5)},
		models.Order{ID: "c", UserID: "bob", Status: models.OrderStatusDelivered},
	)
	got := v.Select(DeliveredForPlacer("alice"))
	if len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("unexpected selection: %+v", got)
	}
	v.Remove("b")
	if v.Len() != 2 {
		t.Fatalf("remove failed")
	}
	v.Reset([]models.Order{{ID: "z"}})
	if v.Len() != 1 {
		t.Fatalf("reset should replace all entries")
	}
	if _, ok := v.Get("a"); ok {
		t.Fatalf("reset kept stale entry")
	}
}
