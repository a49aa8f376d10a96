package lifecycle

import (
	"context"
	"errors"
	"testing"

	"zapp/models"
)

func TestNotifications_ReadSide(t *testing.T) {
	h := newHarness(t, "notify_read", Options{})
	ctx := context.Background()
	claimed(t, h, "alice", "zed")

	list, err := h.svc.ListNotifications(ctx, "alice")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if err := h.svc.MarkNotificationRead(ctx, "zed", list[0].ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound for another user, got %v", err)
	}
	if err := h.svc.MarkNotificationRead(ctx, "alice", list[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, _ = h.svc.ListNotifications(ctx, "alice")
	if !list[0].Read {
		t.Fatalf("notification not marked read")
	}
	if _, err := h.svc.ListNotifications(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestEmit_SkipsMissingRecipient(t *testing.T) {
	h := newHarness(t, "notify_skip", Options{})
	if n := h.svc.emit(context.Background(), models.Notification{Type: models.NotificationOrderDelivered, OrderID: "o1"}); n != nil {
		t.Fatalf("expected nothing stored without a recipient")
	}
}

func TestNotificationWriteFailureIsNotSurfaced(t *testing.T) {
	h := newHarness(t, "notify_fail", Options{})
	h.svc.notifications = failingNotifications{}
	ctx := context.Background()
	o := h.placeOrder(t, models.Order{UserID: "alice", Status: models.OrderStatusPending})

	report, err := h.svc.Claim(ctx, "zed", []string{o.ID}, testContact)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Err != nil || report.Err() != nil {
		t.Fatalf("notification failure leaked into the claim: %+v", report.Results)
	}
	if got := h.reload(t, o.ID); got.Status != models.OrderStatusAccepted || got.AcceptedBy != "zed" {
		t.Fatalf("order not accepted: %+v", got)
	}
	audit, err := h.accepted.ListByOrderID(ctx, o.ID)
	if err != nil || len(audit) != 1 {
		t.Fatalf("expected one acceptance record, got %d %v", len(audit), err)
	}

	delivered, err := h.svc.Deliver(ctx, "zed", o.ID)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered.Status != models.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", delivered.Status)
	}
}
