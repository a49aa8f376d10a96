package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"zapp/internal/feed"
	"zapp/internal/testutil"
	"zapp/models"
	"zapp/repository"
)

type harness struct {
	svc           *Service
	orders        *countingOrders
	users         *repository.UserRepository
	accepted      repository.AcceptedOrderRepositoryI
	notifications *repository.NotificationRepository
	broker        *feed.MemoryBroker
}

// countingOrders counts every store call so tests can assert nothing was touched.
type countingOrders struct {
	repository.OrderRepositoryI
	calls atomic.Int64
}

func (c *countingOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	c.calls.Add(1)
	return c.OrderRepositoryI.GetByID(ctx, id)
}

func (c *countingOrders) UpdateClaim(ctx context.Context, id string, f models.ClaimFields) (*models.Order, error) {
	c.calls.Add(1)
	return c.OrderRepositoryI.UpdateClaim(ctx, id, f)
}

func (c *countingOrders) UpdateStatus(ctx context.Context, id string, s models.OrderStatus) (*models.Order, error) {
	c.calls.Add(1)
	return c.OrderRepositoryI.UpdateStatus(ctx, id, s)
}

func (c *countingOrders) MarkDelivered(ctx context.Context, id string, at time.Time) (*models.Order, error) {
	c.calls.Add(1)
	return c.OrderRepositoryI.MarkDelivered(ctx, id, at)
}

type failingAccepted struct{}

func (failingAccepted) Create(context.Context, *models.AcceptedOrder) (*models.AcceptedOrder, error) {
	return nil, errors.New("audit store unavailable")
}

func (failingAccepted) ListByAcceptedBy(context.Context, string) ([]models.AcceptedOrder, error) {
	return nil, nil
}

func (failingAccepted) ListByOrderID(context.Context, string) ([]models.AcceptedOrder, error) {
	return nil, nil
}

type failingNotifications struct{}

func (failingNotifications) Create(context.Context, *models.Notification) (*models.Notification, error) {
	return nil, errors.New("notification store unavailable")
}

func (failingNotifications) ListByUser(context.Context, string) ([]models.Notification, error) {
	return nil, nil
}

func (failingNotifications) MarkRead(context.Context, string, string) error {
	return nil
}

func newHarness(t *testing.T, name string, opts Options) *harness {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	h := &harness{
		orders:        &countingOrders{OrderRepositoryI: repository.NewOrderRepository(d)},
		users:         repository.NewUserRepository(d),
		accepted:      repository.NewAcceptedOrderRepository(d),
		notifications: repository.NewNotificationRepository(d),
		broker:        feed.NewMemoryBroker(),
	}
	t.Cleanup(func() { _ = h.broker.Close() })
	if opts.Feed == nil {
		opts.Feed = h.broker
	}
	h.svc = NewService(Store{
		Orders:         h.orders,
		Users:          h.users,
		AcceptedOrders: h.accepted,
		Notifications:  h.notifications,
	}, opts)
	return h
}

func (h *harness) withAccepted(a repository.AcceptedOrderRepositoryI) {
	h.accepted = a
	h.svc.accepted = a
}

func (h *harness) placeOrder(t *testing.T, o models.Order) models.Order {
	t.Helper()
	if o.RestaurantName == "" {
		o.RestaurantName = "Dosa Point"
	}
	if o.Location == "" {
		o.Location = "Hostel B"
	}
	if o.Total.IsZero() {
		o.Total = models.MustMoney("110")
	}
	created, err := h.orders.Create(context.Background(), &o)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return *created
}

func (h *harness) reload(t *testing.T, id string) *models.Order {
	t.Helper()
	o, err := h.orders.GetByID(context.Background(), id)
	if err != nil || o == nil {
		t.Fatalf("reload %s: %v %+v", id, err, o)
	}
	return o
}

func (h *harness) notificationsFor(t *testing.T, uid string) []models.Notification {
	t.Helper()
	list, err := h.notifications.ListByUser(context.Background(), uid)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	return list
}

var testContact = Contact{Phone: "9999999999", RegNo: "REG1"}
