package grpcserver

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"zapp/internal/feed"
	"zapp/internal/testutil"
	"zapp/models"
)

const testSecret = "test-secret"

func dialBufconn(t *testing.T, s *Server) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(testSecret, s, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func bearer(t *testing.T, uid string) context.Context {
	t.Helper()
	tok := testutil.GenerateJWTHS256(t, testSecret, uid, "name-"+uid)
	return testutil.OutgoingWithBearer(context.Background(), tok)
}

func TestE2EHealthWithoutToken(t *testing.T) {
	conn := dialBufconn(t, newTestServer(t, "e2e_health"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", resp.GetStatus())
	}
}

func TestE2ERejectsMissingToken(t *testing.T) {
	c := NewClient(dialBufconn(t, newTestServer(t, "e2e_unauth")))
	err := c.Call(context.Background(), "ListAvailable", nil, &OrdersResponse{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestE2EPlaceAndClaim(t *testing.T) {
	c := NewClient(dialBufconn(t, newTestServer(t, "e2e_flow")))

	var placed OrderResponse
	err := c.Call(bearer(t, "placer"), "PlaceOrder", &PlaceOrderRequest{
		RestaurantName: "Dosa Point",
		Location:       "Hostel B",
		Items:          []CartLine{{ID: 7, Title: "Idli", Price: models.MustMoney("20"), Quantity: 3}},
	}, &placed)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if placed.Order == nil || placed.Order.Total.String() != "66.00" || placed.Order.Items[0].Quantity != 3 {
		t.Fatalf("unexpected order: %+v", placed.Order)
	}

	var claim ClaimOrdersResponse
	err = c.Call(bearer(t, "zapper"), "ClaimOrders", &ClaimOrdersRequest{
		OrderIDs: []string{placed.Order.ID}, Phone: "9999999999", RegNo: "REG1",
	}, &claim)
	if err != nil {
		t.Fatalf("ClaimOrders: %v", err)
	}
	if len(claim.Claimed) != 1 || claim.Results[0].AcceptedOrder == nil || claim.Results[0].AcceptedOrder.ZapperRegNo != "REG1" {
		t.Fatalf("unexpected claim: %+v", claim)
	}

	err = c.Call(bearer(t, "zapper"), "DeliverOrder", &OrderRequest{OrderID: "missing"}, &OrderResponse{})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestE2EWatchOrders(t *testing.T) {
	s := newTestServer(t, "e2e_watch")
	c := NewClient(dialBufconn(t, s))

	ctx, cancel := context.WithTimeout(bearer(t, "zapper"), 5*time.Second)
	defer cancel()
	got := make(chan WatchEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.WatchOrders(ctx, &WatchOrdersRequest{IncludeAvailable: true}, func(e WatchEvent) error {
			select {
			case got <- e:
			default:
			}
			return nil
		})
	}()

	// The subscription is registered asynchronously, so keep placing until one arrives.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case e := <-got:
			if e.Type != feed.EventPlaced || e.Order.UserID != "placer" {
				t.Fatalf("unexpected event: %+v", e)
			}
			cancel()
			if err := <-done; err != nil && status.Code(err) != codes.Canceled && !errors.Is(err, context.Canceled) {
				t.Fatalf("watch ended with %v", err)
			}
			return
		case err := <-done:
			t.Fatalf("watch ended early: %v", err)
		case <-tick.C:
			place(t, s, "placer")
		case <-ctx.Done():
			t.Fatalf("no event received")
		}
	}
}
