package grpcserver

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"zapp/internal/auth"
	"zapp/internal/cart"
	"zapp/internal/feed"
	"zapp/internal/lifecycle"
	"zapp/internal/logger"
	"zapp/models"
	"zapp/repository"
)

// Server implements OrderServiceServer on top of the lifecycle service.
type Server struct {
	Lifecycle *lifecycle.Service
	Placer    *cart.Placer
	Users     repository.UserRepositoryI
	Feed      feed.Broker
	Log       *zap.Logger
}

var _ OrderServiceServer = (*Server)(nil)

func (s *Server) logger() *zap.Logger { return logger.OrNop(s.Log) }

func (s *Server) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*OrderResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	c := cart.New()
	// Repeated item ids add up into one line.
	qty := make(map[int64]int, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: quantity must be at least 1", line.ID)
		}
		if _, seen := qty[line.ID]; !seen {
			c.Add(cart.Item{ID: line.ID, Title: line.Title, Price: line.Price})
		}
		qty[line.ID] += line.Quantity
		c.UpdateQuantity(line.ID, qty[line.ID])
	}
	o, err := s.Placer.PlaceOrder(ctx,
		cart.Customer{UserID: p.UserID, Email: p.Email},
		c,
		cart.Restaurant{ID: req.RestaurantID, Name: req.RestaurantName},
		req.Location,
	)
	if err != nil {
		return nil, err
	}
	return &OrderResponse{Order: o}, nil
}

func (s *Server) GetOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, status.Error(codes.InvalidArgument, "orderId is required")
	}
	o, err := s.Lifecycle.GetOrder(ctx, p.UserID, req.OrderID)
	if err != nil {
		return nil, err
	}
	return &OrderResponse{Order: o}, nil
}

func (s *Server) ListAvailable(ctx context.Context, _ *Empty) (*OrdersResponse, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	return ordersResponse(s.Lifecycle.ListAvailable(ctx))
}

func (s *Server) ListAccepted(ctx context.Context, _ *Empty) (*OrdersResponse, error) {
	return s.listFor(ctx, s.Lifecycle.ListAccepted)
}

func (s *Server) ListHistory(ctx context.Context, _ *Empty) (*OrdersResponse, error) {
	return s.listFor(ctx, s.Lifecycle.ListPlaced)
}

func (s *Server) ListActive(ctx context.Context, _ *Empty) (*OrdersResponse, error) {
	return s.listFor(ctx, s.Lifecycle.ListActive)
}

func (s *Server) ListDelivered(ctx context.Context, _ *Empty) (*OrdersResponse, error) {
	return s.listFor(ctx, s.Lifecycle.ListDelivered)
}

func (s *Server) listFor(ctx context.Context, list func(context.Context, string) ([]models.Order, error)) (*OrdersResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return ordersResponse(list(ctx, p.UserID))
}

func ordersResponse(orders []models.Order, err error) (*OrdersResponse, error) {
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return &OrdersResponse{Orders: orders}, nil
}

func (s *Server) PrepareClaim(ctx context.Context, req *PrepareClaimRequest) (*PrepareClaimResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := s.Lifecycle.PrepareClaim(ctx, p.UserID, req.OrderIDs)
	if err != nil {
		return nil, err
	}
	resp := &PrepareClaimResponse{
		Candidates: make([]CandidateView, 0, len(candidates)),
		Limit:      s.Lifecycle.MaxClaimBatch(),
	}
	for _, c := range candidates {
		v := CandidateView{Order: c.Order, Status: c.Status, PlacerName: c.PlacerName, Claimable: c.Err == nil}
		if c.Err != nil {
			v.Error = c.Err.Error()
		}
		resp.Candidates = append(resp.Candidates, v)
	}
	return resp, nil
}

func (s *Server) ClaimOrders(ctx context.Context, req *ClaimOrdersRequest) (*ClaimOrdersResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	report, err := s.Lifecycle.Claim(ctx, p.UserID, req.OrderIDs, lifecycle.Contact{Phone: req.Phone, RegNo: req.RegNo})
	if err != nil {
		return nil, err
	}
	resp := &ClaimOrdersResponse{
		Results: make([]ClaimResultView, 0, len(report.Results)),
		Claimed: report.Claimed(),
	}
	for _, r := range report.Results {
		v := ClaimResultView{OrderID: r.OrderID, Order: r.Order, AcceptedOrder: r.AcceptedOrder}
		if r.Err != nil {
			v.Error = r.Err.Error()
			v.Code = codeFor(r.Err).String()
		}
		resp.Results = append(resp.Results, v)
	}
	if resp.Claimed == nil {
		resp.Claimed = []string{}
	}
	s.logger().Info("claim processed",
		zap.String("user_id", p.UserID),
		zap.Int("requested", len(req.OrderIDs)),
		zap.Int("claimed", len(resp.Claimed)))
	return resp, nil
}

func (s *Server) DeliverOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, status.Error(codes.InvalidArgument, "orderId is required")
	}
	o, err := s.Lifecycle.Deliver(ctx, p.UserID, req.OrderID)
	if err != nil {
		return nil, err
	}
	return &OrderResponse{Order: o}, nil
}

func (s *Server) ArchiveDelivered(ctx context.Context, _ *Empty) (*ArchiveResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	report, err := s.Lifecycle.ArchiveDelivered(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	resp := &ArchiveResponse{Archived: report.Archived}
	if resp.Archived == nil {
		resp.Archived = []string{}
	}
	if len(report.Failed) > 0 {
		resp.Failed = make(map[string]string, len(report.Failed))
		for id, ferr := range report.Failed {
			resp.Failed[id] = ferr.Error()
		}
	}
	return resp, nil
}

func (s *Server) ListNotifications(ctx context.Context, _ *Empty) (*NotificationsResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	ns, err := s.Lifecycle.ListNotifications(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		ns = []models.Notification{}
	}
	return &NotificationsResponse{Notifications: ns}, nil
}

func (s *Server) MarkNotificationRead(ctx context.Context, req *MarkNotificationReadRequest) (*Empty, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.NotificationID) == "" {
		return nil, status.Error(codes.InvalidArgument, "notificationId is required")
	}
	if err := s.Lifecycle.MarkNotificationRead(ctx, p.UserID, req.NotificationID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

// UpsertProfile stores the caller's display data. Name and email fall back to
// the token claims when omitted.
func (s *Server) UpsertProfile(ctx context.Context, req *ProfileRequest) (*ProfileResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:    p.UserID,
		Name:  firstNonEmpty(req.Name, p.Name),
		Email: firstNonEmpty(req.Email, p.Email),
		Phone: strings.TrimSpace(req.Phone),
		RegNo: strings.TrimSpace(req.RegNo),
	}
	stored, err := s.Users.Upsert(ctx, u)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "upsert profile: %v", err)
	}
	return &ProfileResponse{User: stored}, nil
}

func (s *Server) GetProfile(ctx context.Context, _ *Empty) (*ProfileResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "load profile: %v", err)
	}
	if u == nil {
		return nil, status.Error(codes.NotFound, "profile not found")
	}
	return &ProfileResponse{User: u}, nil
}

// WatchOrders streams feed events for orders the caller placed or accepted
// until the client goes away or the feed closes.
func (s *Server) WatchOrders(req *WatchOrdersRequest, stream OrderStream) error {
	ctx := stream.Context()
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return err
	}
	if s.Feed == nil {
		return status.Error(codes.Unavailable, "order feed is not configured")
	}
	events, err := s.Feed.Subscribe(ctx)
	if err != nil {
		if errors.Is(err, feed.ErrClosed) {
			return status.Error(codes.Unavailable, "order feed is closed")
		}
		return status.Errorf(codes.Internal, "subscribe: %v", err)
	}
	available := lifecycle.Available()
	for e := range events {
		if !e.Concerns(p.UserID) && !(req.IncludeAvailable && available(&e.Order)) {
			continue
		}
		if err := stream.Send(&e); err != nil {
			return err
		}
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
