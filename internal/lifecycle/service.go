// Package lifecycle runs the order workflows: browsing, claiming, delivery and
// archiving, with their notification and change-feed side effects.
//
// Multi-record writes are not transactional. Each workflow issues independent
// store writes and reports per-order outcomes; nothing is retried or rolled back.
package lifecycle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zapp/internal/feed"
	"zapp/internal/logger"
	"zapp/models"
	"zapp/repository"
)

// DefaultMaxClaimBatch is how many orders one claim may cover.
const DefaultMaxClaimBatch = 3

// Store groups the repositories the workflows write to.
type Store struct {
	Orders         repository.OrderRepositoryI
	Users          repository.UserRepositoryI
	AcceptedOrders repository.AcceptedOrderRepositoryI
	Notifications  repository.NotificationRepositoryI
}

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	MaxClaimBatch int
	Policy        DeliveryPolicy
	Feed          feed.Broker
	Logger        *zap.Logger
	Now           func() time.Time
}

// Service exposes the order workflows for authenticated actors. Actors are
// user ids; an empty actor is unauthenticated.
type Service struct {
	orders        repository.OrderRepositoryI
	users         repository.UserRepositoryI
	accepted      repository.AcceptedOrderRepositoryI
	notifications repository.NotificationRepositoryI
	feed          feed.Broker
	log           *zap.Logger
	maxClaim      int
	policy        DeliveryPolicy
	now           func() time.Time
}

func NewService(st Store, opts Options) *Service {
	s := &Service{
		orders:        st.Orders,
		users:         st.Users,
		accepted:      st.AcceptedOrders,
		notifications: st.Notifications,
		feed:          opts.Feed,
		log:           logger.OrNop(opts.Logger),
		maxClaim:      opts.MaxClaimBatch,
		policy:        opts.Policy,
		now:           opts.Now,
	}
	if s.maxClaim <= 0 {
		s.maxClaim = DefaultMaxClaimBatch
	}
	if s.policy == "" {
		s.policy = AccepterOnly
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Policy returns the delivery policy in force.
func (s *Service) Policy() DeliveryPolicy { return s.policy }

// MaxClaimBatch returns the claim batch limit in force.
func (s *Service) MaxClaimBatch() int { return s.maxClaim }

// publish pushes a snapshot to the change feed. Failures are logged only.
func (s *Service) publish(ctx context.Context, t feed.EventType, o *models.Order) {
	if s.feed == nil || o == nil {
		return
	}
	if err := s.feed.Publish(ctx, feed.NewEvent(t, *o)); err != nil {
		s.log.Warn("feed publish failed", zap.String("event", string(t)), zap.String("order_id", o.ID), zap.Error(err))
	}
}

// placerName looks up the display name of uid, degrading to "Unknown User".
func (s *Service) placerName(ctx context.Context, uid string) string {
	const unknown = "Unknown User"
	if uid == "" || s.users == nil {
		return unknown
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		s.log.Warn("placer lookup failed", zap.String("user_id", uid), zap.Error(err))
		return unknown
	}
	if u == nil || u.Name == "" {
		return unknown
	}
	return u.Name
}
