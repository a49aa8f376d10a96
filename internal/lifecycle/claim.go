package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"zapp/internal/feed"
	"zapp/models"
)

// Contact is the fulfiller metadata recorded with every claim.
type Contact struct {
	Phone string
	RegNo string
}

func (c Contact) normalized() (Contact, error) {
	c.Phone = strings.TrimSpace(c.Phone)
	c.RegNo = strings.TrimSpace(c.RegNo)
	if c.Phone == "" || c.RegNo == "" {
		return c, ErrMissingContact
	}
	return c, nil
}

// Candidate is an order selected for claiming, as seen when the selection was
// prepared. Err is set when the order cannot be claimed (missing or already taken).
type Candidate struct {
	Order      models.Order
	Status     models.OrderStatus
	PlacerName string
	Err        error
}

// ClaimResult is the outcome for one candidate.
type ClaimResult struct {
	OrderID       string
	Order         *models.Order
	AcceptedOrder *models.AcceptedOrder
	Err           error
}

// ClaimReport lists per-order outcomes in selection order.
type ClaimReport struct {
	Results []ClaimResult
}

// Claimed returns the ids whose order row now carries the claim.
// Partially applied claims count as claimed.
func (r *ClaimReport) Claimed() []string {
	var ids []string
	for _, res := range r.Results {
		if res.Err == nil || errors.Is(res.Err, ErrPartialClaim) {
			ids = append(ids, res.OrderID)
		}
	}
	return ids
}

// Err joins the per-order failures, or returns nil.
func (r *ClaimReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("order %s: %w", res.OrderID, res.Err))
		}
	}
	return errors.Join(errs...)
}

// PrepareClaim validates a selection and snapshots each selected order.
// Selections over the batch limit are rejected before the store is touched.
func (s *Service) PrepareClaim(ctx context.Context, actor string, orderIDs []string) ([]Candidate, error) {
	if actor == "" {
		return nil, ErrUnauthenticated
	}
	ids := uniqueIDs(orderIDs)
	if len(ids) == 0 {
		return nil, ErrNoOrdersSelected
	}
	if len(ids) > s.maxClaim {
		return nil, fmt.Errorf("%w: selected %d, limit %d", ErrClaimLimitExceeded, len(ids), s.maxClaim)
	}

	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get order %s: %w", id, err)
		}
		if o == nil {
			out = append(out, Candidate{Order: models.Order{ID: id}, Err: ErrOrderNotFound})
			continue
		}
		c := Candidate{
			Order:      *o,
			Status:     ResolveStatus(o.Status),
			PlacerName: s.placerName(ctx, o.UserID),
		}
		if !IsClaimable(o) {
			c.Err = ErrNotClaimable
		}
		out = append(out, c)
	}
	return out, nil
}

// ConfirmClaim writes the claim for every claimable candidate. For each one it
// updates the order, appends an acceptance record, notifies the placer and
// publishes the new snapshot.
//
// The store status is not re-read here: two actors confirming the same prepared
// order both succeed and the later write wins.
func (s *Service) ConfirmClaim(ctx context.Context, actor string, candidates []Candidate, contact Contact) (*ClaimReport, error) {
	if actor == "" {
		return nil, ErrUnauthenticated
	}
	contact, err := contact.normalized()
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoOrdersSelected
	}
	if len(candidates) > s.maxClaim {
		return nil, fmt.Errorf("%w: selected %d, limit %d", ErrClaimLimitExceeded, len(candidates), s.maxClaim)
	}

	report := &ClaimReport{Results: make([]ClaimResult, 0, len(candidates))}
	for i := range candidates {
		c := &candidates[i]
		if c.Err != nil {
			report.Results = append(report.Results, ClaimResult{OrderID: c.Order.ID, Err: c.Err})
			continue
		}
		report.Results = append(report.Results, s.claimOne(ctx, actor, c, contact))
	}
	claimed := report.Claimed()
	s.log.Info("claim confirmed",
		zap.String("actor", actor),
		zap.Int("selected", len(candidates)),
		zap.Int("claimed", len(claimed)))
	return report, nil
}

// Claim prepares and confirms in one call.
func (s *Service) Claim(ctx context.Context, actor string, orderIDs []string, contact Contact) (*ClaimReport, error) {
	if actor == "" {
		return nil, ErrUnauthenticated
	}
	if _, err := contact.normalized(); err != nil {
		return nil, err
	}
	candidates, err := s.PrepareClaim(ctx, actor, orderIDs)
	if err != nil {
		return nil, err
	}
	return s.ConfirmClaim(ctx, actor, candidates, contact)
}

func (s *Service) claimOne(ctx context.Context, actor string, c *Candidate, contact Contact) ClaimResult {
	res := ClaimResult{OrderID: c.Order.ID}
	placer := s.resolvePlacer(ctx, actor, &c.Order)
	now := s.now()

	updated, err := s.orders.UpdateClaim(ctx, c.Order.ID, models.ClaimFields{
		AcceptedBy:  actor,
		AcceptedAt:  now,
		ZapperPhone: contact.Phone,
		ZapperRegNo: contact.RegNo,
	})
	if err != nil {
		if isNoRows(err) {
			res.Err = ErrOrderNotFound
		} else {
			res.Err = fmt.Errorf("update order: %w", err)
		}
		s.log.Warn("claim write failed", zap.String("order_id", c.Order.ID), zap.String("actor", actor), zap.Error(err))
		return res
	}
	res.Order = updated
	s.publish(ctx, feed.EventClaimed, updated)

	name := c.PlacerName
	if name == "" {
		name = s.placerName(ctx, placer)
	}
	rec, err := s.accepted.Create(ctx, &models.AcceptedOrder{
		OrdererID:      placer,
		OrdererName:    name,
		AcceptedBy:     actor,
		OrderID:        c.Order.ID,
		Location:       orDefault(c.Order.Location, "Unknown Location"),
		Amount:         c.Order.Total,
		RestaurantName: orDefault(c.Order.RestaurantName, "Unknown Restaurant"),
		AcceptedAt:     now,
		ZapperPhone:    contact.Phone,
		ZapperRegNo:    contact.RegNo,
	})
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrPartialClaim, err)
		s.log.Error("acceptance record write failed, order left accepted",
			zap.String("order_id", c.Order.ID), zap.String("actor", actor), zap.Error(err))
		return res
	}
	res.AcceptedOrder = rec

	s.emit(ctx, models.Notification{
		UserID:          placer,
		Type:            models.NotificationOrderAccepted,
		Message:         acceptedMessage(c.Order.RestaurantName),
		OrderID:         c.Order.ID,
		AcceptedOrderID: rec.ID,
	})
	return res
}

// resolvePlacer finds who placed o: the snapshot, then a fresh read, then the
// claiming actor as a last resort.
func (s *Service) resolvePlacer(ctx context.Context, actor string, o *models.Order) string {
	if o.UserID != "" {
		return o.UserID
	}
	fresh, err := s.orders.GetByID(ctx, o.ID)
	if err == nil && fresh != nil && fresh.UserID != "" {
		return fresh.UserID
	}
	s.log.Warn("order has no placer, attributing to claimer", zap.String("order_id", o.ID), zap.String("actor", actor))
	return actor
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
