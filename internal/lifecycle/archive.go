package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"zapp/internal/feed"
	"zapp/models"
)

const archiveConcurrency = 8

// ArchiveReport lists which delivered orders were archived and which writes failed.
type ArchiveReport struct {
	Archived []string
	Failed   map[string]error
}

// Archive soft-deletes every delivered order of actor's present in view. Each
// order is written independently and concurrently; archived orders leave the
// view, failed ones stay in it. An empty selection is a no-op.
func (s *Service) Archive(ctx context.Context, actor string, view *View) (*ArchiveReport, error) {
	if actor == "" {
		return nil, ErrUnauthenticated
	}
	report := &ArchiveReport{Failed: map[string]error{}}
	if view == nil {
		return report, nil
	}
	targets := view.Select(DeliveredForPlacer(actor))
	if len(targets) == 0 {
		return report, nil
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(archiveConcurrency)
	for _, o := range targets {
		id := o.ID
		g.Go(func() error {
			updated, err := s.orders.UpdateStatus(ctx, id, models.OrderStatusArchived)
			if err == nil {
				view.Remove(id)
				s.publish(ctx, feed.EventArchived, updated)
			} else if isNoRows(err) {
				err = ErrOrderNotFound
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[id] = err
			} else {
				report.Archived = append(report.Archived, id)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(report.Failed) > 0 {
		s.log.Warn("archive partially failed",
			zap.String("actor", actor),
			zap.Int("archived", len(report.Archived)),
			zap.Int("failed", len(report.Failed)))
	}
	return report, nil
}

// ArchiveDelivered fetches actor's orders into a fresh view and archives the delivered ones.
func (s *Service) ArchiveDelivered(ctx context.Context, actor string) (*ArchiveReport, error) {
	if actor == "" {
		return nil, ErrUnauthenticated
	}
	orders, err := s.orders.ListByUserID(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list placed orders: %w", err)
	}
	return s.Archive(ctx, actor, NewView(orders...))
}
