package feed

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"zapp/internal/logger"
)

const defaultSubscriberCapacity = 64

// ErrClosed is returned by a closed broker.
var ErrClosed = errors.New("feed: broker closed")

// MemoryBroker fans events out to in-process subscribers over buffered channels.
type MemoryBroker struct {
	mu       sync.RWMutex
	subs     map[*subscriber]struct{}
	capacity int
	closed   bool
	done     chan struct{}
	log      *zap.Logger
}

// MemoryOption customises NewMemoryBroker.
type MemoryOption func(*MemoryBroker)

// WithCapacity sets the per-subscriber buffer size.
func WithCapacity(n int) MemoryOption {
	return func(b *MemoryBroker) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// WithLogger reports dropped events to l.
func WithLogger(l *zap.Logger) MemoryOption {
	return func(b *MemoryBroker) { b.log = logger.OrNop(l) }
}

func NewMemoryBroker(opts ...MemoryOption) *MemoryBroker {
	b := &MemoryBroker{
		subs:     map[*subscriber]struct{}{},
		capacity: defaultSubscriberCapacity,
		done:     make(chan struct{}),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Publish delivers e to every current subscriber. A full subscriber drops its
// oldest buffered event to make room.
func (b *MemoryBroker) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	for sub := range b.subs {
		if dropped := sub.deliver(e); dropped {
			b.log.Warn("feed subscriber overflow, oldest event dropped", zap.String("order_id", e.Order.ID))
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan Event, error) {
	sub := &subscriber{ch: make(chan Event, b.capacity)}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			b.remove(sub)
		case <-b.done:
		}
	}()
	return sub.ch, nil
}

// Close ends every subscription.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	for sub := range b.subs {
		sub.close()
		delete(b.subs, sub)
	}
	return nil
}

func (b *MemoryBroker) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub)
	sub.close()
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

func (s *subscriber) deliver(e Event) (dropped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	for {
		select {
		case s.ch <- e:
			return dropped
		default:
			select {
			case <-s.ch:
				dropped = true
			default:
			}
		}
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
