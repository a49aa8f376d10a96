package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"zapp/internal/logger"
)

// DefaultChannel is the Pub/Sub channel used when none is configured.
const DefaultChannel = "zapp:orders"

// RedisBroker publishes events as JSON on a Redis Pub/Sub channel so that
// several server processes share one feed.
type RedisBroker struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

// RedisOptions configures NewRedisBroker.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

func NewRedisBroker(opts RedisOptions, l *zap.Logger) *RedisBroker {
	ch := opts.Channel
	if ch == "" {
		ch = DefaultChannel
	}
	return &RedisBroker{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		channel: ch,
		log:     logger.OrNop(l),
	}
}

// Ping checks connectivity.
func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBroker) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe forwards decoded events until ctx is done. Undecodable payloads are
// logged and skipped.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan Event, error) {
	ps := b.client.Subscribe(ctx, b.channel)
	// Wait for the subscription confirmation so no publish is missed after return.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}
	out := make(chan Event, defaultSubscriberCapacity)
	go func() {
		defer close(out)
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					b.log.Warn("feed: bad payload", zap.Error(err))
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
