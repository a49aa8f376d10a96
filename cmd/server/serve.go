package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zapp/internal/cart"
	"zapp/internal/config"
	"zapp/internal/db"
	"zapp/internal/feed"
	grpcserver "zapp/internal/grpc"
	"zapp/internal/lifecycle"
	"zapp/repository"
)

var shutdownTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gRPC order service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()
		log.Info("configuration loaded", zap.Stringer("config", cfg))
		return serve(cmd.Context(), cfg, log)
	},
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Second, "Grace period for in-flight calls on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	policy, err := lifecycle.ParseDeliveryPolicy(cfg.Delivery.Policy)
	if err != nil {
		return err
	}

	d, err := db.Open(cfg.Database.Path, db.WithLogger(log))
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Warn("close db", zap.Error(err))
		}
	}()

	broker, err := openFeed(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = broker.Close() }()

	users := repository.NewUserRepository(d)
	orders := repository.NewOrderRepository(d)
	svc := lifecycle.NewService(lifecycle.Store{
		Orders:         orders,
		Users:          users,
		AcceptedOrders: repository.NewAcceptedOrderRepository(d),
		Notifications:  repository.NewNotificationRepository(d),
	}, lifecycle.Options{
		MaxClaimBatch: cfg.Claim.MaxOrders,
		Policy:        policy,
		Feed:          broker,
		Logger:        log,
	})

	shutdown, err := grpcserver.StartGRPC(cfg, &grpcserver.Server{
		Lifecycle: svc,
		Placer:    cart.NewPlacer(orders, broker, log),
		Users:     users,
		Feed:      broker,
		Log:       log,
	}, log)
	if err != nil {
		return fmt.Errorf("start grpc: %w", err)
	}
	log.Info("order service started",
		zap.String("delivery_policy", string(policy)),
		zap.Int("max_claim", svc.MaxClaimBatch()),
		zap.String("feed", cfg.Feed.Driver))

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sigc:
		log.Info("shutting down", zap.String("signal", s.String()))
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(sctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	return nil
}

func openFeed(ctx context.Context, cfg *config.Config, log *zap.Logger) (feed.Broker, error) {
	if cfg.Feed.Driver != "redis" {
		return feed.NewMemoryBroker(feed.WithLogger(log)), nil
	}
	b := feed.NewRedisBroker(feed.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Channel:  cfg.Redis.Channel,
	}, log)
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := b.Ping(pctx); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("redis feed at %s: %w", cfg.Redis.Addr, err)
	}
	return b, nil
}
