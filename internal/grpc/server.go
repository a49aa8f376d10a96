package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"zapp/internal/auth"
	"zapp/internal/config"
	"zapp/internal/logger"
)

const (
	healthCheckMethod = "/grpc.health.v1.Health/Check"
	healthWatchMethod = "/grpc.health.v1.Health/Watch"
)

// NewServer builds a gRPC server with logging and JWT auth interceptors and
// registers the order and health services on it.
func NewServer(secret string, svc OrderServiceServer, log *zap.Logger) *grpc.Server {
	log = logger.OrNop(log)
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			unaryLogInterceptor(log),
			auth.NewUnaryAuthInterceptor(secret, healthCheckMethod),
		),
		grpc.ChainStreamInterceptor(
			streamLogInterceptor(log),
			auth.NewStreamAuthInterceptor(secret, healthWatchMethod),
		),
	)
	RegisterOrderServiceServer(srv, svc)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// StartGRPC listens on cfg.GRPC.Address, serves in the background and returns
// a shutdown function.
func StartGRPC(cfg *config.Config, svc OrderServiceServer, log *zap.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = config.DefaultGRPCAddress
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	log = logger.OrNop(log)
	srv := NewServer(cfg.Auth.JWTSecret, svc, log)
	go func() {
		if err := srv.Serve(lis); err != nil {
			log.Error("grpc serve stopped", zap.Error(err))
		}
	}()
	log.Info("grpc listening", zap.String("address", lis.Addr().String()))

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}

func unaryLogInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(log, info.FullMethod, start, err)
		return resp, err
	}
}

func streamLogInterceptor(log *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logCall(log, info.FullMethod, start, err)
		return err
	}
}

func logCall(log *zap.Logger, method string, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
		zap.String("code", status.Code(err).String()),
	}
	if err != nil {
		log.Warn("grpc call failed", append(fields, zap.Error(err))...)
		return
	}
	log.Debug("grpc call", fields...)
}
