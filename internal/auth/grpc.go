package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func allowSet(methods []string) map[string]struct{} {
	allow := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return allow
}

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that extracts and validates
// a Bearer JWT from incoming metadata and injects the Principal into the context.
// Methods listed in allowUnauthenticated will bypass authentication (e.g., health checks).
func NewUnaryAuthInterceptor(secret string, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	allow := allowSet(allowUnauthenticated)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		p, err := ParseFromMD(ctx, secret)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "auth error: %v", err)
		}
		return handler(WithPrincipal(ctx, p), req)
	}
}

// NewStreamAuthInterceptor is the streaming counterpart of NewUnaryAuthInterceptor.
func NewStreamAuthInterceptor(secret string, allowUnauthenticated ...string) grpc.StreamServerInterceptor {
	allow := allowSet(allowUnauthenticated)
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(srv, ss)
		}
		p, err := ParseFromMD(ss.Context(), secret)
		if err != nil {
			return status.Errorf(codes.Unauthenticated, "auth error: %v", err)
		}
		return handler(srv, &principalStream{ServerStream: ss, ctx: WithPrincipal(ss.Context(), p)})
	}
}

type principalStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *principalStream) Context() context.Context { return s.ctx }

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing principal")
	}
	return p, nil
}
