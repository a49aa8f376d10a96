package grpcserver

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"zapp/internal/lifecycle"
)

// codeFor classifies workflow errors into gRPC codes.
func codeFor(err error) codes.Code {
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		return s.Code()
	}
	switch {
	case errors.Is(err, lifecycle.ErrNoOrdersSelected),
		errors.Is(err, lifecycle.ErrClaimLimitExceeded),
		errors.Is(err, lifecycle.ErrMissingContact),
		errors.Is(err, lifecycle.ErrInvalidOrder):
		return codes.InvalidArgument
	case errors.Is(err, lifecycle.ErrUnauthenticated):
		return codes.Unauthenticated
	case errors.Is(err, lifecycle.ErrNotAuthorized):
		return codes.PermissionDenied
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrNotClaimable):
		return codes.FailedPrecondition
	case errors.Is(err, lifecycle.ErrOrderNotFound),
		errors.Is(err, lifecycle.ErrNotificationNotFound):
		return codes.NotFound
	default:
		return codes.Internal
	}
}

// toStatus converts err into a gRPC status error.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codeFor(err), err.Error())
}
