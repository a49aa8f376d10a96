package lifecycle

import "errors"

// Input validation.
var (
	ErrNoOrdersSelected   = errors.New("no orders selected")
	ErrClaimLimitExceeded = errors.New("too many orders selected")
	ErrMissingContact     = errors.New("phone number and registration number are required")
	ErrInvalidOrder       = errors.New("invalid order")
)

// Authorization.
var (
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrNotAuthorized   = errors.New("not authorized for this order")
)

// State.
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotClaimable      = errors.New("order is not available to claim")
	ErrOrderNotFound     = errors.New("order not found")

	// ErrNotificationNotFound also covers notifications addressed to someone else.
	ErrNotificationNotFound = errors.New("notification not found")
)

// ErrPartialClaim means the order row was written but its acceptance record was not.
// Nothing is rolled back.
var ErrPartialClaim = errors.New("order accepted but acceptance record not written")
