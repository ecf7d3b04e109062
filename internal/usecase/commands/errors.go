package commands

import "staybook/internal/pkg/errs"

// Sentinels grouped by the error taxonomy the API layer maps from. Domain
// errors are marked with one of these so callers can branch on the group
// while logs keep the specific cause.
var (
	// validation
	ErrValidation = errs.New("validation failed")

	// not found
	ErrPropertyNotFound    = errs.New("property not found")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrPaymentNotFound     = errs.New("payment not found")
	ErrUserNotFound        = errs.New("user not found")

	// authorization
	ErrNotAuthorized = errs.New("actor is not allowed to perform this operation")

	// conflict
	ErrDatesUnavailable        = errs.New("dates conflict with another active reservation")
	ErrPaymentAlreadyInitiated = errs.New("a payment already exists for this reservation")

	// state
	ErrInvalidState = errs.New("operation not valid in current state")

	// gateway
	ErrGatewayFailure = errs.New("payment gateway failure")

	// infrastructure
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)
