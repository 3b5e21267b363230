package engine

import "errors"

// Sentinel errors returned by the allocation engine.  Handlers translate
// these to HTTP statuses at the boundary; nothing below the handler layer
// knows about status codes.
var (
	// Validation failures: client-fixable, never retried server-side.
	ErrInvalidPartySize      = errors.New("invalid party size")
	ErrOutsideOperatingHours = errors.New("outside operating hours")
	ErrOutsideBookingWindow  = errors.New("outside booking window")

	// ErrNoTableAvailable is an expected business outcome, not a fault:
	// no table of sufficient capacity is free for the requested window.
	ErrNoTableAvailable = errors.New("no table available")

	// ErrBusy signals transient lock contention on the same table/window.
	// Callers retry with backoff.
	ErrBusy = errors.New("busy, retry")

	// ErrInvalidTransition is an attempted state change not permitted from
	// the reservation's current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrDepositUnpaid blocks confirmation of a peak reservation whose
	// deposit has not been confirmed by the payment collaborator.
	ErrDepositUnpaid = errors.New("deposit not paid")

	// ErrTableClaimed blocks the staff override from marking a table
	// available while a confirmed or arrived reservation claims it right now.
	ErrTableClaimed = errors.New("table has an active reservation")

	// ErrForbidden is returned when the actor's role does not permit the
	// operation or the resource belongs to someone else.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)
