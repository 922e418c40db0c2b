package booking

import "errors"

// Business-rule rejections surfaced by the engine. Every one of these is
// recoverable by the caller and maps to a distinct user-facing reason;
// infrastructure failures pass through untouched.
var (
	ErrInvalidInterval     = errors.New("end time must be after start time")
	ErrPastBooking         = errors.New("start time is in the past")
	ErrRoomUnavailable     = errors.New("room is not open for booking")
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrConflict            = errors.New("interval overlaps an existing reservation")
	ErrPolicyWindow        = errors.New("not enough advance notice to change this reservation")
	ErrNotOwner            = errors.New("reservation belongs to another client")
	ErrAlreadyTerminal     = errors.New("reservation is already cancelled or completed")
	ErrRangeTooLarge       = errors.New("availability range exceeds the maximum span")
)
