package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when both rental dates are set and the end
	// is not strictly after the start.
	ErrInvalidRange = errors.New("end date must be after start date")

	// ErrIncompleteBooking is returned when a required booking field is
	// missing; no record is written.
	ErrIncompleteBooking = errors.New("booking is missing required fields")

	// ErrInvalidTransition marks an illegal status or payment-status move.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrVehicleUnavailable is returned when the vehicle is already booked
	// over an overlapping date range.
	ErrVehicleUnavailable = errors.New("vehicle is not available for the requested dates")

	// ErrPaymentDeclined is returned when the payment gateway rejects an
	// immediate-path payment; no booking is written.
	ErrPaymentDeclined = errors.New("payment was declined")

	// ErrNotFound is returned when a vehicle or booking does not exist.
	ErrNotFound = errors.New("not found")
)

// TransitionError carries the rejected move; it unwraps to
// ErrInvalidTransition so callers can match with errors.Is.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// PersistenceError wraps a storage gateway failure with the operation that
// produced it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
