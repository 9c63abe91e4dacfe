package service

import (
	"errors"
	"fmt"
)

// Error taxonomy for the trip lifecycle core. Handlers classify with
// errors.Is and map to HTTP statuses; anything outside this set is
// surfaced with whatever detail the store provided.
var (
	// ErrValidation covers malformed or out-of-range input. Recoverable by
	// the caller, never retried automatically.
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition rejects a stage advance that does not target the
	// immediate successor of the trip's current stage, or any transition on
	// a terminal trip.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrStageMismatch rejects an operation attempted against the wrong
	// current stage (e.g. a tare capture while the trip is unloading).
	ErrStageMismatch = errors.New("operation not allowed at current stage")

	// ErrConflict is a duplicate resource on create that survived the
	// single re-lookup retry.
	ErrConflict = errors.New("resource already exists")

	// ErrNotFound is a genuine missing resource. In the vehicle-lookup path
	// of registration the store's not-found signal is control flow instead
	// and never surfaces as this.
	ErrNotFound = errors.New("resource not found")

	// ErrVehicleRejected refuses to silently reuse a vehicle an approver
	// has already rejected.
	ErrVehicleRejected = errors.New("vehicle registration was rejected")
)

// ValidationError carries the reason while still matching ErrValidation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validationErr(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Registration legs, used to identify which half of a composite
// registration failed. The surviving leg is never rolled back.
const (
	LegVehicle = "vehicle"
	LegDriver  = "driver"
)

// LegError wraps a failure from one leg of the composite registration.
type LegError struct {
	Leg string
	Err error
}

func (e *LegError) Error() string {
	return fmt.Sprintf("%s leg failed: %v", e.Leg, e.Err)
}

func (e *LegError) Unwrap() error {
	return e.Err
}
