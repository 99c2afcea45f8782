package tokenvest

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios. Every operation fails with
// exactly one of these kinds (possibly wrapped); errors.Is always sees
// through the wrapping.
var (
	// Validation errors
	ErrInvalidBeneficiary = errors.New("tokenvest: invalid beneficiary")
	ErrInvalidAccount     = errors.New("tokenvest: invalid account")
	ErrInvalidAmount      = errors.New("tokenvest: invalid amount")
	ErrInvalidDuration    = errors.New("tokenvest: invalid duration")

	// Schedule errors
	ErrDuplicateSchedule = errors.New("tokenvest: beneficiary already has a schedule")
	ErrNoSchedule        = errors.New("tokenvest: no schedule for beneficiary")
	ErrScheduleRevoked   = errors.New("tokenvest: schedule is revoked")
	ErrAlreadyRevoked    = errors.New("tokenvest: schedule already revoked")
	ErrNothingToRelease  = errors.New("tokenvest: nothing to release")

	// Supply errors
	ErrSupplyCapExceeded   = errors.New("tokenvest: supply cap exceeded")
	ErrInsufficientBalance = errors.New("tokenvest: insufficient balance")

	// Control errors
	ErrSystemPaused  = errors.New("tokenvest: system is paused")
	ErrAlreadyPaused = errors.New("tokenvest: system already paused")
	ErrNotPaused     = errors.New("tokenvest: system is not paused")
	ErrUnauthorized  = errors.New("tokenvest: unauthorized")
	ErrReentrantCall = errors.New("tokenvest: reentrant call")

	// Store errors
	ErrStoreNotReady = errors.New("tokenvest: store not ready")
	ErrStoreClosed   = errors.New("tokenvest: store is closed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("tokenvest: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "tokenvest: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("tokenvest: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// IsNotFound returns true if the error means the beneficiary has no schedule.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoSchedule)
}

// IsValidation returns true if the error is an input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidBeneficiary) ||
		errors.Is(err, ErrInvalidAccount) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidDuration)
}

// IsTerminal returns true if the error reflects permanent schedule state
// that no retry can change.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrScheduleRevoked) ||
		errors.Is(err, ErrAlreadyRevoked) ||
		errors.Is(err, ErrDuplicateSchedule)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrReentrantCall) ||
		errors.Is(err, ErrSystemPaused) ||
		errors.Is(err, ErrStoreNotReady)
}
