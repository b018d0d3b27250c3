package booking

import (
	"errors"
	"strings"
)

var (
	// ErrNotCollecting is returned for edits or submits while a confirmation is shown
	ErrNotCollecting = errors.New("booking: form is showing a confirmation")

	// ErrUnknownServiceType is returned when the service type id is not in the catalog
	ErrUnknownServiceType = errors.New("booking: unknown service type")

	// ErrUnknownSlot is returned when the slot is not one of the fixed time slots
	ErrUnknownSlot = errors.New("booking: unknown time slot")

	// ErrInvalidDate is returned when a date is not formatted as YYYY-MM-DD
	ErrInvalidDate = errors.New("booking: invalid date")

	// ErrDateInPast is returned for dates before the current day
	ErrDateInPast = errors.New("booking: date is in the past")
)

// ValidationError lists the required fields missing at submit time.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "booking: missing required fields: " + strings.Join(e.Missing, ", ")
}
