package calendar

import (
	"errors"
	"fmt"
)

// FormatError reports a malformed time or duration string. It always indicates
// a caller bug or malformed upstream input and is never retried.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

// DateUnavailableError reports a date with no entry in the calendar.
type DateUnavailableError struct {
	Date string
}

func (e *DateUnavailableError) Error() string {
	return fmt.Sprintf("date %s is not in the calendar", e.Date)
}

// SlotUnavailableError reports a start time that matches no slot on an
// otherwise known date. Callers branch on this separately from
// DateUnavailableError, so the two must never be collapsed.
type SlotUnavailableError struct {
	Date  string
	Start string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("no time slot starting at %s on %s", e.Start, e.Date)
}

// IsDateUnavailable reports whether err is a DateUnavailableError.
func IsDateUnavailable(err error) bool {
	var target *DateUnavailableError
	return errors.As(err, &target)
}

// IsSlotUnavailable reports whether err is a SlotUnavailableError.
func IsSlotUnavailable(err error) bool {
	var target *SlotUnavailableError
	return errors.As(err, &target)
}

// IsFormatError reports whether err is a FormatError.
func IsFormatError(err error) bool {
	var target *FormatError
	return errors.As(err, &target)
}
