package calendar

import (
	"fmt"
	"log/slog"
)

// BookingStatus classifies the outcome of a booking attempt. Rejections are
// normal results, not errors, but the reasons stay distinguishable because
// they produce different user-facing guidance.
type BookingStatus string

const (
	// StatusBooked confirms the slot was reserved.
	StatusBooked BookingStatus = "booked"
	// StatusUnavailable means the slot exists but is occupied or too short.
	StatusUnavailable BookingStatus = "unavailable"
	// StatusUnknownDate means the requested date is not in the calendar.
	StatusUnknownDate BookingStatus = "unknown_date"
	// StatusUnknownSlot means the date exists but no slot starts at the
	// requested time.
	StatusUnknownSlot BookingStatus = "unknown_slot"
)

// BookingResult reports a booking attempt to the conversational layer with a
// human-actionable explanation.
type BookingResult struct {
	Status   BookingStatus `json:"status"`
	Date     string        `json:"date"`
	Start    string        `json:"start"`
	Duration string        `json:"duration"`
	Reason   string        `json:"reason,omitempty"`
}

// Booked reports whether the attempt succeeded.
func (r BookingResult) Booked() bool {
	return r.Status == StatusBooked
}

// Book reserves the slot starting at start on date for duration ("HH:MM").
// The availability check and the flag flip happen under one lock, so the
// mutation is atomic: either the slot flips from available to occupied or
// nothing changes. Only *FormatError is returned as an error; every domain
// outcome, including lookup failures, is folded into the result.
func (c *Calendar) Book(date, start, duration string) (BookingResult, error) {
	durationMin, err := ParseDuration(duration)
	if err != nil {
		return BookingResult{}, err
	}

	result := BookingResult{Date: date, Start: start, Duration: duration}

	c.mu.Lock()
	defer c.mu.Unlock()

	available, s, err := c.checkSlot(date, start, durationMin)
	switch {
	case IsDateUnavailable(err):
		result.Status = StatusUnknownDate
		result.Reason = fmt.Sprintf("there is no calendar entry for %s; ask for one of the open dates", date)
		return result, nil
	case IsSlotUnavailable(err):
		result.Status = StatusUnknownSlot
		result.Reason = fmt.Sprintf("no slot starts at %s on %s; booking requires an exact slot start time", start, date)
		return result, nil
	case err != nil:
		return BookingResult{}, err
	}

	if !available {
		result.Status = StatusUnavailable
		if !s.available {
			result.Reason = fmt.Sprintf("the slot at %s on %s is already taken", start, date)
		} else {
			result.Reason = fmt.Sprintf("the slot at %s on %s is only %s long, shorter than the requested %s",
				start, date, FormatClock(s.duration()), duration)
		}
		return result, nil
	}

	s.available = false
	result.Status = StatusBooked
	slog.Info("slot booked",
		"date", date,
		"start", start,
		"duration", duration)
	return result, nil
}
