package calendar

import "log/slog"

// FindSlot returns the slot on date whose start time matches start exactly.
// It fails with *DateUnavailableError when the date is absent and
// *SlotUnavailableError when the date exists but no slot starts at start.
func (c *Calendar) FindSlot(date, start string) (TimeSlot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.lookupSlot(date, start)
	if err != nil {
		return TimeSlot{}, err
	}
	return s.view(), nil
}

// SlotsForDate returns the ordered slot sequence for a date, or
// *DateUnavailableError when the date is absent.
func (c *Calendar) SlotsForDate(date string) ([]TimeSlot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	daySlots, err := c.lookupDate(date)
	if err != nil {
		return nil, err
	}
	views := make([]TimeSlot, len(daySlots))
	for i, s := range daySlots {
		views[i] = s.view()
	}
	return views, nil
}

// IsAvailable reports whether the slot starting at start on date is free and
// long enough for duration ("HH:MM"). It returns false when the slot is
// occupied or too short, and propagates *DateUnavailableError,
// *SlotUnavailableError and *FormatError distinctly so callers can tell
// "wrong date" from "wrong time" from malformed input.
func (c *Calendar) IsAvailable(date, start, duration string) (bool, error) {
	durationMin, err := ParseDuration(duration)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	slog.Debug("checking availability",
		"date", date,
		"start", start,
		"duration", duration)

	available, _, err := c.checkSlot(date, start, durationMin)
	return available, err
}

// checkSlot is the shared check behind IsAvailable and Book. Caller must hold
// c.mu. It returns the slot so Book can flip its flag under the same lock.
func (c *Calendar) checkSlot(date, start string, durationMin int) (bool, *slot, error) {
	s, err := c.lookupSlot(date, start)
	if err != nil {
		return false, nil, err
	}
	if !s.available {
		return false, s, nil
	}
	return s.duration() >= durationMin, s, nil
}
