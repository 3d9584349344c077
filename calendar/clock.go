package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock parses a "HH:MM" time-of-day string into minutes from midnight
// (e.g. "09:30" -> 570). It returns a *FormatError on malformed input.
func ParseClock(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, &FormatError{Input: value, Reason: "expected HH:MM"}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &FormatError{Input: value, Reason: "hour is not numeric"}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &FormatError{Input: value, Reason: "minute is not numeric"}
	}
	if hour < 0 || hour > 23 {
		return 0, &FormatError{Input: value, Reason: "hour out of range"}
	}
	if minute < 0 || minute > 59 {
		return 0, &FormatError{Input: value, Reason: "minute out of range"}
	}
	return hour*60 + minute, nil
}

// ParseDuration parses a "HH:MM" duration string into minutes. Durations share
// the clock format but must be strictly positive.
func ParseDuration(value string) (int, error) {
	minutes, err := ParseClock(value)
	if err != nil {
		return 0, err
	}
	if minutes <= 0 {
		return 0, &FormatError{Input: value, Reason: "duration must be positive"}
	}
	return minutes, nil
}

// FormatClock renders minutes from midnight back into "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DurationMinutes returns the duration of a slot in minutes.
func DurationMinutes(slot TimeSlot) (int, error) {
	startMin, err := ParseClock(slot.Start)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseClock(slot.End)
	if err != nil {
		return 0, err
	}
	return endMin - startMin, nil
}
