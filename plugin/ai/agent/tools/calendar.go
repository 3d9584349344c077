// Package tools provides the calendar and policy tools exposed to the
// booking agent.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hrygo/bookingsense/calendar"
)

// slotRequest is the shared input shape of the slot-addressed tools.
type slotRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Duration  string `json:"duration"`
}

func slotRequestSchema(withStart bool) map[string]interface{} {
	properties := map[string]interface{}{
		"date": map[string]interface{}{
			"type":        "string",
			"description": "The date in format YYYY-MM-DD (e.g., 2024-01-10)",
		},
		"duration": map[string]interface{}{
			"type":        "string",
			"description": "The appointment duration in format HH:MM (e.g., 01:00 for one hour)",
		},
	}
	required := []string{"date", "duration"}
	if withStart {
		properties["start_time"] = map[string]interface{}{
			"type":        "string",
			"description": "The slot start time in format HH:MM (e.g., 09:30)",
		}
		required = append(required, "start_time")
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func decodeSlotRequest(inputJSON string, withStart bool) (slotRequest, error) {
	var input slotRequest
	if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
		return input, fmt.Errorf("invalid JSON input: %w", err)
	}
	if input.Date == "" {
		return input, fmt.Errorf("date is required")
	}
	if input.Duration == "" {
		return input, fmt.Errorf("duration is required")
	}
	if withStart && input.StartTime == "" {
		return input, fmt.Errorf("start_time is required")
	}
	return input, nil
}

// guidance renders a calendar lookup failure as LLM-readable guidance while
// keeping the "wrong date" / "wrong time" distinction intact.
func guidance(cal *calendar.Calendar, err error) string {
	switch {
	case calendar.IsDateUnavailable(err):
		return fmt.Sprintf("%s. Open dates are: %s.", err.Error(), strings.Join(cal.Dates(), ", "))
	case calendar.IsSlotUnavailable(err):
		return fmt.Sprintf("%s. Use get_day_schedule to list the exact slot start times for that date.", err.Error())
	default:
		return err.Error()
	}
}

// TodayTool reports today's date so the agent can resolve relative requests.
type TodayTool struct {
	now func() time.Time
}

// NewTodayTool creates a new today tool.
func NewTodayTool() *TodayTool {
	return &TodayTool{now: time.Now}
}

func (t *TodayTool) Name() string {
	return "get_today_date"
}

func (t *TodayTool) Description() string {
	return `Get today's date as "Weekday YYYY-MM-DD".`
}

func (t *TodayTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *TodayTool) Run(ctx context.Context, inputJSON string) (string, error) {
	slog.Debug("retrieving today's date")
	now := t.now()
	return fmt.Sprintf("%s %s", now.Weekday(), now.Format(calendar.DateLayout)), nil
}

// AvailabilityTool checks whether one exact slot fits an appointment.
type AvailabilityTool struct {
	cal *calendar.Calendar
}

// NewAvailabilityTool creates a new availability tool.
func NewAvailabilityTool(cal *calendar.Calendar) *AvailabilityTool {
	return &AvailabilityTool{cal: cal}
}

func (t *AvailabilityTool) Name() string {
	return "check_availability"
}

func (t *AvailabilityTool) Description() string {
	return `Check whether the time slot starting at start_time on date is free and long enough for duration.
The start time must match a slot's start exactly. Returns whether the appointment fits.`
}

func (t *AvailabilityTool) Parameters() map[string]interface{} {
	return slotRequestSchema(true)
}

func (t *AvailabilityTool) Run(ctx context.Context, inputJSON string) (string, error) {
	input, err := decodeSlotRequest(inputJSON, true)
	if err != nil {
		return "", err
	}

	available, err := t.cal.IsAvailable(input.Date, input.StartTime, input.Duration)
	switch {
	case calendar.IsFormatError(err):
		return "", err
	case err != nil:
		return guidance(t.cal, err), nil
	case available:
		return fmt.Sprintf("The %s slot at %s on %s is available.", input.Duration, input.StartTime, input.Date), nil
	default:
		return fmt.Sprintf("The slot at %s on %s is not available for %s: it is either already taken or too short. Use find_slot_combinations to look for alternatives.",
			input.StartTime, input.Date, input.Duration), nil
	}
}

// BookTool books an appointment at an exact slot.
type BookTool struct {
	cal *calendar.Calendar
}

// NewBookTool creates a new booking tool.
func NewBookTool(cal *calendar.Calendar) *BookTool {
	return &BookTool{cal: cal}
}

func (t *BookTool) Name() string {
	return "book_appointment"
}

func (t *BookTool) Description() string {
	return `Book an appointment at the slot starting at start_time on date for duration.
Only call this after the user has confirmed the slot. Reports either a confirmation or the reason the booking was rejected.`
}

func (t *BookTool) Parameters() map[string]interface{} {
	return slotRequestSchema(true)
}

func (t *BookTool) Run(ctx context.Context, inputJSON string) (string, error) {
	input, err := decodeSlotRequest(inputJSON, true)
	if err != nil {
		return "", err
	}

	result, err := t.cal.Book(input.Date, input.StartTime, input.Duration)
	if err != nil {
		return "", err
	}
	if !result.Booked() {
		return fmt.Sprintf("Booking rejected: %s", result.Reason), nil
	}
	return fmt.Sprintf("Booked: %s at %s for %s.", input.Date, input.StartTime, input.Duration), nil
}

// SearchTool runs the multi-slot availability search.
type SearchTool struct {
	cal *calendar.Calendar
}

// NewSearchTool creates a new slot-combination search tool.
func NewSearchTool(cal *calendar.Calendar) *SearchTool {
	return &SearchTool{cal: cal}
}

func (t *SearchTool) Name() string {
	return "find_slot_combinations"
}

func (t *SearchTool) Description() string {
	return `Find ways to fit an appointment of duration on date. Returns either single slots that fit the
whole duration, or combinations of back-to-back shorter slots that add up to it when no single slot is long enough.`
}

func (t *SearchTool) Parameters() map[string]interface{} {
	return slotRequestSchema(false)
}

func (t *SearchTool) Run(ctx context.Context, inputJSON string) (string, error) {
	input, err := decodeSlotRequest(inputJSON, false)
	if err != nil {
		return "", err
	}

	result, err := t.cal.FindAvailability(input.Date, input.Duration)
	switch {
	case calendar.IsFormatError(err):
		return "", err
	case err != nil:
		return guidance(t.cal, err), nil
	}

	var sb strings.Builder
	switch result.Kind {
	case calendar.KindDirect:
		fmt.Fprintf(&sb, "Found %d slot(s) on %s that fit %s on their own:\n", len(result.Slots), input.Date, input.Duration)
		for _, slot := range result.Slots {
			fmt.Fprintf(&sb, "- %s to %s\n", slot.Start, slot.End)
		}
		sb.WriteString("The user can book any one of these directly.")
	case calendar.KindCombined:
		fmt.Fprintf(&sb, "No single slot fits %s on %s, but booking these back-to-back slots together covers it:\n", input.Duration, input.Date)
		for i, pack := range result.Packs {
			fmt.Fprintf(&sb, "Option %d:", i+1)
			for _, slot := range pack {
				fmt.Fprintf(&sb, " [%s to %s]", slot.Start, slot.End)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("Each slot of an option must be booked individually with book_appointment.")
	default:
		fmt.Fprintf(&sb, "No availability found on %s for %s, not even by combining shorter slots.", input.Date, input.Duration)
	}
	return sb.String(), nil
}

// ScheduleTool lists the full slot schedule of one date.
type ScheduleTool struct {
	cal *calendar.Calendar
}

// NewScheduleTool creates a new day-schedule tool.
func NewScheduleTool(cal *calendar.Calendar) *ScheduleTool {
	return &ScheduleTool{cal: cal}
}

func (t *ScheduleTool) Name() string {
	return "get_day_schedule"
}

func (t *ScheduleTool) Description() string {
	return `List every time slot on date with its availability, in chronological order.`
}

func (t *ScheduleTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"date": map[string]interface{}{
				"type":        "string",
				"description": "The date in format YYYY-MM-DD",
			},
		},
		"required": []string{"date"},
	}
}

func (t *ScheduleTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
		return "", fmt.Errorf("invalid JSON input: %w", err)
	}
	if input.Date == "" {
		return "", fmt.Errorf("date is required")
	}

	slots, err := t.cal.SlotsForDate(input.Date)
	if err != nil {
		return guidance(t.cal, err), nil
	}
	if len(slots) == 0 {
		return fmt.Sprintf("There are no slots on %s.", input.Date), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Schedule for %s:\n", input.Date)
	for _, slot := range slots {
		state := "free"
		if !slot.Available {
			state = "taken"
		}
		fmt.Fprintf(&sb, "- %s to %s (%s)\n", slot.Start, slot.End, state)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
