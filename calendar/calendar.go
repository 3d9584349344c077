// Package calendar implements the slot-based availability engine behind the
// booking assistant: a per-session calendar of discrete time slots, exact
// single-slot availability checks, the booking mutation, and the multi-slot
// search that combines contiguous slots when no single slot is long enough.
//
// The calendar is the single shared mutable resource of a session. All access
// goes through the methods on Calendar; internal slot state is never handed
// out, so the booking invariant (available flips true->false exactly once)
// cannot be bypassed from outside the package.
package calendar

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DefaultSearchFloorMinutes is the duration threshold below which the
// multi-slot search gives up. Policy constant, overridable per calendar.
const DefaultSearchFloorMinutes = 30

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// TimeSlot is the external view of a slot: a fixed interval on a given date
// with a free/occupied flag. Start and End are "HH:MM" times of day.
type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// Snapshot is the JSON shape a calendar is loaded from and exported to:
// a mapping of "YYYY-MM-DD" date strings to ordered slot lists.
type Snapshot map[string][]TimeSlot

// slot is the internal slot representation. Clock strings are parsed once at
// ingestion so lookups and grouping work on minute offsets.
type slot struct {
	start     string
	end       string
	startMin  int
	endMin    int
	available bool
}

func (s *slot) duration() int {
	return s.endMin - s.startMin
}

func (s *slot) view() TimeSlot {
	return TimeSlot{Start: s.start, End: s.end, Available: s.available}
}

// Calendar holds the slots of one booking session. The whole calendar is the
// unit of mutual exclusion: lookups, grouping and the booking flag flip are
// not safe to interleave, so every operation takes the calendar mutex.
type Calendar struct {
	mu           sync.Mutex
	days         map[string][]*slot
	searchFloor  int
}

// Option configures a Calendar at load time.
type Option func(*Calendar)

// WithSearchFloor overrides the minimum duration threshold (in minutes) for
// the multi-slot search.
func WithSearchFloor(minutes int) Option {
	return func(c *Calendar) {
		if minutes > 0 {
			c.searchFloor = minutes
		}
	}
}

// Load builds a Calendar from a snapshot, validating every slot. Within each
// date the slots must be sorted by start ascending, non-overlapping, and each
// slot must end strictly after it starts. Violations fail the load; the
// grouping logic relies on this ordering rather than re-sorting.
func Load(snapshot Snapshot, opts ...Option) (*Calendar, error) {
	c := &Calendar{
		searchFloor: DefaultSearchFloorMinutes,
	}
	for _, opt := range opts {
		opt(c)
	}

	days, err := parseSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	c.days = days
	return c, nil
}

// Reset discards the calendar's current state and replaces it wholesale with
// a fresh snapshot. On validation failure the calendar keeps its old state.
func (c *Calendar) Reset(snapshot Snapshot) error {
	days, err := parseSnapshot(snapshot)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.days = days
	return nil
}

func parseSnapshot(snapshot Snapshot) (map[string][]*slot, error) {
	days := make(map[string][]*slot, len(snapshot))
	for date, daySlots := range snapshot {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return nil, errors.Wrapf(err, "invalid calendar date %q", date)
		}
		parsed := make([]*slot, 0, len(daySlots))
		for i, raw := range daySlots {
			startMin, err := ParseClock(raw.Start)
			if err != nil {
				return nil, errors.Wrapf(err, "date %s slot %d", date, i)
			}
			endMin, err := ParseClock(raw.End)
			if err != nil {
				return nil, errors.Wrapf(err, "date %s slot %d", date, i)
			}
			if endMin <= startMin {
				return nil, errors.Errorf("date %s slot %d: end %s is not after start %s", date, i, raw.End, raw.Start)
			}
			if i > 0 && startMin < parsed[i-1].endMin {
				return nil, errors.Errorf("date %s slot %d: starts at %s before previous slot ends at %s", date, i, raw.Start, parsed[i-1].end)
			}
			parsed = append(parsed, &slot{
				start:     raw.Start,
				end:       raw.End,
				startMin:  startMin,
				endMin:    endMin,
				available: raw.Available,
			})
		}
		days[date] = parsed
	}
	return days, nil
}

// FromJSON builds a Calendar from a raw JSON snapshot.
func FromJSON(data []byte, opts ...Option) (*Calendar, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Wrap(err, "failed to decode calendar snapshot")
	}
	return Load(snapshot, opts...)
}

// Dates returns the calendar's dates in ascending order.
func (c *Calendar) Dates() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	dates := make([]string, 0, len(c.days))
	for date := range c.days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Export returns a read-only snapshot of the full calendar reflecting live
// availability flags, suitable for rendering.
func (c *Calendar) Export() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make(Snapshot, len(c.days))
	for date, daySlots := range c.days {
		views := make([]TimeSlot, len(daySlots))
		for i, s := range daySlots {
			views[i] = s.view()
		}
		snapshot[date] = views
	}
	return snapshot
}

// lookupDate returns the slot list for a date. Caller must hold c.mu.
func (c *Calendar) lookupDate(date string) ([]*slot, error) {
	daySlots, ok := c.days[date]
	if !ok {
		return nil, &DateUnavailableError{Date: date}
	}
	return daySlots, nil
}

// lookupSlot scans a date's slots for an exact start match. No partial or
// fuzzy matching. Caller must hold c.mu.
func (c *Calendar) lookupSlot(date, start string) (*slot, error) {
	daySlots, err := c.lookupDate(date)
	if err != nil {
		return nil, err
	}
	for _, s := range daySlots {
		if s.start == start {
			return s, nil
		}
	}
	return nil, &SlotUnavailableError{Date: date, Start: start}
}
