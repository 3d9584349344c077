package calendar

import "log/slog"

// ResultKind tags the shape of a search result. Callers phrase their guidance
// differently for a flat list of independently sufficient slots ("you can
// book at X") versus packs of contiguous slots ("book X then Y back to back"),
// so the two shapes are never conflated.
type ResultKind string

const (
	// KindDirect means each returned slot alone satisfies the requested
	// duration.
	KindDirect ResultKind = "direct"
	// KindCombined means the requested duration is only reachable by booking
	// the slots of one pack back to back.
	KindCombined ResultKind = "combined"
	// KindNotFound means no slot or contiguous combination satisfies the
	// request above the search floor.
	KindNotFound ResultKind = "not_found"
)

// Pack is a run of chronologically contiguous, currently available slots
// whose combined duration meets the requested target.
type Pack []TimeSlot

// SearchResult is the tagged outcome of FindAvailability.
type SearchResult struct {
	Kind ResultKind `json:"kind"`
	// Slots is populated when Kind is KindDirect.
	Slots []TimeSlot `json:"slots,omitempty"`
	// Packs is populated when Kind is KindCombined.
	Packs []Pack `json:"packs,omitempty"`
	// SplitCount is the number of times the requested duration was halved
	// before a result was found. 1 means no splitting was needed.
	SplitCount int `json:"splitCount"`
}

// FindAvailability searches date for ways to fit duration ("HH:MM"). It first
// looks for single slots that are free and individually long enough. When
// none exist it degrades the duration threshold geometrically, halving it on
// each attempt, and groups contiguous available slots into packs whose summed
// duration reaches the original request. The search stops once the next
// threshold would fall below the search floor.
//
// Fails with *DateUnavailableError when date has no slots at all, and with
// *FormatError on a malformed duration.
func (c *Calendar) FindAvailability(date, duration string) (SearchResult, error) {
	requested, err := ParseDuration(duration)
	if err != nil {
		return SearchResult{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	daySlots, err := c.lookupDate(date)
	if err != nil {
		return SearchResult{}, err
	}
	if len(daySlots) == 0 {
		return SearchResult{}, &DateUnavailableError{Date: date}
	}

	threshold := requested
	for splitCount := 1; ; splitCount++ {
		candidates := filterAvailable(daySlots, threshold)
		if len(candidates) > 0 {
			if splitCount == 1 {
				return SearchResult{
					Kind:       KindDirect,
					Slots:      slotViews(candidates),
					SplitCount: splitCount,
				}, nil
			}

			// Each halving doubles the number of slots needed to rebuild the
			// original request, so the grouping target is the threshold
			// scaled back up by 2^(splitCount-1).
			target := threshold << (splitCount - 1)
			packs := groupContiguous(candidates, target)
			if len(packs) > 0 {
				slog.Debug("availability found by combining slots",
					"date", date,
					"duration", duration,
					"splitCount", splitCount,
					"packs", len(packs))
				return SearchResult{
					Kind:       KindCombined,
					Packs:      packs,
					SplitCount: splitCount,
				}, nil
			}
		}

		next := threshold / 2
		if next < c.searchFloor {
			return SearchResult{Kind: KindNotFound, SplitCount: splitCount}, nil
		}
		threshold = next
	}
}

// filterAvailable keeps slots that are free and at least threshold minutes
// long, preserving chronological order.
func filterAvailable(daySlots []*slot, threshold int) []*slot {
	var candidates []*slot
	for _, s := range daySlots {
		if s.available && s.duration() >= threshold {
			candidates = append(candidates, s)
		}
	}
	return candidates
}

// groupContiguous groups candidate slots into maximal runs of chronologically
// contiguous slots (each slot starting exactly where the previous one ends)
// and emits a pack as soon as a run's cumulative duration reaches target.
// A non-contiguous slot abandons the current run and starts a new one;
// non-contiguous slots never share a pack.
func groupContiguous(candidates []*slot, target int) []Pack {
	var packs []Pack
	var run []*slot
	cumulative := 0

	for _, s := range candidates {
		if len(run) > 0 && s.startMin != run[len(run)-1].endMin {
			run = run[:0]
			cumulative = 0
		}
		run = append(run, s)
		cumulative += s.duration()
		if cumulative >= target {
			packs = append(packs, Pack(slotViews(run)))
			run = run[:0]
			cumulative = 0
		}
	}
	return packs
}

func slotViews(slots []*slot) []TimeSlot {
	views := make([]TimeSlot, len(slots))
	for i, s := range slots {
		views[i] = s.view()
	}
	return views
}
