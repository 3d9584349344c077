package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailabilityDirect(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	result, err := cal.FindAvailability("2024-01-10", "00:30")
	require.NoError(t, err)
	assert.Equal(t, KindDirect, result.Kind)
	assert.Equal(t, 1, result.SplitCount)
	require.Len(t, result.Slots, 2)
	assert.Equal(t, "09:00", result.Slots[0].Start)
	assert.Equal(t, "09:30", result.Slots[1].Start)
	assert.Empty(t, result.Packs)
}

func TestFindAvailabilitySingleMatchStaysFlat(t *testing.T) {
	cal := mustLoad(t, Snapshot{
		"2024-03-01": {
			{Start: "09:00", End: "10:00", Available: true},
		},
	})

	result, err := cal.FindAvailability("2024-03-01", "01:00")
	require.NoError(t, err)
	assert.Equal(t, KindDirect, result.Kind)
	require.Len(t, result.Slots, 1)
	assert.Empty(t, result.Packs, "one sufficient slot is a flat result, not a pack")
}

// The concrete halving scenario: no 60-minute slot exists, the threshold
// halves to 30 minutes, and the two contiguous half-hour slots are grouped
// into a single pack reaching the original hour.
func TestFindAvailabilityCombinesContiguousSlots(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	result, err := cal.FindAvailability("2024-01-10", "01:00")
	require.NoError(t, err)
	assert.Equal(t, KindCombined, result.Kind)
	assert.Equal(t, 2, result.SplitCount)
	require.Len(t, result.Packs, 1)

	pack := result.Packs[0]
	require.Len(t, pack, 2)
	assert.Equal(t, "09:00", pack[0].Start)
	assert.Equal(t, "09:30", pack[1].Start)

	total := 0
	for _, slot := range pack {
		minutes, err := DurationMinutes(slot)
		require.NoError(t, err)
		total += minutes
	}
	assert.GreaterOrEqual(t, total, 60, "pack must cover the original request")
}

func TestFindAvailabilityUnavailableSlotBreaksContiguity(t *testing.T) {
	cal := mustLoad(t, Snapshot{
		"2024-01-10": {
			{Start: "09:00", End: "09:30", Available: true},
			{Start: "09:30", End: "10:00", Available: false},
			{Start: "10:00", End: "10:30", Available: true},
		},
	})

	// The occupied 09:30 slot splits the day; neither side reaches an hour.
	result, err := cal.FindAvailability("2024-01-10", "01:00")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, result.Kind)
}

func TestFindAvailabilityGapBreaksContiguity(t *testing.T) {
	cal := mustLoad(t, Snapshot{
		"2024-01-10": {
			{Start: "09:00", End: "09:30", Available: true},
			{Start: "11:00", End: "11:30", Available: true},
			{Start: "11:30", End: "12:00", Available: true},
		},
	})

	result, err := cal.FindAvailability("2024-01-10", "01:00")
	require.NoError(t, err)
	assert.Equal(t, KindCombined, result.Kind)
	require.Len(t, result.Packs, 1)
	assert.Equal(t, "11:00", result.Packs[0][0].Start, "the isolated morning slot cannot join the pack")
}

func TestFindAvailabilityIsolatedShortSlotsKeepSplitting(t *testing.T) {
	cal := mustLoad(t, Snapshot{
		"2024-01-10": {
			{Start: "09:00", End: "09:30", Available: true},
			{Start: "12:00", End: "12:30", Available: true},
		},
	})

	// Two isolated half-hour slots can never combine into two hours; the
	// search must keep halving until the floor stops it, not bail early.
	result, err := cal.FindAvailability("2024-01-10", "02:00")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, result.Kind)
}

func TestFindAvailabilityMultiplePacks(t *testing.T) {
	cal := mustLoad(t, Snapshot{
		"2024-01-10": {
			{Start: "09:00", End: "09:30", Available: true},
			{Start: "09:30", End: "10:00", Available: true},
			{Start: "10:00", End: "10:30", Available: false},
			{Start: "14:00", End: "14:30", Available: true},
			{Start: "14:30", End: "15:00", Available: true},
		},
	})

	result, err := cal.FindAvailability("2024-01-10", "01:00")
	require.NoError(t, err)
	assert.Equal(t, KindCombined, result.Kind)
	require.Len(t, result.Packs, 2)
	assert.Equal(t, "09:00", result.Packs[0][0].Start)
	assert.Equal(t, "14:00", result.Packs[1][0].Start)
}

func TestFindAvailabilityLongRunEmitsPackAndContinues(t *testing.T) {
	cal := mustLoad(t, Snapshot{
		"2024-01-10": {
			{Start: "09:00", End: "09:30", Available: true},
			{Start: "09:30", End: "10:00", Available: true},
			{Start: "10:00", End: "10:30", Available: true},
			{Start: "10:30", End: "11:00", Available: true},
		},
	})

	// One run of four half-hour slots yields two hour packs: the run closes
	// as soon as the target is reached and a fresh run starts at the next
	// slot.
	result, err := cal.FindAvailability("2024-01-10", "01:00")
	require.NoError(t, err)
	assert.Equal(t, KindCombined, result.Kind)
	require.Len(t, result.Packs, 2)
	assert.Equal(t, "09:00", result.Packs[0][0].Start)
	assert.Equal(t, "10:00", result.Packs[1][0].Start)
}

func TestFindAvailabilityUnknownDate(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	_, err := cal.FindAvailability("2024-01-11", "01:00")
	require.Error(t, err)
	assert.True(t, IsDateUnavailable(err))
}

func TestFindAvailabilityEmptyDateReportsDateUnavailable(t *testing.T) {
	cal := mustLoad(t, Snapshot{"2024-01-10": {}})

	_, err := cal.FindAvailability("2024-01-10", "01:00")
	require.Error(t, err)
	assert.True(t, IsDateUnavailable(err), "a date with zero slots is unavailable, not merely pack-less")
}

func TestFindAvailabilityIdempotent(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	first, err := cal.FindAvailability("2024-01-10", "01:00")
	require.NoError(t, err)
	second, err := cal.FindAvailability("2024-01-10", "01:00")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFindAvailabilityRespectsBookings(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	result, err := cal.Book("2024-01-10", "09:30", "00:30")
	require.NoError(t, err)
	require.True(t, result.Booked())

	search, err := cal.FindAvailability("2024-01-10", "01:00")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, search.Kind, "the pack partner is taken, no hour remains")
}

func TestFindAvailabilityCustomFloor(t *testing.T) {
	cal := mustLoad(t, Snapshot{
		"2024-01-10": {
			{Start: "09:00", End: "09:15", Available: true},
			{Start: "09:15", End: "09:30", Available: true},
			{Start: "09:30", End: "09:45", Available: true},
			{Start: "09:45", End: "10:00", Available: true},
		},
	}, WithSearchFloor(15))

	// With the default 30-minute floor the quarter-hour slots are out of
	// reach; lowering the floor lets the search degrade far enough.
	result, err := cal.FindAvailability("2024-01-10", "01:00")
	require.NoError(t, err)
	assert.Equal(t, KindCombined, result.Kind)
	assert.Equal(t, 3, result.SplitCount)
	require.Len(t, result.Packs, 1)
	require.Len(t, result.Packs[0], 4)
}

func TestFindAvailabilityFloorStopsSearch(t *testing.T) {
	cal := mustLoad(t, Snapshot{
		"2024-01-10": {
			{Start: "09:00", End: "09:15", Available: true},
			{Start: "09:15", End: "09:30", Available: true},
		},
	})

	result, err := cal.FindAvailability("2024-01-10", "01:00")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, result.Kind)
}
