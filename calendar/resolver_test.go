package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSlot(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	slot, err := cal.FindSlot("2024-01-10", "09:30")
	require.NoError(t, err)
	assert.Equal(t, "10:00", slot.End)
	assert.True(t, slot.Available)
}

func TestFindSlotUnknownDate(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	_, err := cal.FindSlot("2024-01-11", "09:00")
	require.Error(t, err)
	assert.True(t, IsDateUnavailable(err))
	assert.False(t, IsSlotUnavailable(err))
}

func TestFindSlotUnknownStart(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	// Exact match only: 09:15 falls inside the 09:00 slot but matches nothing.
	_, err := cal.FindSlot("2024-01-10", "09:15")
	require.Error(t, err)
	assert.True(t, IsSlotUnavailable(err))
	assert.False(t, IsDateUnavailable(err))
}

func TestSlotsForDate(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	slots, err := cal.SlotsForDate("2024-01-10")
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "09:00", slots[0].Start)
	assert.Equal(t, "10:00", slots[2].Start)

	_, err = cal.SlotsForDate("2024-02-01")
	assert.True(t, IsDateUnavailable(err))
}

func TestIsAvailable(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	available, err := cal.IsAvailable("2024-01-10", "09:00", "00:30")
	require.NoError(t, err)
	assert.True(t, available)

	// Occupied slot.
	available, err = cal.IsAvailable("2024-01-10", "10:00", "00:30")
	require.NoError(t, err)
	assert.False(t, available)

	// Free but too short for an hour.
	available, err = cal.IsAvailable("2024-01-10", "09:00", "01:00")
	require.NoError(t, err)
	assert.False(t, available)

	// Long slot fits a shorter request.
	available, err = cal.IsAvailable("2024-01-12", "14:00", "01:00")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestIsAvailableErrorsStayDistinct(t *testing.T) {
	cal := mustLoad(t, testSnapshot())

	_, err := cal.IsAvailable("2024-01-11", "09:00", "00:30")
	assert.True(t, IsDateUnavailable(err))

	_, err = cal.IsAvailable("2024-01-10", "08:00", "00:30")
	assert.True(t, IsSlotUnavailable(err))

	_, err = cal.IsAvailable("2024-01-10", "09:00", "half an hour")
	assert.True(t, IsFormatError(err))
}
