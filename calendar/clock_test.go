package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"9:30", 570, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"0930", 0, true},
		{"ab:cd", 0, true},
		{"09:30:00", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			assert.True(t, IsFormatError(err), "input %q should yield a FormatError", tt.input)
		} else {
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	}
}

func TestParseDurationRejectsZero(t *testing.T) {
	_, err := ParseDuration("00:00")
	require.Error(t, err)
	assert.True(t, IsFormatError(err))

	minutes, err := ParseDuration("01:30")
	require.NoError(t, err)
	assert.Equal(t, 90, minutes)
}

func TestFormatClockRoundTrip(t *testing.T) {
	for _, value := range []string{"00:00", "09:05", "12:30", "23:59"} {
		minutes, err := ParseClock(value)
		require.NoError(t, err)
		assert.Equal(t, value, FormatClock(minutes))
	}
}

func TestDurationMinutes(t *testing.T) {
	minutes, err := DurationMinutes(TimeSlot{Start: "09:00", End: "10:30"})
	require.NoError(t, err)
	assert.Equal(t, 90, minutes)

	_, err = DurationMinutes(TimeSlot{Start: "9am", End: "10:30"})
	assert.Error(t, err)
}
