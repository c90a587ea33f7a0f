package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workspace-reservation/internal/model"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"10:00:00", 600, false}, // TIME_FORMAT may include seconds
		{"24:00", 0, true},
		{"9:30", 0, true},
		{"hello", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2026-03-14")
	assert.NoError(t, err)

	for _, bad := range []string{"2026-3-14", "14-03-2026", "2026-13-01", "tomorrow", ""} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestOverlaps(t *testing.T) {
	const (
		nine   = 9 * 60
		ten    = 10 * 60
		eleven = 11 * 60
	)
	cases := []struct {
		name           string
		s1, e1, s2, e2 int
		want           bool
	}{
		{"identical", nine, ten, nine, ten, true},
		{"partial overlap", nine + 30, ten + 30, nine, ten, true},
		{"contained", nine, eleven, nine + 30, ten, true},
		{"abutting end-to-start", ten, eleven, nine, ten, false},
		{"abutting start-to-end", nine, ten, ten, eleven, false},
		{"disjoint", nine, ten, eleven, eleven + 60, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, Overlaps(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}

func TestIsAvailable(t *testing.T) {
	existing := []model.Booking{
		{ID: 1, StartTime: "09:00", EndTime: "10:00", Status: model.BookingActive},
		{ID: 2, StartTime: "13:00", EndTime: "14:00", Status: model.BookingCancelled},
	}

	// A booking starting exactly where another ends is fine.
	assert.True(t, IsAvailable(existing, 10*60, 11*60, 0))
	assert.False(t, IsAvailable(existing, 9*60+30, 10*60+30, 0))

	// Cancelled rows never block.
	assert.True(t, IsAvailable(existing, 13*60, 14*60, 0))

	// A booking does not conflict with its own prior interval.
	assert.False(t, IsAvailable(existing, 9*60, 10*60, 0))
	assert.True(t, IsAvailable(existing, 9*60, 10*60, 1))

	assert.True(t, IsAvailable(nil, 9*60, 10*60, 0))
}

func TestDefaultWindow(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 15, 42, 0, time.UTC)
	date, start, end := DefaultWindow(now)
	assert.Equal(t, "2026-03-14", date)
	assert.Equal(t, "09:15", start)
	assert.Equal(t, "10:15", end)
}
