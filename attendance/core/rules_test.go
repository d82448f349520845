package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestCheckLate(t *testing.T) {
	policy := DefaultPolicy()
	scheduled := date(8, 0)

	tests := []struct {
		name        string
		actual      time.Time
		late        bool
		lateMinutes int64
	}{
		{
			name:   "On time",
			actual: scheduled,
			late:   false,
		},
		{
			name:   "Inside grace (10m)",
			actual: scheduled.Add(10 * time.Minute),
			late:   false,
		},
		{
			name:   "At grace boundary (15m)",
			actual: scheduled.Add(15 * time.Minute),
			late:   false,
		},
		{
			name:        "Just past grace (16m)",
			actual:      scheduled.Add(16 * time.Minute),
			late:        true,
			lateMinutes: 1,
		},
		{
			name:        "Past grace (20m)",
			actual:      scheduled.Add(20 * time.Minute),
			late:        true,
			lateMinutes: 5,
		},
		{
			name:   "Early start",
			actual: scheduled.Add(-10 * time.Minute),
			late:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			late, minutes := policy.CheckLate(tt.actual, scheduled)
			assert.Equal(t, tt.late, late)
			assert.Equal(t, tt.lateMinutes, minutes)
		})
	}
}

func TestWorkAndOvertime(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name     string
		timeIn   time.Time
		timeOut  time.Time
		work     int64
		overtime int64
	}{
		{
			name:    "Standard day",
			timeIn:  date(8, 0),
			timeOut: date(16, 0),
			work:    8 * 3600,
		},
		{
			name:     "Ninety minutes over",
			timeIn:   date(8, 0),
			timeOut:  date(17, 30),
			work:     9*3600 + 1800,
			overtime: 3600 + 1800,
		},
		{
			name:    "Short day has no negative overtime",
			timeIn:  date(8, 0),
			timeOut: date(12, 0),
			work:    4 * 3600,
		},
		{
			name:    "Sub-minute remainder is dropped",
			timeIn:  date(8, 0),
			timeOut: date(16, 0).Add(30 * time.Second),
			work:    8 * 3600,
		},
		{
			name:    "Out before in",
			timeIn:  date(16, 0),
			timeOut: date(8, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work, overtime := policy.WorkAndOvertime(tt.timeIn, tt.timeOut)
			assert.Equal(t, tt.work, work)
			assert.Equal(t, tt.overtime, overtime)
		})
	}
}

func TestWorkExcludingBreak(t *testing.T) {
	policy := DefaultPolicy()

	window := func(startHour, startMin, endHour, endMin int) (*time.Time, *time.Time) {
		start := date(startHour, startMin)
		end := date(endHour, endMin)
		return &start, &end
	}

	tests := []struct {
		name       string
		timeIn     time.Time
		timeOut    time.Time
		breakStart *time.Time
		breakEnd   *time.Time
		work       int64
		err        error
	}{
		{
			name:    "Full day spanning lunch",
			timeIn:  date(8, 0),
			timeOut: date(17, 0),
			work:    8 * 3600,
		},
		{
			name:    "Afternoon only, no lunch overlap",
			timeIn:  date(13, 0),
			timeOut: date(17, 0),
			work:    4 * 3600,
		},
		{
			name:    "Partial lunch overlap",
			timeIn:  date(8, 0),
			timeOut: date(12, 30),
			work:    4 * 3600,
		},
		{
			name:    "Out before in",
			timeIn:  date(17, 0),
			timeOut: date(8, 0),
			err:     ErrInvalidTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work, err := policy.WorkExcludingBreak(tt.timeIn, tt.timeOut, tt.breakStart, tt.breakEnd)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.work, work)
		})
	}

	t.Run("Explicit afternoon break", func(t *testing.T) {
		breakStart, breakEnd := window(15, 0, 15, 30)
		work, err := policy.WorkExcludingBreak(date(8, 0), date(17, 0), breakStart, breakEnd)
		assert.NoError(t, err)
		assert.Equal(t, int64(7*3600+1800), work)
	})

	t.Run("Break inside lunch is not charged twice", func(t *testing.T) {
		breakStart, breakEnd := window(12, 15, 12, 45)
		work, err := policy.WorkExcludingBreak(date(8, 0), date(17, 0), breakStart, breakEnd)
		assert.NoError(t, err)
		assert.Equal(t, int64(8*3600), work)
	})

	t.Run("Break straddling lunch charges only the outside part", func(t *testing.T) {
		breakStart, breakEnd := window(12, 30, 13, 30)
		work, err := policy.WorkExcludingBreak(date(8, 0), date(17, 0), breakStart, breakEnd)
		assert.NoError(t, err)
		assert.Equal(t, int64(7*3600+1800), work)
	})

	t.Run("Break outside the work interval", func(t *testing.T) {
		breakStart, breakEnd := window(17, 30, 18, 0)
		_, err := policy.WorkExcludingBreak(date(8, 0), date(17, 0), breakStart, breakEnd)
		assert.ErrorIs(t, err, ErrInvalidBreak)
	})

	t.Run("Inverted break", func(t *testing.T) {
		breakStart, breakEnd := window(15, 30, 15, 0)
		_, err := policy.WorkExcludingBreak(date(8, 0), date(17, 0), breakStart, breakEnd)
		assert.ErrorIs(t, err, ErrInvalidBreak)
	})
}
