// Package scheduleapi resolves an employee's working days and shift window.
// The schedule master lives in the rostering system; this package exposes the
// read-only contract the attendance core consumes, with an HTTP client for
// the hosted service and a database-backed provider for deployments that
// replicate schedules locally.
package scheduleapi

import (
	"context"
	"errors"
	"time"

	"timekeep.com/timekeep/utils"
)

var (
	// ErrNotFound means the employee has no schedule on record.
	ErrNotFound = errors.New("schedule not found")
	// ErrUnavailable means the schedule source could not be reached in
	// time. Callers may retry; live time-in must not proceed without a
	// schedule.
	ErrUnavailable = errors.New("schedule service unavailable")
)

type Schedule struct {
	WorkingDays map[time.Weekday]bool
	ShiftStart  string // "15:04"
	ShiftEnd    string // "15:04"
}

func (s *Schedule) IsWorkingDay(d time.Weekday) bool {
	return s.WorkingDays[d]
}

// ShiftWindow anchors the shift bounds on the calendar date of ref.
// An end at or before the start is treated as crossing midnight.
func (s *Schedule) ShiftWindow(ref time.Time) (time.Time, time.Time, error) {
	base := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	start, err := utils.ParseTimeOnDate(base, s.ShiftStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.ParseTimeOnDate(base, s.ShiftEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

type Provider interface {
	GetSchedule(ctx context.Context, employeeID uint) (*Schedule, error)
}
