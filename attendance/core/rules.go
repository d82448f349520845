package core

import (
	"time"
)

// Policy holds the attendance constants that are tenant configuration, not
// law. Defaults mirror the standard company handbook: 8 hour day, 15 minute
// lateness grace, 12:00-13:00 lunch, a flat one hour break charged when a
// shift runs into overtime, and a 14 hour cap on a single session.
type Policy struct {
	StandardWorkMinutes        int `yaml:"standardWorkMinutes"`
	GraceMinutes               int `yaml:"graceMinutes"`
	ScheduledStartHour         int `yaml:"scheduledStartHour"`
	ScheduledStartMinute       int `yaml:"scheduledStartMinute"`
	LunchStartHour             int `yaml:"lunchStartHour"`
	LunchEndHour               int `yaml:"lunchEndHour"`
	OvertimeBreakChargeMinutes int `yaml:"overtimeBreakChargeMinutes"`
	MaxShiftHours              int `yaml:"maxShiftHours"`
}

func DefaultPolicy() Policy {
	return Policy{
		StandardWorkMinutes:        480,
		GraceMinutes:               15,
		ScheduledStartHour:         8,
		ScheduledStartMinute:       0,
		LunchStartHour:             12,
		LunchEndHour:               13,
		OvertimeBreakChargeMinutes: 60,
		MaxShiftHours:              14,
	}
}

// WorkAndOvertime turns a work interval into worked and overtime seconds.
// Precision is whole minutes; overtime is the portion beyond the standard
// day and never negative.
func (p Policy) WorkAndOvertime(timeIn, timeOut time.Time) (workSeconds, overtimeSeconds int64) {
	if !timeOut.After(timeIn) {
		return 0, 0
	}
	workMinutes := int64(timeOut.Sub(timeIn) / time.Minute)
	overtimeMinutes := workMinutes - int64(p.StandardWorkMinutes)
	if overtimeMinutes < 0 {
		overtimeMinutes = 0
	}
	return workMinutes * 60, overtimeMinutes * 60
}

// LunchWindow returns the fixed midday window on the calendar date of ref.
func (p Policy) LunchWindow(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), p.LunchStartHour, 0, 0, 0, ref.Location())
	end := time.Date(ref.Year(), ref.Month(), ref.Day(), p.LunchEndHour, 0, 0, 0, ref.Location())
	return start, end
}

// WorkExcludingBreak computes worked seconds over [timeIn, timeOut] with the
// fixed lunch window and any explicit break excluded. The two exclusions are
// overlap aware: a break recorded inside the lunch hour is not subtracted a
// second time. An explicit break that is not fully contained in the work
// interval is rejected.
func (p Policy) WorkExcludingBreak(timeIn, timeOut time.Time, breakStart, breakEnd *time.Time) (int64, error) {
	if !timeOut.After(timeIn) {
		return 0, ErrInvalidTime
	}

	excluded := time.Duration(0)

	lunchStart, lunchEnd := p.LunchWindow(timeIn)
	excluded += overlap(timeIn, timeOut, lunchStart, lunchEnd)

	if breakStart != nil && breakEnd != nil {
		if !breakEnd.After(*breakStart) {
			return 0, ErrInvalidBreak
		}
		if breakStart.Before(timeIn) || breakEnd.After(timeOut) {
			return 0, ErrInvalidBreak
		}
		breakLen := breakEnd.Sub(*breakStart)
		alreadyCounted := overlap(*breakStart, *breakEnd, lunchStart, lunchEnd)
		excluded += breakLen - alreadyCounted
	}

	worked := timeOut.Sub(timeIn) - excluded
	if worked < 0 {
		worked = 0
	}
	return int64(worked/time.Minute) * 60, nil
}

func overlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// CheckLate compares the actual start against the scheduled start on the
// same calendar date. Late only once the grace allowance is used up; the
// reported minutes are those beyond the grace.
func (p Policy) CheckLate(actualStart, scheduledStart time.Time) (bool, int64) {
	deadline := scheduledStart.Add(time.Duration(p.GraceMinutes) * time.Minute)
	if !actualStart.After(deadline) {
		return false, 0
	}
	return true, int64(actualStart.Sub(deadline) / time.Minute)
}

// DefaultScheduledStart is the fallback shift start when an employee has no
// schedule entry for the day (manual entries).
func (p Policy) DefaultScheduledStart(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), p.ScheduledStartHour, p.ScheduledStartMinute, 0, 0, ref.Location())
}

// MaxShiftDuration is the longest a single session may stay open before the
// auto-close sweep force-stops it.
func (p Policy) MaxShiftDuration() time.Duration {
	return time.Duration(p.MaxShiftHours) * time.Hour
}

// OvertimeBreakCharge is the flat break assumed when a stop lands at or past
// the shift end without a recorded break.
func (p Policy) OvertimeBreakCharge() time.Duration {
	return time.Duration(p.OvertimeBreakChargeMinutes) * time.Minute
}
