package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"timekeep.com/timekeep/attendance/model"
	"timekeep.com/timekeep/scheduleapi"
)

// Manager orchestrates session transitions: start, pause/resume, break,
// stop, and the administrative approve/reject. All transitions are
// single-record read-modify-write operations against the store; every
// business rule is checked before anything is written.
type Manager struct {
	store     *Store
	schedules scheduleapi.Provider
	policy    Policy
	events    Publisher
}

func NewManager(db *gorm.DB, schedules scheduleapi.Provider, policy Policy, events Publisher) *Manager {
	return &Manager{
		store:     NewStore(db),
		schedules: schedules,
		policy:    policy,
		events:    events,
	}
}

func (m *Manager) Store() *Store {
	return m.store
}

type StartParams struct {
	EmployeeID uint
	Username   string
	TimeIn     time.Time
	Label      string
}

// Start records a live time-in. The employee must have a schedule, the day
// must be a working day and the time inside the shift window. The lateness
// verdict is frozen here. The store's unique guard makes the check-then-
// create race safe: a concurrent duplicate surfaces as ErrConflict.
func (m *Manager) Start(ctx context.Context, params StartParams) (*model.TimeSession, error) {
	if params.Label == "" {
		params.Label = model.LabelWork
	}
	if !model.ValidLabel(params.Label) {
		return nil, fmt.Errorf("%w: label %q", ErrInvalidStatus, params.Label)
	}

	schedule, err := m.schedules.GetSchedule(ctx, params.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !schedule.IsWorkingDay(params.TimeIn.Weekday()) {
		return nil, ErrNotAWorkingDay
	}

	shiftStart, shiftEnd, err := schedule.ShiftWindow(params.TimeIn)
	if err != nil {
		return nil, fmt.Errorf("invalid shift window: %w", err)
	}
	earliest := shiftStart.Add(-time.Duration(m.policy.GraceMinutes) * time.Minute)
	if params.TimeIn.Before(earliest) || params.TimeIn.After(shiftEnd) {
		return nil, ErrOutsideWindow
	}

	late, lateMinutes := m.policy.CheckLate(params.TimeIn, shiftStart)

	session := &model.TimeSession{
		EmployeeID:          params.EmployeeID,
		EmployeeUsername:    params.Username,
		TimeIn:              params.TimeIn,
		Label:               params.Label,
		EntryType:           model.EntrySystem,
		Status:              model.StatusActive,
		Late:                late,
		LateDurationMinutes: lateMinutes,
	}

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	m.publish(ctx, SessionCreated{Session: *session})
	return session, nil
}

type ManualParams struct {
	EmployeeID uint
	Username   string
	TimeIn     time.Time
	TimeOut    time.Time
	Label      string
	Remarks    string
}

// CreateManual records an after-the-fact entry with explicit times. Manual
// entries skip the schedule and window checks but land directly in pending
// review with their durations computed; an identical window for the same
// employee is still a conflict.
func (m *Manager) CreateManual(ctx context.Context, params ManualParams) (*model.TimeSession, error) {
	if params.Label == "" {
		params.Label = model.LabelOB
	}
	if !model.ValidLabel(params.Label) {
		return nil, fmt.Errorf("%w: label %q", ErrInvalidStatus, params.Label)
	}
	if !params.TimeOut.After(params.TimeIn) {
		return nil, ErrInvalidTime
	}

	duplicate, err := m.store.HasManualDuplicate(ctx, params.EmployeeID, params.TimeIn, params.TimeOut)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, ErrConflict
	}

	workSeconds, err := m.policy.WorkExcludingBreak(params.TimeIn, params.TimeOut, nil, nil)
	if err != nil {
		return nil, err
	}
	_, overtimeSeconds := m.policy.WorkAndOvertime(params.TimeIn, params.TimeOut)
	late, lateMinutes := m.policy.CheckLate(params.TimeIn, m.policy.DefaultScheduledStart(params.TimeIn))

	timeOut := params.TimeOut
	session := &model.TimeSession{
		EmployeeID:          params.EmployeeID,
		EmployeeUsername:    params.Username,
		TimeIn:              params.TimeIn,
		TimeOut:             &timeOut,
		Label:               params.Label,
		EntryType:           model.EntryManual,
		Status:              model.StatusPending,
		WorkDurationSeconds: workSeconds,
		OvertimeSeconds:     overtimeSeconds,
		Late:                late,
		LateDurationMinutes: lateMinutes,
		Remarks:             params.Remarks,
	}

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	m.publish(ctx, SessionCreated{Session: *session})
	return session, nil
}

// Stop closes the employee's active session at stopTime and hands it to
// review. Work time excludes the fixed lunch window, the explicit break
// window, and any break time accumulated through pause/resume; when the
// stop lands at or past the shift end, overtime is computed and the
// configured flat break charge applies on top unless break time was
// already recorded.
func (m *Manager) Stop(ctx context.Context, employeeID uint, stopTime time.Time, remarks string) (*model.TimeSession, error) {
	session, err := m.store.FindActive(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !stopTime.After(session.TimeIn) {
		return nil, ErrInvalidTime
	}

	workSeconds, err := m.policy.WorkExcludingBreak(session.TimeIn, stopTime, session.BreakStart, session.BreakEnd)
	if err != nil {
		return nil, err
	}
	workSeconds = deductPauseBreaks(workSeconds, session)

	var overtimeSeconds int64
	if shiftEnd, ok := m.shiftEnd(ctx, session.EmployeeID, session.TimeIn); ok && !stopTime.Before(shiftEnd) {
		_, overtimeSeconds = m.policy.WorkAndOvertime(session.TimeIn, stopTime)
		if session.BreakDurationSeconds == 0 {
			charge := int64(m.policy.OvertimeBreakCharge() / time.Second)
			workSeconds -= charge
			if workSeconds < 0 {
				workSeconds = 0
			}
			session.BreakDurationSeconds += charge
		}
	}

	previous := session.Status
	session.TimeOut = &stopTime
	session.WorkDurationSeconds = workSeconds
	session.OvertimeSeconds = overtimeSeconds
	session.OnBreak = false
	session.Status = model.StatusPending
	if remarks != "" {
		session.Remarks = remarks
	}

	if err := m.store.Update(ctx, session); err != nil {
		return nil, err
	}

	m.publish(ctx, SessionStatusChanged{Session: *session, PreviousStatus: previous})
	return session, nil
}

// deductPauseBreaks subtracts break time accumulated by pause/resume cycles
// from the computed work total. The explicit break window is already excluded
// by WorkExcludingBreak, so only the portion of BreakDurationSeconds beyond
// that window is deducted here. Whole-minute precision is preserved.
func deductPauseBreaks(workSeconds int64, session *model.TimeSession) int64 {
	paused := session.BreakDurationSeconds
	if session.BreakStart != nil && session.BreakEnd != nil {
		paused -= int64(session.BreakEnd.Sub(*session.BreakStart) / time.Second)
	}
	if paused <= 0 {
		return workSeconds
	}
	workSeconds -= paused
	if workSeconds < 0 {
		return 0
	}
	return workSeconds / 60 * 60
}

// shiftEnd resolves the scheduled shift end for the session's date. The
// schedule source being down is not a reason to fail a stop; the overtime
// charge is simply skipped.
func (m *Manager) shiftEnd(ctx context.Context, employeeID uint, ref time.Time) (time.Time, bool) {
	schedule, err := m.schedules.GetSchedule(ctx, employeeID)
	if err != nil {
		return time.Time{}, false
	}
	_, end, err := schedule.ShiftWindow(ref)
	if err != nil {
		return time.Time{}, false
	}
	return end, true
}

// UpdateBreak records an explicit break interval on a session and
// recomputes the derived durations. Status is untouched.
func (m *Manager) UpdateBreak(ctx context.Context, sessionID uuid.UUID, breakStart, breakEnd time.Time) (*model.TimeSession, error) {
	session, err := m.store.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !breakEnd.After(breakStart) {
		return nil, ErrInvalidBreak
	}
	if breakStart.Before(session.TimeIn) {
		return nil, ErrInvalidBreak
	}
	if session.TimeOut != nil && breakEnd.After(*session.TimeOut) {
		return nil, ErrInvalidBreak
	}

	session.BreakStart = &breakStart
	session.BreakEnd = &breakEnd
	session.BreakDurationSeconds = int64(breakEnd.Sub(breakStart) / time.Second)
	session.OnBreak = session.TimeOut == nil && time.Now().Before(breakEnd)

	if session.TimeOut != nil {
		workSeconds, err := m.policy.WorkExcludingBreak(session.TimeIn, *session.TimeOut, &breakStart, &breakEnd)
		if err != nil {
			return nil, err
		}
		session.WorkDurationSeconds = workSeconds
	}

	if err := m.store.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Pause suspends an active session. The session stays open (it still blocks
// a new time-in) in an explicit paused status; the gap until Resume is
// charged as break time.
func (m *Manager) Pause(ctx context.Context, sessionID uuid.UUID, pauseTime time.Time) (*model.TimeSession, error) {
	session, err := m.store.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TimeOut != nil || session.Status != model.StatusActive {
		return nil, ErrAlreadyClosed
	}
	if pauseTime.Before(session.TimeIn) {
		return nil, ErrInvalidTime
	}

	session.Status = model.StatusPaused
	session.PausedAt = &pauseTime
	session.WorkDurationSeconds = int64(pauseTime.Sub(session.TimeIn)/time.Minute) * 60

	if err := m.store.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Resume reopens a paused session. The paused gap accumulates into the
// break total and the work total is recomputed as elapsed time net of
// accumulated breaks.
func (m *Manager) Resume(ctx context.Context, sessionID uuid.UUID, resumeTime time.Time) (*model.TimeSession, error) {
	session, err := m.store.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.StatusPaused || session.PausedAt == nil {
		return nil, ErrAlreadyClosed
	}
	if resumeTime.Before(session.TimeIn) || resumeTime.Before(*session.PausedAt) {
		return nil, ErrInvalidTime
	}

	session.BreakDurationSeconds += int64(resumeTime.Sub(*session.PausedAt) / time.Second)
	session.PausedAt = nil
	session.Status = model.StatusActive

	worked := int64(resumeTime.Sub(session.TimeIn)/time.Second) - session.BreakDurationSeconds
	if worked < 0 {
		worked = 0
	}
	session.WorkDurationSeconds = worked / 60 * 60

	if err := m.store.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Approve finalizes a pending session. Terminal; approving anything else
// fails without mutating the record.
func (m *Manager) Approve(ctx context.Context, sessionID uuid.UUID, reviewer string) (*model.TimeSession, error) {
	return m.review(ctx, sessionID, model.StatusApproved, reviewer, "")
}

// Reject finalizes a pending session with the reviewer's remarks.
func (m *Manager) Reject(ctx context.Context, sessionID uuid.UUID, reviewer, remarks string) (*model.TimeSession, error) {
	return m.review(ctx, sessionID, model.StatusRejected, reviewer, remarks)
}

// SetStatus is the administrative status endpoint. Only the two review
// transitions exist; anything else is rejected rather than coerced.
func (m *Manager) SetStatus(ctx context.Context, sessionID uuid.UUID, status, reviewer, remarks string) (*model.TimeSession, error) {
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	switch status {
	case model.StatusApproved, model.StatusRejected:
		return m.review(ctx, sessionID, status, reviewer, remarks)
	default:
		return nil, fmt.Errorf("%w: cannot set status to %q directly", ErrInvalidStatus, status)
	}
}

func (m *Manager) review(ctx context.Context, sessionID uuid.UUID, status, reviewer, remarks string) (*model.TimeSession, error) {
	session, err := m.store.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.StatusPending {
		return nil, ErrNotPending
	}

	previous := session.Status
	now := time.Now()
	session.Status = status
	session.ReviewedBy = &reviewer
	session.ReviewedAt = &now
	if remarks != "" {
		session.Remarks = remarks
	}

	if err := m.store.Update(ctx, session); err != nil {
		return nil, err
	}

	m.publish(ctx, SessionStatusChanged{Session: *session, PreviousStatus: previous, Reviewer: reviewer})
	return session, nil
}

// AutoCloseStale force-stops sessions that have been open longer than the
// policy cap. The session closes at the cap with a remark; it still goes
// through pending review like any other stop.
func (m *Manager) AutoCloseStale(ctx context.Context, now time.Time) (int, error) {
	stale, err := m.store.StaleOpen(ctx, now.Add(-m.policy.MaxShiftDuration()))
	if err != nil {
		return 0, err
	}

	closed := 0
	for i := range stale {
		session := &stale[i]
		closeAt := session.TimeIn.Add(m.policy.MaxShiftDuration())

		workSeconds, err := m.policy.WorkExcludingBreak(session.TimeIn, closeAt, session.BreakStart, session.BreakEnd)
		if err != nil {
			// inconsistent break data; close with zero credit rather than skip
			workSeconds = 0
		}
		workSeconds = deductPauseBreaks(workSeconds, session)

		previous := session.Status
		session.TimeOut = &closeAt
		session.PausedAt = nil
		session.OnBreak = false
		session.WorkDurationSeconds = workSeconds
		session.Status = model.StatusPending
		session.Remarks = "auto-closed: session exceeded maximum shift length"

		if err := m.store.Update(ctx, session); err != nil {
			if errors.Is(err, ErrStaleSession) {
				continue // someone beat the sweep to it
			}
			return closed, err
		}
		closed++
		m.publish(ctx, SessionStatusChanged{Session: *session, PreviousStatus: previous})
	}
	return closed, nil
}
