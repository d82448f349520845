package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"timekeep.com/timekeep/attendance/model"
	"timekeep.com/timekeep/utils"
)

// Store is the authoritative record of time sessions. It owns the
// one-open-session-per-employee invariant (unique index on employee_id +
// open) and the optimistic lock on single-record updates. It never
// recomputes derived fields; callers do that before Update.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the attendance tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.TimeSession{}, &model.WorkSchedule{})
}

// Create inserts a session. For open sessions the unique index turns a
// concurrent duplicate into ErrConflict; exactly one of two simultaneous
// starts can win.
func (s *Store) Create(ctx context.Context, session *model.TimeSession) error {
	if session.IsOpen() {
		session.Open = utils.Ptr(int8(1))
	} else {
		session.Open = nil
	}
	err := s.db.WithContext(ctx).Create(session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindActive returns the employee's session with status active.
func (s *Store) FindActive(ctx context.Context, employeeID uint) (*model.TimeSession, error) {
	return s.findOne(ctx, "employee_id = ? AND status = ?", employeeID, model.StatusActive)
}

// FindOpen returns the employee's open (active or paused) session. This is
// the uniqueness check's view: a paused session still blocks a new time-in.
func (s *Store) FindOpen(ctx context.Context, employeeID uint) (*model.TimeSession, error) {
	return s.findOne(ctx, "employee_id = ? AND open = 1", employeeID)
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*model.TimeSession, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *Store) findOne(ctx context.Context, query string, args ...interface{}) (*model.TimeSession, error) {
	var session model.TimeSession
	err := s.db.WithContext(ctx).Where(query, args...).Order("time_in desc").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

// Update writes the full record back, guarded by the lock version read with
// it. A racing writer makes RowsAffected zero; the caller re-fetches and
// retries or surfaces the conflict.
func (s *Store) Update(ctx context.Context, session *model.TimeSession) error {
	previous := session.LockVersion
	session.LockVersion = previous + 1
	if session.IsOpen() {
		session.Open = utils.Ptr(int8(1))
	} else {
		session.Open = nil
	}

	result := s.db.WithContext(ctx).
		Model(&model.TimeSession{}).
		Where("id = ? AND lock_version = ?", session.ID, previous).
		Select("*").
		Omit("id", "created_at").
		Updates(session)
	if result.Error != nil {
		session.LockVersion = previous
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		session.LockVersion = previous
		return ErrStaleSession
	}
	return nil
}

// ByEmployee lists an employee's sessions, newest first.
func (s *Store) ByEmployee(ctx context.Context, employeeID uint, limit int) ([]model.TimeSession, error) {
	return s.list(ctx, limit, "employee_id = ?", employeeID)
}

// ByStatus lists sessions in a given status, newest first.
func (s *Store) ByStatus(ctx context.Context, status string, limit int) ([]model.TimeSession, error) {
	return s.list(ctx, limit, "status = ?", status)
}

// All lists every session, newest first.
func (s *Store) All(ctx context.Context, limit int) ([]model.TimeSession, error) {
	return s.list(ctx, limit)
}

func (s *Store) list(ctx context.Context, limit int, conds ...interface{}) ([]model.TimeSession, error) {
	var sessions []model.TimeSession
	tx := s.db.WithContext(ctx).Order("time_in desc")
	if len(conds) > 0 {
		tx = tx.Where(conds[0], conds[1:]...)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// InRange lists sessions whose time-in falls inside [from, to), newest
// first; status filters when non-empty.
func (s *Store) InRange(ctx context.Context, from, to time.Time, status string) ([]model.TimeSession, error) {
	var sessions []model.TimeSession
	tx := s.db.WithContext(ctx).Where("time_in >= ? AND time_in < ?", from, to).Order("time_in desc")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if err := tx.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions in range: %w", err)
	}
	return sessions, nil
}

// StaleOpen returns open sessions whose time-in is older than cutoff. Used
// by the auto-close sweep.
func (s *Store) StaleOpen(ctx context.Context, cutoff time.Time) ([]model.TimeSession, error) {
	var sessions []model.TimeSession
	err := s.db.WithContext(ctx).
		Where("open = 1 AND time_in < ?", cutoff).
		Order("time_in asc").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list stale sessions: %w", err)
	}
	return sessions, nil
}

// HasManualDuplicate reports whether a manual entry with the identical
// window already exists for the employee.
func (s *Store) HasManualDuplicate(ctx context.Context, employeeID uint, timeIn, timeOut time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.TimeSession{}).
		Where("employee_id = ? AND entry_type = ? AND time_in = ? AND time_out = ?",
			employeeID, model.EntryManual, timeIn, timeOut).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check manual duplicate: %w", err)
	}
	return count > 0, nil
}
