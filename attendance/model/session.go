package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session status values. A session is "open" (blocks a new time-in for the
// same employee) while Active or Paused.
const (
	StatusActive   = "active"
	StatusPaused   = "paused"
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Session labels.
const (
	LabelWork = "Work"
	LabelOB   = "OB"
)

// Entry types. Manual entries are created after the fact with explicit
// times and always start in pending review.
const (
	EntrySystem = "SystemEntry"
	EntryManual = "ManualEntry"
)

type TimeSession struct {
	ID               uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeID       uint      `gorm:"not null;uniqueIndex:idx_employee_open" json:"employeeId"`
	EmployeeUsername string    `gorm:"size:100;not null" json:"employeeUsername"`

	TimeIn   time.Time  `gorm:"not null" json:"timeIn"`
	TimeOut  *time.Time `json:"timeOut,omitempty"`
	PausedAt *time.Time `json:"pausedAt,omitempty"`

	BreakStart           *time.Time `json:"breakStart,omitempty"`
	BreakEnd             *time.Time `json:"breakEnd,omitempty"`
	BreakDurationSeconds int64      `gorm:"not null;default:0" json:"breakDurationSeconds"`
	OnBreak              bool       `gorm:"not null;default:false" json:"isOnBreak"`

	WorkDurationSeconds int64 `gorm:"not null;default:0" json:"workDurationSeconds"`
	OvertimeSeconds     int64 `gorm:"not null;default:0" json:"overtimeSeconds"`

	Late                bool  `gorm:"not null;default:false" json:"isLate"`
	LateDurationMinutes int64 `gorm:"not null;default:0" json:"lateDurationMinutes"`

	Label     string `gorm:"size:20;not null;default:'Work'" json:"label"`
	EntryType string `gorm:"size:20;not null;default:'SystemEntry'" json:"entryType"`
	Status    string `gorm:"size:20;not null;index" json:"status"`
	Remarks   string `gorm:"type:text" json:"remarks"`

	ReviewedBy *string    `gorm:"size:100" json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`

	// Open is 1 while the session is active or paused and NULL otherwise.
	// The composite unique index is what makes check-then-create atomic:
	// MySQL (and sqlite) do not collide NULLs, so closed sessions never
	// conflict while a second open row for the same employee does.
	Open *int8 `gorm:"uniqueIndex:idx_employee_open" json:"-"`

	// LockVersion guards read-modify-write updates; see Store.Update.
	LockVersion int64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (TimeSession) TableName() string {
	return "time_sessions"
}

func (s *TimeSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsOpen reports whether the session still blocks a new time-in.
func (s *TimeSession) IsOpen() bool {
	return s.Status == StatusActive || s.Status == StatusPaused
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusPaused, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func ValidLabel(label string) bool {
	return label == LabelWork || label == LabelOB
}
