package model

import (
	"strconv"
	"strings"
	"time"
)

// WorkSchedule holds an employee's working days and shift window. Days are
// stored as a comma separated list of time.Weekday numbers (0 = Sunday) and
// the shift bounds as "15:04" wall-clock strings, the same shape the
// schedule service returns.
type WorkSchedule struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID uint   `gorm:"uniqueIndex;not null" json:"employeeId"`
	Days       string `gorm:"size:30;not null" json:"days"`
	ShiftStart string `gorm:"size:8;not null" json:"shiftStart"`
	ShiftEnd   string `gorm:"size:8;not null" json:"shiftEnd"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (WorkSchedule) TableName() string {
	return "work_schedules"
}

func (ws *WorkSchedule) WorkingDays() map[time.Weekday]bool {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(ws.Days, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days[time.Weekday(n)] = true
	}
	return days
}

func (ws *WorkSchedule) SetWorkingDays(days []time.Weekday) {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	ws.Days = strings.Join(parts, ",")
}
