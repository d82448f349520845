package scheduleapi

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"timekeep.com/timekeep/attendance/model"
)

// GormProvider reads schedules from the local work_schedules table. Used by
// deployments that replicate the roster into the attendance schema and by
// the seed tooling.
type GormProvider struct {
	DB *gorm.DB
}

func NewGormProvider(db *gorm.DB) *GormProvider {
	return &GormProvider{DB: db}
}

func (p *GormProvider) GetSchedule(ctx context.Context, employeeID uint) (*Schedule, error) {
	var ws model.WorkSchedule
	err := p.DB.WithContext(ctx).Where("employee_id = ?", employeeID).First(&ws).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Schedule{
		WorkingDays: ws.WorkingDays(),
		ShiftStart:  ws.ShiftStart,
		ShiftEnd:    ws.ShiftEnd,
	}, nil
}
