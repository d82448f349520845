package core

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Employee is the slice of the HR employee record the attendance service
// needs. The full record is owned by the HR platform; this table is a
// read-mostly replica kept in each tenant schema.
type Employee struct {
	EmployeeID uint   `gorm:"primaryKey;autoIncrement"`
	Code       string `gorm:"uniqueIndex"`
	Username   string `gorm:"uniqueIndex;size:100"`
	FirstName  string
	Surname    string
	Email      *string `gorm:"index"`
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
}

func FindEmployeeByID(db *gorm.DB, id uint) (*Employee, error) {
	var emp Employee
	result := db.First(&emp, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &emp, nil
}

// EmployeeEmail resolves the address used for review notifications.
func EmployeeEmail(db *gorm.DB, id uint) (string, error) {
	emp, err := FindEmployeeByID(db, id)
	if err != nil || emp == nil || emp.Email == nil {
		return "", err
	}
	return *emp.Email, nil
}
