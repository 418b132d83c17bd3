package core

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type Employee struct {
	ID             int            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	Email          string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password       string         `gorm:"size:100;not null" json:"-"`
	Role           string         `gorm:"size:20;not null;default:employee" json:"role"`
	BranchID       *int           `gorm:"index" json:"branch_id"`
	ScheduleID     *int           `gorm:"index" json:"schedule_id"`
	MonthlySalary  float64        `gorm:"type:decimal(12,2);default:0" json:"monthly_salary"`
	FaceRegistered bool           `gorm:"not null;default:false" json:"face_registered"`
	FaceEmbedding  datatypes.JSON `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`

	Branch   *Branch       `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Schedule *WorkSchedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
}

func (Employee) TableName() string {
	return "employees"
}

// FaceTemplate decodes the stored descriptor vector. Returns nil when the
// employee has never registered a face.
func (e *Employee) FaceTemplate() ([]float64, error) {
	if !e.FaceRegistered || len(e.FaceEmbedding) == 0 {
		return nil, nil
	}
	var vec []float64
	if err := json.Unmarshal(e.FaceEmbedding, &vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// SetFaceTemplate stores the descriptor and flips the registration flag.
// Written only by the explicit registration action, never by a scan.
func (e *Employee) SetFaceTemplate(vec []float64) error {
	raw, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	e.FaceEmbedding = datatypes.JSON(raw)
	e.FaceRegistered = true
	return nil
}

func FindEmployeeByID(db *gorm.DB, id int) (*Employee, error) {
	var emp Employee
	result := db.Preload("Schedule").First(&emp, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &emp, nil
}
