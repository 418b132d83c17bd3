package core

import "time"

const (
	StatusAbsent  = "absent"
	StatusPresent = "present"
	StatusLate    = "late"
)

// Attendance is the single per-(employee, date) daily record. The four scan
// columns fill strictly left to right; the unique index makes the first
// scan of the day race-safe.
type Attendance struct {
	ID              int       `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID      int       `gorm:"uniqueIndex:idx_employee_date;not null" json:"employee_id"`
	BranchID        int       `gorm:"index;not null" json:"branch_id"`
	Date            string    `gorm:"type:date;uniqueIndex:idx_employee_date;not null" json:"date"`
	CheckIn         *string   `gorm:"type:time" json:"check_in"`
	BreakOut        *string   `gorm:"type:time" json:"break_out"`
	BreakIn         *string   `gorm:"type:time" json:"break_in"`
	CheckOut        *string   `gorm:"type:time" json:"check_out"`
	TotalHours      float64   `gorm:"type:decimal(5,2);default:0" json:"total_hours"`
	LateMinutes     int       `gorm:"default:0" json:"late_minutes"`
	OvertimeMinutes int       `gorm:"default:0" json:"overtime_minutes"`
	Status          string    `gorm:"size:10;not null;default:absent" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Attendance) TableName() string {
	return "attendance"
}
