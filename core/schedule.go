package core

import "time"

// WorkSchedule holds time-of-day values only; employees reference a
// schedule, they never copy one.
type WorkSchedule struct {
	ID             int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	WorkStartTime  string    `gorm:"type:time;not null" json:"work_start_time"`
	WorkEndTime    string    `gorm:"type:time;not null" json:"work_end_time"`
	LunchStartTime *string   `gorm:"type:time" json:"lunch_start_time"`
	LunchEndTime   *string   `gorm:"type:time" json:"lunch_end_time"`
	CreatedAt      time.Time `json:"created_at"`
}

func (WorkSchedule) TableName() string {
	return "work_schedules"
}
