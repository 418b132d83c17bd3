package attendance

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"attendly.com/attendly/core"
	"attendly.com/attendly/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScanFields is the fixed slot order of one attendance day. A later slot is
// never written while an earlier one is empty.
var ScanFields = [4]string{"check_in", "break_out", "break_in", "check_out"}

// NextField returns the first empty slot of rec, or false when the day is
// complete. A nil record means the day has not started.
func NextField(rec *core.Attendance) (string, bool) {
	if rec == nil {
		return ScanFields[0], true
	}
	slots := [4]*string{rec.CheckIn, rec.BreakOut, rec.BreakIn, rec.CheckOut}
	for i, v := range slots {
		if v == nil {
			return ScanFields[i], true
		}
	}
	return "", false
}

// Result describes which slot a verified scan landed in. Metrics is set on
// check-in (status + lateness) and on check-out (the full set).
type Result struct {
	Field   string   `json:"scan"`
	Time    string   `json:"time"`
	Metrics *Metrics `json:"metrics,omitempty"`
}

// Recorder applies verified scans to the per-day attendance record.
type Recorder struct {
	DB *gorm.DB
}

// ValidatePreconditions enforces the business rules that gate the state
// machine: the scanning employee must belong to the scanned branch and must
// carry a schedule. Runs after the security pipeline has already passed.
func ValidatePreconditions(emp *core.Employee, branchID int) error {
	if emp.BranchID == nil || *emp.BranchID != branchID {
		return core.Reject(http.StatusForbidden, "You are not assigned to this branch")
	}
	if emp.ScheduleID == nil || emp.Schedule == nil {
		return core.Reject(http.StatusBadRequest, "No work schedule assigned to your account. Contact admin.")
	}
	return nil
}

// ConfigFor merges the employee's schedule with the global grace/break
// settings rows.
func ConfigFor(schedule *core.WorkSchedule, globals map[string]string) Config {
	cfg := Config{
		WorkStart:    schedule.WorkStartTime,
		WorkEnd:      schedule.WorkEndTime,
		LunchStart:   schedule.LunchStartTime,
		LunchEnd:     schedule.LunchEndTime,
		GraceMinutes: 15,
		BreakMinutes: 60,
	}
	if v, err := strconv.Atoi(globals["grace_period"]); err == nil {
		cfg.GraceMinutes = v
	}
	if v, err := strconv.Atoi(globals["break_duration"]); err == nil {
		cfg.BreakMinutes = v
	}
	return cfg
}

// Record advances the employee's current-day record by exactly one slot,
// stamping it with the server's clock. The read-modify-write runs inside a
// transaction holding a row lock, and the (employee_id, date) unique index
// backstops two concurrent first scans of the day.
func (r *Recorder) Record(ctx context.Context, emp *core.Employee, branchID int, now time.Time, globals map[string]string) (*Result, error) {
	if err := ValidatePreconditions(emp, branchID); err != nil {
		return nil, err
	}
	cfg := ConfigFor(emp.Schedule, globals)
	date := utils.FormatDate(now)
	timeNow := utils.FormatClock(now)

	var res *Result
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec core.Attendance
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("employee_id = ? AND date = ?", emp.ID, date).
			First(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return r.createDay(tx, emp, branchID, date, timeNow, cfg, &res)
		case err != nil:
			return err
		}
		return r.advanceDay(tx, &rec, timeNow, cfg, &res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Recorder) createDay(tx *gorm.DB, emp *core.Employee, branchID int, date, timeNow string, cfg Config, res **Result) error {
	m, err := Calculate(Scans{CheckIn: &timeNow}, cfg)
	if err != nil {
		return err
	}
	rec := core.Attendance{
		EmployeeID:  emp.ID,
		BranchID:    branchID,
		Date:        date,
		CheckIn:     &timeNow,
		LateMinutes: m.LateMinutes,
		Status:      m.Status,
	}
	if err := tx.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race for the first scan of the day
			return core.Reject(http.StatusConflict, "Scan already in progress, please try again")
		}
		return err
	}
	*res = &Result{Field: ScanFields[0], Time: timeNow, Metrics: &m}
	return nil
}

func (r *Recorder) advanceDay(tx *gorm.DB, rec *core.Attendance, timeNow string, cfg Config, res **Result) error {
	field, ok := NextField(rec)
	if !ok {
		return core.Reject(http.StatusBadRequest, "All 4 scans for today are already recorded")
	}

	updates := map[string]interface{}{field: timeNow}
	var metrics *Metrics
	if field == ScanFields[3] {
		m, err := Calculate(Scans{
			CheckIn:  rec.CheckIn,
			BreakOut: rec.BreakOut,
			BreakIn:  rec.BreakIn,
			CheckOut: &timeNow,
		}, cfg)
		if err != nil {
			return err
		}
		metrics = &m
		updates["total_hours"] = m.TotalHours
		updates["late_minutes"] = m.LateMinutes
		updates["overtime_minutes"] = m.OvertimeMinutes
		updates["status"] = m.Status
	}

	if err := tx.Model(&core.Attendance{}).Where("id = ?", rec.ID).Updates(updates).Error; err != nil {
		return err
	}
	*res = &Result{Field: field, Time: timeNow, Metrics: metrics}
	return nil
}
