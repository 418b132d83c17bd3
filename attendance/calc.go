package attendance

import (
	"fmt"
	"math"

	"attendly.com/attendly/core"
	"attendly.com/attendly/utils"
)

// Config carries the schedule times plus the global fallbacks consulted
// when the employee's actual break scans are incomplete.
type Config struct {
	WorkStart    string
	WorkEnd      string
	LunchStart   *string
	LunchEnd     *string
	GraceMinutes int
	// BreakMinutes applies only when the schedule defines no lunch window
	// and the day has no complete break-out/break-in pair.
	BreakMinutes int
}

// Scans are the recorded event times of one attendance day, in the order
// they fill.
type Scans struct {
	CheckIn  *string
	BreakOut *string
	BreakIn  *string
	CheckOut *string
}

// Metrics are the derived fields of an attendance day.
type Metrics struct {
	TotalHours      float64 `json:"total_hours"`
	LateMinutes     int     `json:"late_minutes"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	Status          string  `json:"status"`
}

// Calculate derives the day's metrics from the recorded scans and the
// employee's schedule. Pure: all clock reads happen upstream. Until a
// check-out exists, only status and late minutes are meaningful; the full
// set is recomputed on every check-out.
func Calculate(s Scans, cfg Config) (Metrics, error) {
	workStart, err := utils.ParseClock(cfg.WorkStart)
	if err != nil {
		return Metrics{}, fmt.Errorf("invalid work start time: %w", err)
	}
	workEnd, err := utils.ParseClock(cfg.WorkEnd)
	if err != nil {
		return Metrics{}, fmt.Errorf("invalid work end time: %w", err)
	}

	scheduledBreak := cfg.BreakMinutes
	if cfg.LunchStart != nil && cfg.LunchEnd != nil {
		ls, err1 := utils.ParseClock(*cfg.LunchStart)
		le, err2 := utils.ParseClock(*cfg.LunchEnd)
		if err1 == nil && err2 == nil {
			scheduledBreak = le - ls
		}
	}

	m := Metrics{Status: core.StatusAbsent}
	if s.CheckIn == nil {
		return m, nil
	}
	checkIn, err := utils.ParseClock(*s.CheckIn)
	if err != nil {
		return Metrics{}, fmt.Errorf("invalid check-in time: %w", err)
	}

	m.Status = core.StatusPresent
	if checkIn > workStart+cfg.GraceMinutes {
		// lateness counts from the scheduled start, not the grace boundary
		m.LateMinutes = checkIn - workStart
		m.Status = core.StatusLate
	}

	if s.CheckOut == nil {
		return m, nil
	}
	checkOut, err := utils.ParseClock(*s.CheckOut)
	if err != nil {
		return Metrics{}, fmt.Errorf("invalid check-out time: %w", err)
	}

	breakTaken := scheduledBreak
	if s.BreakOut != nil && s.BreakIn != nil {
		bo, err1 := utils.ParseClock(*s.BreakOut)
		bi, err2 := utils.ParseClock(*s.BreakIn)
		if err1 == nil && err2 == nil {
			breakTaken = bi - bo
		}
	}

	worked := checkOut - checkIn - breakTaken
	if worked < 0 {
		worked = 0
	}
	m.TotalHours = math.Round(float64(worked)/60*100) / 100
	if checkOut > workEnd {
		m.OvertimeMinutes = checkOut - workEnd
	}
	return m, nil
}
