package attendance

import (
	"errors"
	"net/http"
	"testing"

	"attendly.com/attendly/core"
	"attendly.com/attendly/utils"
	"github.com/stretchr/testify/assert"
)

func TestNextFieldFillsLeftToRight(t *testing.T) {
	rec := &core.Attendance{}

	var got []string
	for i := 0; i < 4; i++ {
		field, ok := NextField(rec)
		assert.True(t, ok)
		got = append(got, field)

		stamp := utils.Ptr("09:00:00")
		switch field {
		case "check_in":
			rec.CheckIn = stamp
		case "break_out":
			rec.BreakOut = stamp
		case "break_in":
			rec.BreakIn = stamp
		case "check_out":
			rec.CheckOut = stamp
		}
	}

	assert.Equal(t, []string{"check_in", "break_out", "break_in", "check_out"}, got)

	// fifth scan of the day: terminal
	_, ok := NextField(rec)
	assert.False(t, ok)
}

func TestNextFieldNilRecordStartsTheDay(t *testing.T) {
	field, ok := NextField(nil)
	assert.True(t, ok)
	assert.Equal(t, "check_in", field)
}

func TestValidatePreconditions(t *testing.T) {
	schedule := &core.WorkSchedule{ID: 2, WorkStartTime: "09:00:00", WorkEndTime: "18:00:00"}

	tests := []struct {
		name       string
		emp        *core.Employee
		branchID   int
		wantStatus int
		wantInMsg  string
	}{
		{
			name:     "assigned and scheduled",
			emp:      &core.Employee{ID: 7, BranchID: utils.Ptr(3), ScheduleID: utils.Ptr(2), Schedule: schedule},
			branchID: 3,
		},
		{
			name:       "no branch assignment",
			emp:        &core.Employee{ID: 7, ScheduleID: utils.Ptr(2), Schedule: schedule},
			branchID:   3,
			wantStatus: http.StatusForbidden,
			wantInMsg:  "not assigned to this branch",
		},
		{
			name:       "wrong branch",
			emp:        &core.Employee{ID: 7, BranchID: utils.Ptr(4), ScheduleID: utils.Ptr(2), Schedule: schedule},
			branchID:   3,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no schedule",
			emp:        &core.Employee{ID: 7, BranchID: utils.Ptr(3)},
			branchID:   3,
			wantStatus: http.StatusBadRequest,
			wantInMsg:  "No work schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePreconditions(tt.emp, tt.branchID)
			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}
			var rej *core.Rejection
			assert.True(t, errors.As(err, &rej))
			assert.Equal(t, tt.wantStatus, rej.Status)
			if tt.wantInMsg != "" {
				assert.Contains(t, rej.Message, tt.wantInMsg)
			}
		})
	}
}

func TestConfigFor(t *testing.T) {
	schedule := &core.WorkSchedule{
		WorkStartTime:  "08:30:00",
		WorkEndTime:    "17:30:00",
		LunchStartTime: utils.Ptr("12:00:00"),
		LunchEndTime:   utils.Ptr("12:45:00"),
	}

	t.Run("globals override the built-in fallbacks", func(t *testing.T) {
		cfg := ConfigFor(schedule, map[string]string{"grace_period": "10", "break_duration": "30"})
		assert.Equal(t, "08:30:00", cfg.WorkStart)
		assert.Equal(t, "17:30:00", cfg.WorkEnd)
		assert.Equal(t, 10, cfg.GraceMinutes)
		assert.Equal(t, 30, cfg.BreakMinutes)
	})

	t.Run("missing or bad globals keep defaults", func(t *testing.T) {
		cfg := ConfigFor(schedule, map[string]string{"grace_period": "soon"})
		assert.Equal(t, 15, cfg.GraceMinutes)
		assert.Equal(t, 60, cfg.BreakMinutes)
	})
}
