package attendance

import (
	"testing"

	"attendly.com/attendly/core"
	"attendly.com/attendly/utils"
	"github.com/stretchr/testify/assert"
)

func officeConfig() Config {
	return Config{
		WorkStart:    "09:00:00",
		WorkEnd:      "18:00:00",
		LunchStart:   utils.Ptr("12:00:00"),
		LunchEnd:     utils.Ptr("13:00:00"),
		GraceMinutes: 15,
		BreakMinutes: 60,
	}
}

func TestCalculateNoScansIsAbsent(t *testing.T) {
	m, err := Calculate(Scans{}, officeConfig())
	assert.NoError(t, err)
	assert.Equal(t, core.StatusAbsent, m.Status)
	assert.Zero(t, m.TotalHours)
	assert.Zero(t, m.LateMinutes)
	assert.Zero(t, m.OvertimeMinutes)
}

func TestCalculateCheckInOnly(t *testing.T) {
	tests := []struct {
		name       string
		checkIn    string
		wantStatus string
		wantLate   int
	}{
		{name: "on time", checkIn: "08:58:00", wantStatus: core.StatusPresent},
		{name: "inside grace", checkIn: "09:14:59", wantStatus: core.StatusPresent},
		{name: "exactly at grace boundary", checkIn: "09:15:00", wantStatus: core.StatusPresent},
		{name: "one past grace counts from schedule start", checkIn: "09:16:00", wantStatus: core.StatusLate, wantLate: 16},
		{name: "twenty minutes late", checkIn: "09:20:00", wantStatus: core.StatusLate, wantLate: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Calculate(Scans{CheckIn: &tt.checkIn}, officeConfig())
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, m.Status)
			assert.Equal(t, tt.wantLate, m.LateMinutes)
			assert.Zero(t, m.TotalHours, "total hours wait for check-out")
			assert.Zero(t, m.OvertimeMinutes)
		})
	}
}

func TestCalculateFullDayWithActualBreak(t *testing.T) {
	// 09:20 → 18:30 with an actual 65-minute break:
	// (550 − 65) / 60 = 8.0833… → 8.08, overtime 30
	m, err := Calculate(Scans{
		CheckIn:  utils.Ptr("09:20:00"),
		BreakOut: utils.Ptr("12:05:00"),
		BreakIn:  utils.Ptr("13:10:00"),
		CheckOut: utils.Ptr("18:30:00"),
	}, officeConfig())

	assert.NoError(t, err)
	assert.Equal(t, core.StatusLate, m.Status)
	assert.Equal(t, 20, m.LateMinutes)
	assert.Equal(t, 8.08, m.TotalHours)
	assert.Equal(t, 30, m.OvertimeMinutes)
}

func TestCalculateBreakFallbacks(t *testing.T) {
	t.Run("lunch window covers missing break scans", func(t *testing.T) {
		m, err := Calculate(Scans{
			CheckIn:  utils.Ptr("09:00:00"),
			CheckOut: utils.Ptr("18:00:00"),
		}, officeConfig())
		assert.NoError(t, err)
		assert.Equal(t, 8.0, m.TotalHours) // 540 − 60 lunch minutes
	})

	t.Run("global default when schedule has no lunch", func(t *testing.T) {
		cfg := officeConfig()
		cfg.LunchStart, cfg.LunchEnd = nil, nil
		cfg.BreakMinutes = 45
		m, err := Calculate(Scans{
			CheckIn:  utils.Ptr("09:00:00"),
			CheckOut: utils.Ptr("18:00:00"),
		}, cfg)
		assert.NoError(t, err)
		assert.Equal(t, 8.25, m.TotalHours) // 540 − 45
	})

	t.Run("incomplete break pair falls back to the lunch window", func(t *testing.T) {
		m, err := Calculate(Scans{
			CheckIn:  utils.Ptr("09:00:00"),
			BreakOut: utils.Ptr("12:00:00"),
			CheckOut: utils.Ptr("18:00:00"),
		}, officeConfig())
		assert.NoError(t, err)
		assert.Equal(t, 8.0, m.TotalHours)
	})
}

func TestCalculateTotalHoursNeverNegative(t *testing.T) {
	m, err := Calculate(Scans{
		CheckIn:  utils.Ptr("09:00:00"),
		CheckOut: utils.Ptr("09:30:00"),
	}, officeConfig())
	assert.NoError(t, err)
	assert.Zero(t, m.TotalHours)
}

func TestCalculateNoOvertimeAtOrBeforeEnd(t *testing.T) {
	for _, out := range []string{"17:30:00", "18:00:00"} {
		m, err := Calculate(Scans{
			CheckIn:  utils.Ptr("09:00:00"),
			CheckOut: &out,
		}, officeConfig())
		assert.NoError(t, err)
		assert.Zero(t, m.OvertimeMinutes)
	}
}

func TestCalculateInvalidScheduleTimes(t *testing.T) {
	cfg := officeConfig()
	cfg.WorkStart = "not-a-time"
	_, err := Calculate(Scans{}, cfg)
	assert.Error(t, err)
}
