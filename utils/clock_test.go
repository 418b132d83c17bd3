package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "with seconds", in: "09:30:00", want: 9*60 + 30},
		{name: "without seconds", in: "18:05", want: 18*60 + 5},
		{name: "midnight", in: "00:00:00", want: 0},
		{name: "end of day", in: "23:59:59", want: 23*60 + 59},
		{name: "garbage", in: "morning", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "out of range hour", in: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClockAndDate(t *testing.T) {
	ts := time.Date(2025, 3, 7, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "09:05:03", FormatClock(ts))
	assert.Equal(t, "2025-03-07", FormatDate(ts))
}
