package utils

import (
	"fmt"
	"time"
)

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClock converts a time-of-day string ("09:00" or "09:00:00") into
// minutes since midnight. Schedule and scan times carry no date component.
func ParseClock(s string) (int, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day: %q", s)
}

// FormatClock renders t in the TIME column format used by attendance rows.
func FormatClock(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatDate renders t in the DATE column format used by attendance rows.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func Ptr[T any](v T) *T {
	return &v
}
