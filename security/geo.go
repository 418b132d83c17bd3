package security

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"attendly.com/attendly/core"
)

const (
	earthRadiusKm      = 6371
	maxClockSkew       = 5 * time.Minute
	impossibleSpeedKmh = 900
	suspiciousSpeedKmh = 300
	repeatWindow       = 7 * 24 * time.Hour
	repeatThreshold    = 7
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// GeoRisk is the outcome of the rule cascade for one sample.
type GeoRisk struct {
	Level  RiskLevel
	Reason string
}

// EvaluateGeoRisk runs the ordered spoof heuristics. The first matching
// rule decides the tier; later rules are never consulted, so a sample that
// is both mock-flagged and low-accuracy comes out high, not medium.
// Callers must have checked that latitude/longitude are present.
func EvaluateGeoRisk(sample *GPSSample, prev *PrevSample, priorRepeats int64, maxAccuracy float64, now time.Time) GeoRisk {
	if sample.IsMocked {
		return GeoRisk{RiskHigh, "Mock location detected (isMocked=true)"}
	}

	if sample.Accuracy != nil && *sample.Accuracy > maxAccuracy {
		return GeoRisk{RiskMedium,
			fmt.Sprintf("GPS accuracy %.0fm exceeds allowed %.0fm", *sample.Accuracy, maxAccuracy)}
	}

	if sample.Timestamp != nil {
		skew := now.Sub(*sample.Timestamp)
		if skew < 0 {
			skew = -skew
		}
		if skew > maxClockSkew {
			return GeoRisk{RiskHigh,
				fmt.Sprintf("GPS timestamp is %d min stale", int(math.Round(skew.Minutes())))}
		}
	}

	if prev != nil {
		elapsed := now.Sub(prev.RecordedAt)
		if elapsed > 0 {
			distKm := HaversineKm(prev.Latitude, prev.Longitude, *sample.Latitude, *sample.Longitude)
			speedKmh := distKm / elapsed.Hours()
			if speedKmh > impossibleSpeedKmh {
				return GeoRisk{RiskHigh,
					fmt.Sprintf("Impossible location jump: %.0fkm in %.0fmin", distKm, elapsed.Minutes())}
			}
			if speedKmh > suspiciousSpeedKmh {
				return GeoRisk{RiskMedium,
					fmt.Sprintf("Suspicious speed: %.0fkm/h between scans", speedKmh)}
			}
		}
	}

	// priorRepeats counts already-recorded samples; the one under
	// evaluation makes it priorRepeats+1.
	if priorRepeats+1 >= repeatThreshold {
		return GeoRisk{RiskMedium,
			fmt.Sprintf("Identical GPS coordinates repeated %d times in 7 days", priorRepeats+1)}
	}

	return GeoRisk{Level: RiskLow}
}

// HaversineKm is the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// GeoChecker scores a fix for spoofing risk against the employee's recent
// history. Every evaluated sample is appended to the history before the
// checker returns, pass or reject; enforcement is optional, the audit trail
// is not.
type GeoChecker struct {
	History LocationHistory
	Alerts  Notifier // optional
	Now     func() time.Time
}

func (gc *GeoChecker) now() time.Time {
	if gc.Now != nil {
		return gc.Now()
	}
	return time.Now()
}

func (gc *GeoChecker) Check(ctx context.Context, req *ScanRequest, settings *Settings) error {
	loc := req.Location
	if loc == nil || loc.Latitude == nil || loc.Longitude == nil {
		// hard input error, nothing is persisted
		return core.Reject(http.StatusBadRequest, "Location data is required. Please enable GPS.")
	}

	now := gc.now()
	risk := GeoRisk{Level: RiskLow}
	if settings.AntiGpsSpoofEnabled {
		prev, err := gc.History.LastSample(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		repeats, err := gc.History.RepeatCount(ctx, req.EmployeeID,
			*loc.Latitude, *loc.Longitude, now.Add(-repeatWindow))
		if err != nil {
			return err
		}
		risk = EvaluateGeoRisk(loc, prev, repeats, settings.MaxGpsAccuracy, now)
	}

	entry := &core.GpsSecurityLog{
		EmployeeID: req.EmployeeID,
		Latitude:   *loc.Latitude,
		Longitude:  *loc.Longitude,
		Accuracy:   loc.Accuracy,
		Speed:      loc.Speed,
		Altitude:   loc.Altitude,
		Heading:    loc.Heading,
		IsMocked:   loc.IsMocked,
		RiskLevel:  string(risk.Level),
	}
	if risk.Reason != "" {
		entry.Reason = &risk.Reason
	}
	if err := gc.History.RecordSample(ctx, entry); err != nil {
		return err
	}

	switch risk.Level {
	case RiskHigh:
		if gc.Alerts != nil {
			gc.Alerts.SecurityAlert(fmt.Sprintf(
				"High-risk GPS scan blocked for employee %d: %s", req.EmployeeID, risk.Reason))
		}
		return core.Reject(http.StatusForbidden, "GPS security check failed: "+risk.Reason)
	case RiskMedium:
		return core.Reject(http.StatusForbidden, "GPS validation failed: "+risk.Reason)
	}
	return nil
}
