package security

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"attendly.com/attendly/core"
)

const (
	FaceStatusPass       = "pass"
	FaceStatusFail       = "fail"
	FaceStatusNoTemplate = "no_template"
)

// FaceChecker compares the live descriptor against the employee's stored
// template. Every scored call writes an audit row; the toggle-off case is
// the one path with nothing to score and therefore nothing to audit.
type FaceChecker struct {
	Templates FaceTemplateSource
	Audit     FaceAuditLog
}

func (fc *FaceChecker) Check(ctx context.Context, req *ScanRequest, settings *Settings) error {
	if !settings.FaceVerificationEnabled {
		return nil
	}

	stored, err := fc.Templates.Template(ctx, req.EmployeeID)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		audit := &core.FaceVerificationLog{EmployeeID: req.EmployeeID, Status: FaceStatusNoTemplate}
		if err := fc.Audit.RecordResult(ctx, audit); err != nil {
			return err
		}
		return core.Reject(http.StatusForbidden, "No face template registered. Contact your admin.")
	}

	if len(req.FaceDescriptor) == 0 {
		return core.Reject(http.StatusBadRequest, "Face descriptor missing. Ensure camera is allowed.")
	}

	distance := EuclideanDistance(req.FaceDescriptor, stored)
	// The enforced rule is distance < threshold (smaller = more similar).
	// The similarity score runs the opposite direction and exists only for
	// display and the audit trail.
	passed := distance < settings.FaceSimilarityThreshold
	score := SimilarityScore(distance)
	status := FaceStatusFail
	if passed {
		status = FaceStatusPass
	}
	audit := &core.FaceVerificationLog{EmployeeID: req.EmployeeID, SimilarityScore: &score, Status: status}
	if err := fc.Audit.RecordResult(ctx, audit); err != nil {
		return err
	}

	if !passed {
		return core.Reject(http.StatusForbidden, fmt.Sprintf(
			"Face verification failed (distance: %.3f, threshold: %g). Please try again.",
			distance, settings.FaceSimilarityThreshold))
	}
	return nil
}

// EuclideanDistance returns +Inf on empty input or a length mismatch, so a
// descriptor of the wrong dimension can never pass any threshold.
func EuclideanDistance(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// SimilarityScore maps a raw distance onto the 0..1 display scale, rounded
// to 4 decimal places to match the existing audit data.
func SimilarityScore(distance float64) float64 {
	return math.Round((1-math.Min(distance, 1))*10000) / 10000
}
