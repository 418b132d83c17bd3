package security

import (
	"context"
	"errors"
	"time"

	"attendly.com/attendly/core"
)

// GPSSample is the client-reported fix carried by a scan request.
type GPSSample struct {
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Accuracy  *float64   `json:"accuracy"`
	Speed     *float64   `json:"speed"`
	Altitude  *float64   `json:"altitude"`
	Heading   *float64   `json:"heading"`
	Timestamp *time.Time `json:"timestamp"`
	IsMocked  bool       `json:"is_mocked"`
}

// ScanRequest is everything the pipeline needs to authorize one scan. The
// employee identity comes from the authenticated session, never from the
// request body.
type ScanRequest struct {
	BranchID       int
	Token          string
	EmployeeID     int
	ClientIP       string
	Location       *GPSSample
	FaceDescriptor []float64
}

var ErrBranchNotFound = errors.New("branch not found")

// BranchSource resolves the verification material of the scanned branch.
type BranchSource interface {
	// QRSecret returns ErrBranchNotFound for an unknown branch.
	QRSecret(ctx context.Context, branchID int) (string, error)
	AllowlistEntries(ctx context.Context, branchID int) ([]string, error)
}

// PrevSample is the employee's most recently recorded fix.
type PrevSample struct {
	Latitude   float64
	Longitude  float64
	RecordedAt time.Time
}

// LocationHistory is the append-only GPS trail. The history itself is the
// security artifact: RecordSample runs on every evaluated sample, pass or
// reject, and the sequential heuristics read the same rows back.
type LocationHistory interface {
	LastSample(ctx context.Context, employeeID int) (*PrevSample, error)
	RepeatCount(ctx context.Context, employeeID int, lat, lon float64, since time.Time) (int64, error)
	RecordSample(ctx context.Context, entry *core.GpsSecurityLog) error
}

// FaceTemplateSource reads the stored per-employee descriptor; nil means no
// template is registered.
type FaceTemplateSource interface {
	Template(ctx context.Context, employeeID int) ([]float64, error)
}

// FaceAuditLog is the append-only biometric verification trail.
type FaceAuditLog interface {
	RecordResult(ctx context.Context, entry *core.FaceVerificationLog) error
}

// Notifier receives out-of-band operator alerts for high-risk rejections.
// Implementations must be best-effort; alerting can never fail a scan.
type Notifier interface {
	SecurityAlert(message string)
}
