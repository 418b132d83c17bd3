package security

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"attendly.com/attendly/core"
	"attendly.com/attendly/utils"
	"github.com/stretchr/testify/assert"
)

// ── in-memory fakes shared by the checker tests ────────────────────────────

type fakeBranches struct {
	exists  bool
	secret  string
	entries []string
}

func (f *fakeBranches) QRSecret(_ context.Context, _ int) (string, error) {
	if !f.exists {
		return "", ErrBranchNotFound
	}
	return f.secret, nil
}

func (f *fakeBranches) AllowlistEntries(_ context.Context, _ int) ([]string, error) {
	return f.entries, nil
}

type fakeHistory struct {
	prev    *PrevSample
	repeats int64
	rows    []*core.GpsSecurityLog
}

func (f *fakeHistory) LastSample(_ context.Context, _ int) (*PrevSample, error) {
	return f.prev, nil
}

func (f *fakeHistory) RepeatCount(_ context.Context, _ int, _, _ float64, _ time.Time) (int64, error) {
	return f.repeats, nil
}

func (f *fakeHistory) RecordSample(_ context.Context, entry *core.GpsSecurityLog) error {
	f.rows = append(f.rows, entry)
	return nil
}

type fakeTemplates struct {
	vec []float64
}

func (f *fakeTemplates) Template(_ context.Context, _ int) ([]float64, error) {
	return f.vec, nil
}

type fakeFaceAudit struct {
	rows []*core.FaceVerificationLog
}

func (f *fakeFaceAudit) RecordResult(_ context.Context, entry *core.FaceVerificationLog) error {
	f.rows = append(f.rows, entry)
	return nil
}

type fakeAlerts struct {
	messages []string
}

func (f *fakeAlerts) SecurityAlert(message string) {
	f.messages = append(f.messages, message)
}

// ── pipeline fixtures ──────────────────────────────────────────────────────

var testNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func allOnSettings() *Settings {
	return &Settings{
		IPRestrictionEnabled:    true,
		AntiGpsSpoofEnabled:     true,
		MaxGpsAccuracy:          50,
		FaceVerificationEnabled: true,
		FaceSimilarityThreshold: 0.6,
	}
}

type fixture struct {
	pipeline *Pipeline
	history  *fakeHistory
	audit    *fakeFaceAudit
}

func newFixture(branches *fakeBranches, template []float64) *fixture {
	history := &fakeHistory{}
	audit := &fakeFaceAudit{}
	pipeline := NewPipelineWith(
		&TokenChecker{Branches: branches, Now: func() time.Time { return testNow }},
		&OriginChecker{Branches: branches},
		&GeoChecker{History: history, Now: func() time.Time { return testNow }},
		&FaceChecker{Templates: &fakeTemplates{vec: template}, Audit: audit},
	)
	return &fixture{pipeline: pipeline, history: history, audit: audit}
}

func cleanScan(branches *fakeBranches) *ScanRequest {
	return &ScanRequest{
		BranchID:       3,
		Token:          GenerateDailyToken(3, branches.secret, testNow),
		EmployeeID:     7,
		ClientIP:       "10.0.0.5",
		Location:       &GPSSample{Latitude: utils.Ptr(-6.2), Longitude: utils.Ptr(106.8), Accuracy: utils.Ptr(10.0)},
		FaceDescriptor: []float64{0.1, 0.2, 0.3},
	}
}

func rejectionStatus(t *testing.T, err error) int {
	t.Helper()
	var rej *core.Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected Rejection, got %v", err)
	}
	return rej.Status
}

// ── tests ──────────────────────────────────────────────────────────────────

func TestPipelineTokenFailureLeavesNoAuditRows(t *testing.T) {
	branches := &fakeBranches{exists: true, secret: "s3cret", entries: []string{"10.0.0.5"}}
	fx := newFixture(branches, []float64{0.1, 0.2, 0.3})

	req := cleanScan(branches)
	req.Token = "forged"

	err := fx.pipeline.Run(context.Background(), req, allOnSettings())
	assert.Equal(t, http.StatusForbidden, rejectionStatus(t, err))
	assert.Contains(t, err.Error(), "Invalid or expired QR code")
	assert.Empty(t, fx.history.rows)
	assert.Empty(t, fx.audit.rows)
}

func TestPipelineUnknownBranch(t *testing.T) {
	branches := &fakeBranches{exists: false}
	fx := newFixture(branches, nil)

	err := fx.pipeline.Run(context.Background(), cleanScan(branches), allOnSettings())
	assert.Equal(t, http.StatusNotFound, rejectionStatus(t, err))
	assert.Empty(t, fx.history.rows)
	assert.Empty(t, fx.audit.rows)
}

func TestPipelineOriginFailureLeavesNoAuditRows(t *testing.T) {
	branches := &fakeBranches{exists: true, secret: "s3cret", entries: []string{"192.168.1.0/24"}}
	fx := newFixture(branches, []float64{0.1, 0.2, 0.3})

	err := fx.pipeline.Run(context.Background(), cleanScan(branches), allOnSettings())
	assert.Equal(t, http.StatusForbidden, rejectionStatus(t, err))
	assert.Contains(t, err.Error(), "10.0.0.5")
	assert.Empty(t, fx.history.rows)
	assert.Empty(t, fx.audit.rows)
}

func TestPipelineGeoRejectionWritesExactlyOneGpsRow(t *testing.T) {
	branches := &fakeBranches{exists: true, secret: "s3cret", entries: []string{"10.0.0.5"}}
	fx := newFixture(branches, []float64{0.1, 0.2, 0.3})

	req := cleanScan(branches)
	req.Location.IsMocked = true

	err := fx.pipeline.Run(context.Background(), req, allOnSettings())
	assert.Equal(t, http.StatusForbidden, rejectionStatus(t, err))
	assert.Len(t, fx.history.rows, 1)
	assert.Equal(t, string(RiskHigh), fx.history.rows[0].RiskLevel)
	assert.Empty(t, fx.audit.rows, "face stage must not run after a geo rejection")
}

func TestPipelineFaceRejectionWritesOneRowEach(t *testing.T) {
	branches := &fakeBranches{exists: true, secret: "s3cret", entries: []string{"10.0.0.5"}}
	fx := newFixture(branches, []float64{9, 9, 9}) // far from the live descriptor

	err := fx.pipeline.Run(context.Background(), cleanScan(branches), allOnSettings())
	assert.Equal(t, http.StatusForbidden, rejectionStatus(t, err))
	assert.Len(t, fx.history.rows, 1)
	assert.Len(t, fx.audit.rows, 1)
	assert.Equal(t, FaceStatusFail, fx.audit.rows[0].Status)
}

func TestPipelineFullPass(t *testing.T) {
	branches := &fakeBranches{exists: true, secret: "s3cret", entries: []string{"10.0.0.0/8"}}
	fx := newFixture(branches, []float64{0.1, 0.2, 0.3})

	err := fx.pipeline.Run(context.Background(), cleanScan(branches), allOnSettings())
	assert.NoError(t, err)
	assert.Len(t, fx.history.rows, 1)
	assert.Equal(t, string(RiskLow), fx.history.rows[0].RiskLevel)
	assert.Len(t, fx.audit.rows, 1)
	assert.Equal(t, FaceStatusPass, fx.audit.rows[0].Status)
}

func TestPipelineAllTogglesOffStillRecordsLocation(t *testing.T) {
	branches := &fakeBranches{exists: true, secret: "s3cret"}
	fx := newFixture(branches, nil)

	req := cleanScan(branches)
	req.FaceDescriptor = nil
	req.Location.IsMocked = true // ignored while enforcement is off

	err := fx.pipeline.Run(context.Background(), req, &Settings{
		MaxGpsAccuracy:          DefaultMaxGpsAccuracy,
		FaceSimilarityThreshold: DefaultFaceSimilarityThreshold,
	})
	assert.NoError(t, err)
	assert.Len(t, fx.history.rows, 1, "the audit trail is collected even when enforcement is off")
	assert.Equal(t, string(RiskLow), fx.history.rows[0].RiskLevel)
	assert.Empty(t, fx.audit.rows, "a disabled face check has nothing to score")
}
