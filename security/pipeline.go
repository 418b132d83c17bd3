package security

import (
	"context"
	"errors"
	"net/http"
	"time"

	"attendly.com/attendly/core"
)

// TokenChecker validates the rotating branch token before anything else
// runs. An unknown branch is a 404; a stale or forged token a 403.
type TokenChecker struct {
	Branches BranchSource
	Now      func() time.Time
}

func (tc *TokenChecker) Check(ctx context.Context, req *ScanRequest, settings *Settings) error {
	secret, err := tc.Branches.QRSecret(ctx, req.BranchID)
	if errors.Is(err, ErrBranchNotFound) {
		return core.Reject(http.StatusNotFound, "Branch not found")
	}
	if err != nil {
		return err
	}
	now := time.Now()
	if tc.Now != nil {
		now = tc.Now()
	}
	if !VerifyDailyToken(req.Token, req.BranchID, secret, now) {
		return core.Reject(http.StatusForbidden, "Invalid or expired QR code")
	}
	return nil
}

// Checker is one stage of the scan verification pipeline.
type Checker interface {
	Check(ctx context.Context, req *ScanRequest, settings *Settings) error
}

// Pipeline runs its checkers in a fixed order and stops at the first
// rejection. Token and origin run before any audit source, so a scan
// rejected there leaves no rows behind; geo and face own their audit
// trails and always write them.
type Pipeline struct {
	checkers []Checker
}

// NewPipeline wires the standard order: token, origin, geo, face.
func NewPipeline(store *Store, alerts Notifier) *Pipeline {
	return &Pipeline{checkers: []Checker{
		&TokenChecker{Branches: store},
		&OriginChecker{Branches: store},
		&GeoChecker{History: store, Alerts: alerts},
		&FaceChecker{Templates: store, Audit: store},
	}}
}

// NewPipelineWith builds a pipeline from explicit stages.
func NewPipelineWith(checkers ...Checker) *Pipeline {
	return &Pipeline{checkers: checkers}
}

func (p *Pipeline) Run(ctx context.Context, req *ScanRequest, settings *Settings) error {
	for _, c := range p.checkers {
		if err := c.Check(ctx, req, settings); err != nil {
			return err
		}
	}
	return nil
}
