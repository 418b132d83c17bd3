package security

import (
	"context"
	"errors"
	"testing"

	"attendly.com/attendly/core"
	"github.com/stretchr/testify/assert"
)

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		entries    []string
		clientIP   string
		wantAllow  bool
		wantInBody string
	}{
		{
			name:      "restriction disabled allows anything",
			enabled:   false,
			entries:   []string{"192.168.1.10"},
			clientIP:  "203.0.113.9",
			wantAllow: true,
		},
		{
			name:      "empty allow-list is unrestricted",
			enabled:   true,
			entries:   nil,
			clientIP:  "203.0.113.9",
			wantAllow: true,
		},
		{
			name:      "exact address match",
			enabled:   true,
			entries:   []string{"192.168.1.10"},
			clientIP:  "192.168.1.10",
			wantAllow: true,
		},
		{
			name:      "cidr block match",
			enabled:   true,
			entries:   []string{"192.168.1.0/24"},
			clientIP:  "192.168.1.77",
			wantAllow: true,
		},
		{
			name:      "cidr block miss",
			enabled:   true,
			entries:   []string{"192.168.1.0/24"},
			clientIP:  "192.168.2.1",
			wantAllow: false,
		},
		{
			name:      "ipv4-mapped ipv6 is normalized",
			enabled:   true,
			entries:   []string{"192.168.1.10"},
			clientIP:  "::ffff:192.168.1.10",
			wantAllow: true,
		},
		{
			name:      "second entry matches",
			enabled:   true,
			entries:   []string{"10.0.0.1", "172.16.0.0/12"},
			clientIP:  "172.16.5.5",
			wantAllow: true,
		},
		{
			name:      "malformed entry never matches",
			enabled:   true,
			entries:   []string{"not-an-ip/99"},
			clientIP:  "192.168.1.10",
			wantAllow: false,
		},
		{
			name:       "rejection embeds the client address",
			enabled:    true,
			entries:    []string{"10.0.0.1"},
			clientIP:   "::ffff:203.0.113.9",
			wantAllow:  false,
			wantInBody: "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &OriginChecker{Branches: &fakeBranches{exists: true, entries: tt.entries}}
			req := &ScanRequest{BranchID: 1, ClientIP: tt.clientIP}
			settings := &Settings{IPRestrictionEnabled: tt.enabled}

			err := checker.Check(context.Background(), req, settings)
			if tt.wantAllow {
				assert.NoError(t, err)
				return
			}
			var rej *core.Rejection
			assert.True(t, errors.As(err, &rej))
			if tt.wantInBody != "" {
				assert.Contains(t, rej.Message, tt.wantInBody)
			}
		})
	}
}
