package security

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"attendly.com/attendly/core"
)

// OriginChecker enforces the per-branch network allow-list. Fail-open: a
// disabled toggle or an empty list means unrestricted.
type OriginChecker struct {
	Branches BranchSource
}

func (oc *OriginChecker) Check(ctx context.Context, req *ScanRequest, settings *Settings) error {
	if !settings.IPRestrictionEnabled {
		return nil
	}
	entries, err := oc.Branches.AllowlistEntries(ctx, req.BranchID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		// absence of configuration means unrestricted
		return nil
	}

	addr := NormalizeIP(req.ClientIP)
	for _, entry := range entries {
		if addrMatches(addr, strings.TrimSpace(entry)) {
			return nil
		}
	}
	return core.Reject(http.StatusForbidden,
		fmt.Sprintf("Access denied: your IP (%s) is not whitelisted for this branch.", addr))
}

// NormalizeIP strips the IPv4-mapped IPv6 prefix so stored IPv4 entries
// match clients arriving over a dual-stack listener.
func NormalizeIP(addr string) string {
	return strings.TrimPrefix(addr, "::ffff:")
}

// addrMatches treats an entry without a slash as an exact address and
// anything else as a CIDR block. Unparseable entries never match.
func addrMatches(addr, entry string) bool {
	if !strings.Contains(entry, "/") {
		return addr == entry
	}
	_, block, err := net.ParseCIDR(entry)
	if err != nil {
		return false
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	return block.Contains(ip)
}
