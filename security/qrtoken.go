package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateDailyToken derives the rotating QR token for a branch on a given
// day: hex(HMAC-SHA256(secret, "branchID|YYYY-MM-DD")). Pure and
// deterministic, so a display can regenerate the code for rendering without
// a server round trip.
func GenerateDailyToken(branchID int, secret string, day time.Time) string {
	message := fmt.Sprintf("%d|%s", branchID, day.Format("2006-01-02"))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyDailyToken recomputes the token for the server's current day only.
// Yesterday's QR code dies the moment the date rolls over, whatever the
// client clock claims.
func VerifyDailyToken(token string, branchID int, secret string, now time.Time) bool {
	expected := GenerateDailyToken(branchID, secret, now)
	return hmac.Equal([]byte(token), []byte(expected))
}
