package security

import (
	"time"

	"attendly.com/attendly/core"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the authenticated-employee payload carried by API
// tokens. The scan pipeline trusts UserID from here, never from the body.
type SessionClaims struct {
	UserID   int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	BranchID *int   `json:"branch_id"`
	jwt.RegisteredClaims
}

// CreateSessionToken signs an HS256 session token for a logged-in employee.
func CreateSessionToken(emp *core.Employee, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:   emp.ID,
		Name:     emp.Name,
		Email:    emp.Email,
		Role:     emp.Role,
		BranchID: emp.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "attendly",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSessionToken validates the signature and expiry and returns the
// embedded claims.
func ParseSessionToken(tokenStr string, secret []byte) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
