package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"attendly.com/attendly/security"
	"attendly.com/attendly/web/common"
)

const claimsKey = "sessionClaims"

// Authentication validates the Bearer token and stores the session
// claims on the request context for downstream handlers.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Authorization header missing"))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Authorization header must use the Bearer scheme"))
			return
		}

		claims, err := security.ParseSessionToken(token, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid or expired session"))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose session role does not match.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := SessionClaims(c)
		if claims == nil || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, common.NewErrorResponse("Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// SessionClaims returns the claims set by Authentication, or nil when
// the middleware did not run.
func SessionClaims(c *gin.Context) *security.SessionClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*security.SessionClaims)
	return claims
}
