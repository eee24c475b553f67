package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/showcase-labs/showcase-backend/internal/auth"
	"github.com/showcase-labs/showcase-backend/internal/auth/token"
)

// Verifier is satisfied by *token.Issuer.
type Verifier interface {
	Verify(raw string) (*token.Claims, error)
}

// RequireToken rejects requests without a bearer token (401) or with an
// invalid or expired one (403), and stores the caller's identity otherwise.
func RequireToken(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		claims, err := v.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token"})
			return
		}

		// Verify guarantees a numeric subject
		uid, _ := claims.UserID()
		c.Set(auth.CtxUserID, uid)
		c.Set(auth.CtxUsername, claims.Username)

		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
