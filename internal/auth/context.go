package auth

import (
	"github.com/gin-gonic/gin"
)

const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
)

// UserID returns the authenticated user's id, or 0 when the request was not
// authenticated. It is set by middleware.RequireToken.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserID)
}

// Username returns the authenticated user's name, or "".
func Username(c *gin.Context) string {
	return c.GetString(CtxUsername)
}
