package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-backend/internal/api/http/middleware"
	"github.com/showcase-labs/showcase-backend/internal/auth/domain"
)

// Login exchanges username/password for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}

	tok, exp, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		h.log.Info("login rejected",
			zap.String("request_id", middleware.GetRequestID(c.Request.Context())),
			zap.String("username", req.Username),
			zap.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err != nil {
		h.log.Error("login failed",
			zap.String("request_id", middleware.GetRequestID(c.Request.Context())),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, loginResp{Token: tok, ExpiresAt: exp.Unix()})
}
