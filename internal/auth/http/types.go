package http

import (
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-backend/internal/auth/service"
)

type Handler struct {
	authService *service.AuthService
	log         *zap.Logger
}

func New(authService *service.AuthService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		authService: authService,
		log:         log.Named("auth.http"),
	}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
