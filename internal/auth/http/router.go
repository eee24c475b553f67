package http

import "github.com/gin-gonic/gin"

// Register mounts POST /login behind the given guards (rate limiting).
func (h *Handler) Register(r gin.IRouter, guards ...gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	r.POST("/login", append(handlers, h.Login)...)
}
