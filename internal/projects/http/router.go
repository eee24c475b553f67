package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group. Mutating
// routes run requireAuth first.
func (h *Handler) Register(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/:slug", h.get)
	rg.POST("", requireAuth, h.create)
	rg.PUT("/:slug", requireAuth, h.update)
	rg.DELETE("/:slug", requireAuth, h.delete)
}
