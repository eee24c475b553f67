package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-backend/internal/api/http/middleware"
	"github.com/showcase-labs/showcase-backend/internal/auth"
	"github.com/showcase-labs/showcase-backend/internal/projects/domain"
)

func (h *Handler) create(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req.input())
	if err != nil {
		h.fail(c, "create", err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	slug := c.Param("slug")

	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), slug, req.input())
	if err != nil {
		h.fail(c, "update", err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		h.fail(c, "delete", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, "get", err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	if items == nil {
		items = []domain.Project{}
	}

	c.JSON(http.StatusOK, items)
}

// fail maps service errors to responses. Only internal errors are logged;
// their detail never reaches the client.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.log.Error("project operation failed",
			zap.String("op", op),
			zap.String("request_id", middleware.GetRequestID(c.Request.Context())),
			zap.String("slug", c.Param("slug")),
			zap.Int64("user_id", auth.UserID(c)),
			zap.String("username", auth.Username(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
