package http

import (
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-backend/internal/projects/domain"
	"github.com/showcase-labs/showcase-backend/internal/projects/service"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
	log *zap.Logger
}

func New(svc *service.ProjectService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log.Named("projects.http")}
}

// projectReq is the body accepted by create and update.
type projectReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	GithubLink  *string `json:"github_link"`
	LiveLink    *string `json:"live_link"`
}

func (r projectReq) input() domain.ProjectInput {
	return domain.ProjectInput{
		Name:        r.Name,
		Description: r.Description,
		GithubLink:  r.GithubLink,
		LiveLink:    r.LiveLink,
	}
}
