package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-backend/internal/projects/cache"
	"github.com/showcase-labs/showcase-backend/internal/projects/domain"
)

// Store is the persistence the service needs; *repository.ProjectRepository
// satisfies it.
type Store interface {
	Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, currentSlug string, in domain.ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, slug string) error
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	store Store
	cache cache.Cache
	log   *zap.Logger
}

// NewProjectService creates a new project service. A nil cache disables caching.
func NewProjectService(store Store, c cache.Cache, log *zap.Logger) *ProjectService {
	if c == nil {
		c = cache.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectService{
		store: store,
		cache: c,
		log:   log.Named("projects"),
	}
}

// Create validates the input and stores a new project
func (s *ProjectService) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	in, err := sanitize(in)
	if err != nil {
		return nil, err
	}

	p, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.log.Info("project created", zap.Int64("id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

// Update replaces the project addressed by slug
func (s *ProjectService) Update(ctx context.Context, slug string, in domain.ProjectInput) (*domain.Project, error) {
	in, err := sanitize(in)
	if err != nil {
		return nil, err
	}

	p, err := s.store.Update(ctx, slug, in)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, slug, p.Slug)
	s.log.Info("project updated", zap.Int64("id", p.ID), zap.String("old_slug", slug), zap.String("slug", p.Slug))
	return p, nil
}

// Delete removes the project addressed by slug
func (s *ProjectService) Delete(ctx context.Context, slug string) error {
	if err := s.store.Delete(ctx, slug); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, slug)
	s.log.Info("project deleted", zap.String("slug", slug))
	return nil
}

// Get returns one project, served from cache when possible
func (s *ProjectService) Get(ctx context.Context, slug string) (*domain.Project, error) {
	if p, ok := s.cache.GetProject(ctx, slug); ok {
		return p, nil
	}

	// read before the store so a concurrent invalidation voids this fill
	gen, fill := s.cache.Generation(ctx)

	p, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if fill {
		s.cache.SetProject(ctx, gen, p)
	}
	return p, nil
}

// List returns all projects, newest first
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	if items, ok := s.cache.GetList(ctx); ok {
		return items, nil
	}

	gen, fill := s.cache.Generation(ctx)

	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if fill {
		s.cache.SetList(ctx, gen, items)
	}
	return items, nil
}

// WarmCache reloads the cached project list from storage.
func (s *ProjectService) WarmCache(ctx context.Context) (int, error) {
	gen, fill := s.cache.Generation(ctx)

	items, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("warm cache: %w", err)
	}
	if fill {
		s.cache.SetList(ctx, gen, items)
	}
	return len(items), nil
}

func sanitize(in domain.ProjectInput) (domain.ProjectInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	in.Description = optional(in.Description)
	in.GithubLink = optional(in.GithubLink)
	in.LiveLink = optional(in.LiveLink)
	return in, nil
}

// optional trims v and maps blank values to nil.
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
