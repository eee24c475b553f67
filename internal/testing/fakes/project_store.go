package fakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/showcase-labs/showcase-backend/internal/projects/domain"
	"github.com/showcase-labs/showcase-backend/internal/projects/slug"
)

// ProjectStore is an in-memory project store with the same slug semantics
// as the SQL repository.
type ProjectStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Project

	// Err, when set, is returned by every operation.
	Err error
	// Calls counts operations by name.
	Calls map[string]int
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		nextID: 1,
		rows:   make(map[int64]domain.Project),
		Calls:  make(map[string]int),
	}
}

// Len returns the number of stored projects.
func (s *ProjectStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *ProjectStore) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls["Create"]++
	if s.Err != nil {
		return nil, s.Err
	}

	sl, err := slug.Assign(ctx, s, in.Name, 0)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := domain.Project{
		ID:          s.nextID,
		Name:        in.Name,
		Description: in.Description,
		GithubLink:  in.GithubLink,
		LiveLink:    in.LiveLink,
		Slug:        sl,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.rows[p.ID] = p
	s.nextID++
	return &p, nil
}

func (s *ProjectStore) Update(ctx context.Context, currentSlug string, in domain.ProjectInput) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls["Update"]++
	if s.Err != nil {
		return nil, s.Err
	}

	p, ok := s.findLocked(currentSlug)
	if !ok {
		return nil, domain.ErrNotFound
	}
	sl, err := slug.Assign(ctx, s, in.Name, p.ID)
	if err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.GithubLink = in.GithubLink
	p.LiveLink = in.LiveLink
	p.Slug = sl
	p.UpdatedAt = time.Now().UTC()
	s.rows[p.ID] = p
	return &p, nil
}

func (s *ProjectStore) Delete(_ context.Context, sl string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls["Delete"]++
	if s.Err != nil {
		return s.Err
	}

	p, ok := s.findLocked(sl)
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, p.ID)
	return nil
}

func (s *ProjectStore) GetBySlug(_ context.Context, sl string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls["GetBySlug"]++
	if s.Err != nil {
		return nil, s.Err
	}

	p, ok := s.findLocked(sl)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *ProjectStore) List(context.Context) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls["List"]++
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]domain.Project, 0, len(s.rows))
	for _, p := range s.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// SlugTaken implements slug.Checker; callers hold s.mu.
func (s *ProjectStore) SlugTaken(_ context.Context, sl string, excludeID int64) (bool, error) {
	for id, p := range s.rows {
		if p.Slug == sl && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *ProjectStore) findLocked(sl string) (domain.Project, bool) {
	for _, p := range s.rows {
		if p.Slug == sl {
			return p, true
		}
	}
	return domain.Project{}, false
}
