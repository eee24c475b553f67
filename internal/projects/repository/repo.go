package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/showcase-labs/showcase-backend/internal/projects/domain"
	"github.com/showcase-labs/showcase-backend/internal/projects/slug"
)

// maxSlugAttempts bounds how often a write is retried after losing a slug
// race to a concurrent writer.
const maxSlugAttempts = 5

const projectColumns = `id, name, description, github_link, live_link, slug, created_at, updated_at`

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project with a freshly assigned slug.
func (r *ProjectRepository) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	for i := 0; i < maxSlugAttempts; i++ {
		p, err := r.createOnce(ctx, in)
		if err == nil {
			return p, nil
		}
		// unique violation on slug → another writer won; derive again
		if isUniqueViolation(err) {
			continue
		}
		return nil, err
	}
	return nil, domain.ErrSlugConflict
}

func (r *ProjectRepository) createOnce(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	s, err := slug.Assign(ctx, txChecker{tx: tx}, in.Name, 0)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO projects (name, description, github_link, live_link, slug)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(tx.QueryRowContext(ctx, q, in.Name, in.Description, in.GithubLink, in.LiveLink, s))
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

// Update replaces the mutable fields of the project currently addressed by
// currentSlug and re-derives its slug from the new name.
func (r *ProjectRepository) Update(ctx context.Context, currentSlug string, in domain.ProjectInput) (*domain.Project, error) {
	for i := 0; i < maxSlugAttempts; i++ {
		p, err := r.updateOnce(ctx, currentSlug, in)
		if err == nil {
			return p, nil
		}
		if isUniqueViolation(err) {
			continue
		}
		return nil, err
	}
	return nil, domain.ErrSlugConflict
}

func (r *ProjectRepository) updateOnce(ctx context.Context, currentSlug string, in domain.ProjectInput) (*domain.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM projects WHERE slug = $1 FOR UPDATE`, currentSlug).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup project: %w", err)
	}

	s, err := slug.Assign(ctx, txChecker{tx: tx}, in.Name, id)
	if err != nil {
		return nil, err
	}

	const q = `
UPDATE projects
SET name = $1, description = $2, github_link = $3, live_link = $4, slug = $5, updated_at = now()
WHERE id = $6
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(tx.QueryRowContext(ctx, q, in.Name, in.Description, in.GithubLink, in.LiveLink, s, id))
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

// Delete removes the project with the given slug.
func (r *ProjectRepository) Delete(ctx context.Context, s string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE slug = $1`, s)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetBySlug returns the project addressed by s.
func (r *ProjectRepository) GetBySlug(ctx context.Context, s string) (*domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE slug = $1;`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, s))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// List returns every project, most recently created first.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects ORDER BY id DESC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// txChecker runs slug collision checks inside the caller's transaction.
type txChecker struct {
	tx *sql.Tx
}

func (c txChecker) SlugTaken(ctx context.Context, s string, excludeID int64) (bool, error) {
	// ids start at 1, so excludeID 0 excludes nothing
	var taken bool
	err := c.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE slug = $1 AND id <> $2)`,
		s, excludeID,
	).Scan(&taken)
	return taken, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var description, githubLink, liveLink sql.NullString
	err := row.Scan(&p.ID, &p.Name, &description, &githubLink, &liveLink, &p.Slug, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = nullableString(description)
	p.GithubLink = nullableString(githubLink)
	p.LiveLink = nullableString(liveLink)
	return &p, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
