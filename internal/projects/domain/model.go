package domain

import "time"

// Project is a single showcase entry. Slug is the external key used by the
// public API; ID never leaves the storage and service layers except in JSON.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	GithubLink  *string   `json:"github_link"`
	LiveLink    *string   `json:"live_link"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectInput carries the mutable fields accepted on create and update.
type ProjectInput struct {
	Name        string
	Description *string
	GithubLink  *string
	LiveLink    *string
}
