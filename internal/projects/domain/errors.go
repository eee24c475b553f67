package domain

import "errors"

var (
	ErrNotFound     = errors.New("project not found")
	ErrInvalidInput = errors.New("invalid project input")
	ErrSlugConflict = errors.New("could not assign a unique slug")
)
