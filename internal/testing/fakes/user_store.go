package fakes

import (
	"context"
	"sync"
	"time"

	"github.com/showcase-labs/showcase-backend/internal/auth/domain"
)

// UserStore is an in-memory user store keyed by username.
type UserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{nextID: 1, users: make(map[string]domain.User)}
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) Create(_ context.Context, username, passwordHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return nil, domain.ErrUserExists
	}
	u := domain.User{ID: s.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	s.nextID++
	s.users[username] = u
	return &u, nil
}

func (s *UserStore) UpdatePassword(_ context.Context, username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[username] = u
	return nil
}
