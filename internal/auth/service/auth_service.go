package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/showcase-labs/showcase-backend/internal/auth/domain"
	"github.com/showcase-labs/showcase-backend/internal/auth/token"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	DefaultBcryptCost = 12
	minPasswordLength = 8
)

// UserStore is implemented by *repository.UserRepository.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, username, passwordHash string) (*domain.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

type AuthService struct {
	users     UserStore
	issuer    *token.Issuer
	cost      int
	dummyHash []byte
}

// NewAuthService wires the user store and token issuer. cost <= 0 selects
// DefaultBcryptCost.
func NewAuthService(users UserStore, issuer *token.Issuer, cost int) (*AuthService, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	// compared against for unknown users so both paths cost one bcrypt check
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &AuthService{
		users:     users,
		issuer:    issuer,
		cost:      cost,
		dummyHash: dummy,
	}, nil
}

// Login verifies the credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return "", time.Time{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}

	return s.issuer.Issue(user.ID, user.Username)
}

// CreateUser stores a new account with a hashed password.
func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, username, hash)
}

// SetPassword rotates the password of an existing account.
func (s *AuthService) SetPassword(ctx context.Context, username, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, strings.TrimSpace(username), hash)
}

func (s *AuthService) hash(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: need at least %d characters", domain.ErrWeakPassword, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
