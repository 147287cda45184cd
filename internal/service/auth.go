// Package service provides business-logic services for authentication, URL
// scanning, and scan history, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/secureqr/secureqr/internal/models"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// Create persists a new user and returns it with a store-assigned ID.
	// A colliding email yields models.ErrDuplicateEmail.
	Create(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	// FindByEmail returns the user with the given normalized email,
	// or models.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID returns the user with the given ID, or models.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService implements signup, login, and profile lookup by delegating
// to a UserRepository.
type AuthService struct {
	// repo performs the data-layer operations.
	repo UserRepository
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// normalizeEmail trims surrounding whitespace and lowercases the address so
// that uniqueness is case- and whitespace-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account. The password is hashed with bcrypt at a
// fixed cost; the plaintext never leaves this function. Duplicate emails are
// reported as models.ErrDuplicateEmail by the store's unique constraint, so
// concurrent signups for the same address cannot race past each other.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email, and password are required", models.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, name, email, string(hash))
}

// Login verifies the email/password pair and returns the matching user.
// An unknown email and a wrong password both yield models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrInvalidInput)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

// Profile returns the account with the given ID.
func (s *AuthService) Profile(ctx context.Context, id string) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}
