package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/store"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService defines the account business logic
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID int) (*domain.User, error)
}

type authService struct {
	store store.Store
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(s store.Store) AuthService {
	return &authService{store: s}
}

// Register creates a new account with a hashed password. The username
// check is case-sensitive; the store itself enforces no uniqueness, so
// the pre-check here is what keeps duplicates out.
func (s *authService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	existing, err := s.store.GetUserByUsername(ctx, username)
	if err != nil && err != store.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, store.NewUser{
		Username: username,
		Password: hashed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials. Unknown username and wrong password fail
// identically so the response cannot be used to probe for accounts.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if err == store.ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	match, err := auth.ComparePasswords(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID retrieves a user by id
func (s *authService) GetUserByID(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
