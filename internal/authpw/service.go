// Package authpw provides the owner's email/password authentication.
package authpw

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"portfolio/api/internal/store"
)

// ErrInvalidCredentials is returned for any failed sign-in, without
// distinguishing unknown email from wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

const minPasswordLength = 8

// UserStore defines the storage interface for authentication.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, id string) (store.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// Service authenticates the site owner. The site has no public sign-up; the
// only account is seeded from configuration at startup.
type Service struct {
	store UserStore
}

func NewService(store UserStore) *Service {
	return &Service{store: store}
}

// SignIn verifies the owner's credentials and returns the account.
func (s *Service) SignIn(ctx context.Context, email, password string) (store.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return store.User{}, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return store.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return store.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword replaces the owner's password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// HashPassword bcrypt-hashes a password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
