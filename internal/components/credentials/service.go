package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrasnagy-data/langdetect/internal/shared/config"
)

type (
	Service interface {
		Register(ctx context.Context, in RegisterIn) (*User, error)
		Authenticate(ctx context.Context, username, password string) (*User, error)
		Ping(ctx context.Context) error
	}

	service struct {
		store  Store
		hasher Hasher
	}
)

func NewService(store Store, cfg *config.Config) (Service, error) {
	hasher, err := NewHasher(cfg.PasswordHasher)
	if err != nil {
		return nil, err
	}
	return newService(store, hasher), nil
}

func newService(store Store, hasher Hasher) *service {
	return &service{store: store, hasher: hasher}
}

// Register validates the form input and stores a new user. The username is
// trimmed; the password is hashed exactly as typed.
func (s *service) Register(ctx context.Context, in RegisterIn) (*User, error) {
	if in.Password != in.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	username := strings.TrimSpace(in.Username)
	if username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, ErrEmptyCredentials
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{Username: username, PasswordHash: digest}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate returns ErrInvalidCredentials for both unknown users and wrong
// passwords. Store failures are returned wrapped.
func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.store.Get(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
