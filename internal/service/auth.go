package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"centavo/internal/credential"
	"centavo/internal/model"
)

// Auth service errors.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or pin")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService registers users and checks their PINs. Registration seeds the
// new user's preferences and starter categories so the account is usable
// immediately.
type AuthService struct {
	users      UserStore
	settings   SettingsStore
	categories CategoryStore
	iterations int
}

// NewAuthService wires an auth service to its stores. iterations <= 0 falls
// back to the credential default.
func NewAuthService(users UserStore, settings SettingsStore, categories CategoryStore, iterations int) *AuthService {
	if iterations <= 0 {
		iterations = credential.DefaultIterations
	}
	return &AuthService{
		users:      users,
		settings:   settings,
		categories: categories,
		iterations: iterations,
	}
}

// Register creates an account and seeds its defaults. Each persisted step is
// atomic on its own; a failure part way leaves the earlier steps durable,
// matching the account creation flow's retry-forward behavior.
func (s *AuthService) Register(ctx context.Context, username, pin string) (*model.User, error) {
	if err := credential.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := credential.ValidatePin(pin); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}

	salt, err := credential.NewSalt()
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, model.CreateUser{
		Username: username,
		PinHash:  credential.Hash(pin, salt, s.iterations),
		Salt:     salt,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.settings.CreateDefaults(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to seed settings for user %d: %w", user.ID, err)
	}
	if _, err := s.categories.SeedDefaultCategories(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to seed categories for user %d: %w", user.ID, err)
	}

	slog.Info("registered user", "username", user.Username, "id", user.ID)
	return user, nil
}

// Login verifies a username/PIN pair and returns the user. Unknown usernames
// and wrong PINs produce the same error so the caller leaks nothing.
func (s *AuthService) Login(ctx context.Context, username, pin string) (*model.User, error) {
	if err := credential.ValidateUsername(username); err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := credential.ValidatePin(pin); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !credential.Verify(pin, user.PinHash, user.Salt, s.iterations) {
		return nil, ErrInvalidCredentials
	}

	slog.Info("user logged in", "username", user.Username, "id", user.ID)
	return user, nil
}

// ChangePin replaces a user's PIN after verifying the current one. A fresh
// salt is generated; the old hash is unrecoverable afterwards.
func (s *AuthService) ChangePin(ctx context.Context, userID int64, currentPin, newPin string) error {
	if err := credential.ValidatePin(newPin); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
	}
	if !credential.Verify(currentPin, user.PinHash, user.Salt, s.iterations) {
		return ErrInvalidCredentials
	}

	salt, err := credential.NewSalt()
	if err != nil {
		return err
	}

	updated, err := s.users.UpdatePin(ctx, user.ID, credential.Hash(newPin, salt, s.iterations), salt)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
	}

	slog.Info("changed user pin", "user_id", user.ID)
	return nil
}
