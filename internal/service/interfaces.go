// Package service holds the application services that sit between the CLI
// or HTTP surface and the repository layer.
package service

import (
	"context"

	"centavo/internal/model"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, data model.CreateUser) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePin(ctx context.Context, userID int64, pinHash, salt string) (bool, error)
}

// SettingsStore seeds and reads per-user preferences.
type SettingsStore interface {
	CreateDefaults(ctx context.Context, userID int64) (*model.Settings, error)
}

// CategoryStore seeds the starter catalog for new users.
type CategoryStore interface {
	SeedDefaultCategories(ctx context.Context, userID int64) (int64, error)
}
