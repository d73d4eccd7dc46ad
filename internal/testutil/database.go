// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"centavo/internal/blobstore"
	"centavo/internal/engine"
	"centavo/internal/model"
	"centavo/internal/storage"
)

// SetupTestEngine creates an initialized engine persisting into a
// throwaway directory. Cleanup closes the engine when the test ends.
func SetupTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	store, err := blobstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	eng := engine.New(store, "test")
	require.NoError(t, eng.Initialize(context.Background()))

	t.Cleanup(func() {
		_ = eng.Close()
	})
	return eng
}

// SetupTestRepositories creates the full repository set over a fresh test
// engine.
func SetupTestRepositories(t *testing.T) *storage.Repositories {
	t.Helper()
	return storage.NewRepositories(SetupTestEngine(t))
}

// CreateTestUser registers a user with fixed credential material. Tests
// exercising real PBKDF2 derivation use the credential package directly.
func CreateTestUser(t *testing.T, repos *storage.Repositories, username string) *model.User {
	t.Helper()

	user, err := repos.Users.Create(context.Background(), model.CreateUser{
		Username: username,
		PinHash:  "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90",
		Salt:     "00112233445566778899aabbccddeeff",
	})
	require.NoError(t, err)
	return user
}

// CreateTestCategory inserts a category owned by the given user.
func CreateTestCategory(t *testing.T, repos *storage.Repositories, userID int64, name string, ctype model.TransactionType) *model.Category {
	t.Helper()

	category, err := repos.Categories.Create(context.Background(), model.CreateCategory{
		Name:   name,
		Type:   ctype,
		Color:  "#10B981",
		Icon:   "Wallet",
		UserID: &userID,
	})
	require.NoError(t, err)
	return category
}
