package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centavo/internal/engine"
	"centavo/internal/model"
	"centavo/internal/storage"
	"centavo/internal/testutil"
)

func TestSettingsRepositoryCreateDefaults(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")

	settings, err := repos.Settings.CreateDefaults(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.DefaultCurrency, settings.Currency)
	assert.Equal(t, storage.DefaultCurrencySymbol, settings.CurrencySymbol)
	assert.Equal(t, model.ThemeSystem, settings.Theme)
	assert.Equal(t, storage.DefaultLanguage, settings.Language)
	assert.Equal(t, storage.DefaultDateFormat, settings.DateFormat)

	// One preferences row per user.
	_, err = repos.Settings.CreateDefaults(ctx, user.ID)
	require.Error(t, err)
	var engErr *engine.EngineError
	assert.True(t, errors.As(err, &engErr))
}

func TestSettingsRepositoryFindByUser(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")

	missing, err := repos.Settings.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repos.Settings.CreateDefaults(ctx, user.ID)
	require.NoError(t, err)

	found, err := repos.Settings.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.UserID)
}

func TestSettingsRepositoryGetOrCreate(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")

	first, err := repos.Settings.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := repos.Settings.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := repos.Settings.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSettingsRepositoryUpdateByUser(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	_, err := repos.Settings.CreateDefaults(ctx, user.ID)
	require.NoError(t, err)

	theme := model.ThemeDark
	language := "es"
	updated, err := repos.Settings.UpdateByUser(ctx, user.ID, model.UpdateSettings{
		Theme:    &theme,
		Language: &language,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, updated.Theme)
	assert.Equal(t, "es", updated.Language)
	assert.Equal(t, storage.DefaultCurrency, updated.Currency, "untouched fields keep their values")
}

func TestSettingsRepositoryUpdateMissingUser(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	theme := model.ThemeDark
	_, err := repos.Settings.UpdateByUser(ctx, 404, model.UpdateSettings{Theme: &theme})
	require.Error(t, err)

	var nfErr *storage.NotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "settings", nfErr.Entity)
}

func TestSettingsRepositoryUpdateTheme(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	_, err := repos.Settings.CreateDefaults(ctx, user.ID)
	require.NoError(t, err)

	updated, err := repos.Settings.UpdateTheme(ctx, user.ID, model.ThemeLight)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, updated.Theme)
}

func TestSettingsRepositoryUpdateCurrency(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	_, err := repos.Settings.CreateDefaults(ctx, user.ID)
	require.NoError(t, err)

	updated, err := repos.Settings.UpdateCurrency(ctx, user.ID, "EUR", "€")
	require.NoError(t, err)
	assert.Equal(t, "EUR", updated.Currency)
	assert.Equal(t, "€", updated.CurrencySymbol)

	_, err = repos.Settings.UpdateCurrency(ctx, user.ID, "", "€")
	assert.ErrorIs(t, err, storage.ErrEmptyString)
}

func TestSettingsRepositoryResetDefaults(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	_, err := repos.Settings.CreateDefaults(ctx, user.ID)
	require.NoError(t, err)

	_, err = repos.Settings.UpdateCurrency(ctx, user.ID, "EUR", "€")
	require.NoError(t, err)

	reset, err := repos.Settings.ResetDefaults(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.DefaultCurrency, reset.Currency)
	assert.Equal(t, storage.DefaultCurrencySymbol, reset.CurrencySymbol)
	assert.Equal(t, model.ThemeSystem, reset.Theme)
}
