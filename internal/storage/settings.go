package storage

import (
	"context"
	"log/slog"

	"centavo/internal/engine"
	"centavo/internal/model"
)

// Default preference values applied at registration and on reset.
const (
	DefaultCurrency       = "USD"
	DefaultCurrencySymbol = "$"
	DefaultLanguage       = "en"
	DefaultDateFormat     = "YYYY-MM-DD"
)

// SettingsRepository manages the single preferences row each user owns.
type SettingsRepository struct {
	base
}

// NewSettingsRepository creates a settings repository over the engine.
func NewSettingsRepository(eng *engine.Engine) *SettingsRepository {
	return &SettingsRepository{base: base{eng: eng, table: "settings"}}
}

// CreateDefaults inserts the default preferences row for a user. The UNIQUE
// constraint on user_id rejects a second row for the same user.
func (r *SettingsRepository) CreateDefaults(ctx context.Context, userID int64) (*model.Settings, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var settings model.Settings
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		res, err := tx.Run(ctx,
			`INSERT INTO settings (user_id, currency, currency_symbol, theme, language, date_format)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			userID, DefaultCurrency, DefaultCurrencySymbol, model.ThemeSystem, DefaultLanguage, DefaultDateFormat)
		if err != nil {
			return err
		}

		found, err := tx.GetFirstRow(ctx, &settings, `SELECT * FROM settings WHERE id = ?`, res.LastInsertID)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Entity: "settings", ID: res.LastInsertID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("created default settings", "user_id", userID)
	return &settings, nil
}

// FindByUser returns a user's preferences, or nil if none exist yet.
func (r *SettingsRepository) FindByUser(ctx context.Context, userID int64) (*model.Settings, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var settings model.Settings
	found, err := r.eng.GetFirstRow(ctx, &settings, `SELECT * FROM settings WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &settings, nil
}

// GetOrCreate returns a user's preferences, inserting the defaults first if
// the row is missing.
func (r *SettingsRepository) GetOrCreate(ctx context.Context, userID int64) (*model.Settings, error) {
	settings, err := r.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}
	return r.CreateDefaults(ctx, userID)
}

// UpdateByUser edits a user's preferences. Nil fields keep their stored
// values.
func (r *SettingsRepository) UpdateByUser(ctx context.Context, userID int64, data model.UpdateSettings) (*model.Settings, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var settings model.Settings
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		found, err := tx.GetFirstRow(ctx, &settings, `SELECT * FROM settings WHERE user_id = ?`, userID)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Entity: "settings", ID: userID}
		}

		updates := make([]string, 0, 6)
		args := make([]any, 0, 7)
		if data.Currency != nil {
			updates = append(updates, "currency = ?")
			args = append(args, *data.Currency)
		}
		if data.CurrencySymbol != nil {
			updates = append(updates, "currency_symbol = ?")
			args = append(args, *data.CurrencySymbol)
		}
		if data.Theme != nil {
			updates = append(updates, "theme = ?")
			args = append(args, *data.Theme)
		}
		if data.Language != nil {
			updates = append(updates, "language = ?")
			args = append(args, *data.Language)
		}
		if data.DateFormat != nil {
			updates = append(updates, "date_format = ?")
			args = append(args, *data.DateFormat)
		}
		if len(updates) == 0 {
			return nil
		}
		updates = append(updates, "updated_at = CURRENT_TIMESTAMP")

		args = append(args, userID)
		query := "UPDATE settings SET " + joinUpdates(updates) + " WHERE user_id = ?"
		if _, err := tx.Run(ctx, query, args...); err != nil {
			return err
		}

		found, err = tx.GetFirstRow(ctx, &settings, `SELECT * FROM settings WHERE user_id = ?`, userID)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Entity: "settings", ID: userID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateTheme switches the color scheme.
func (r *SettingsRepository) UpdateTheme(ctx context.Context, userID int64, theme model.Theme) (*model.Settings, error) {
	return r.UpdateByUser(ctx, userID, model.UpdateSettings{Theme: &theme})
}

// UpdateCurrency switches the currency code and its display symbol.
func (r *SettingsRepository) UpdateCurrency(ctx context.Context, userID int64, currency, symbol string) (*model.Settings, error) {
	if err := validateString(currency, "currency"); err != nil {
		return nil, err
	}
	if err := validateString(symbol, "currency_symbol"); err != nil {
		return nil, err
	}
	return r.UpdateByUser(ctx, userID, model.UpdateSettings{
		Currency:       &currency,
		CurrencySymbol: &symbol,
	})
}

// ResetDefaults puts a user's preferences back to the registration values.
func (r *SettingsRepository) ResetDefaults(ctx context.Context, userID int64) (*model.Settings, error) {
	currency := DefaultCurrency
	symbol := DefaultCurrencySymbol
	theme := model.ThemeSystem
	language := DefaultLanguage
	dateFormat := DefaultDateFormat
	return r.UpdateByUser(ctx, userID, model.UpdateSettings{
		Currency:       &currency,
		CurrencySymbol: &symbol,
		Theme:          &theme,
		Language:       &language,
		DateFormat:     &dateFormat,
	})
}
