package model

import "time"

// Theme selects the UI color scheme.
type Theme string

const (
	// ThemeLight forces the light color scheme.
	ThemeLight Theme = "light"
	// ThemeDark forces the dark color scheme.
	ThemeDark Theme = "dark"
	// ThemeSystem follows the host preference.
	ThemeSystem Theme = "system"
)

// Settings holds per-user preferences. Exactly one row exists per user.
type Settings struct {
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
	Currency       string    `db:"currency" json:"currency"`
	CurrencySymbol string    `db:"currency_symbol" json:"currency_symbol"`
	Theme          Theme     `db:"theme" json:"theme"`
	Language       string    `db:"language" json:"language"`
	DateFormat     string    `db:"date_format" json:"date_format"`
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
}

// UpdateSettings carries the editable settings fields. Nil fields are left
// untouched.
type UpdateSettings struct {
	Currency       *string
	CurrencySymbol *string
	Theme          *Theme
	Language       *string
	DateFormat     *string
}
