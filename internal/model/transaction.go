package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-date layout used for transaction dates.
// Transactions carry a date, never a time of day.
const DateFormat = "2006-01-02"

// Transaction represents a single income or expense entry.
type Transaction struct {
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Type        TransactionType `db:"type" json:"type"`
	Description *string         `db:"description" json:"description,omitempty"`
	Date        string          `db:"date" json:"date"`
	ID          int64           `db:"id" json:"id"`
	CategoryID  int64           `db:"category_id" json:"category_id"`
	UserID      int64           `db:"user_id" json:"user_id"`
}

// CreateTransaction carries the fields for a new transaction.
type CreateTransaction struct {
	Amount      decimal.Decimal
	Type        TransactionType
	Description *string
	Date        string
	CategoryID  int64
	UserID      int64
}

// UpdateTransaction carries the editable transaction fields. Nil fields are
// left untouched.
type UpdateTransaction struct {
	Amount      *decimal.Decimal
	Type        *TransactionType
	Description *string
	Date        *string
	CategoryID  *int64
}

// TransactionFilters narrows FindWithFilters results. Zero-value fields are
// ignored.
type TransactionFilters struct {
	Type       TransactionType
	StartDate  string
	EndDate    string
	Search     string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	CategoryID int64
}
