package model

import "time"

// TransactionType distinguishes money coming in from money going out.
// It applies to both categories and transactions; a transaction may only
// reference a category of the same type.
type TransactionType string

const (
	// TypeIncome marks income categories and transactions.
	TypeIncome TransactionType = "income"
	// TypeExpense marks expense categories and transactions.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the two known values.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category groups transactions for reporting. A nil UserID means the
// category is shared across users. Type is immutable after creation.
// Editing a default category turns it into a custom one (IsDefault is
// cleared in the same update).
type Category struct {
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	Name      string          `db:"name" json:"name"`
	Type      TransactionType `db:"type" json:"type"`
	Color     string          `db:"color" json:"color"`
	Icon      string          `db:"icon" json:"icon"`
	UserID    *int64          `db:"user_id" json:"user_id,omitempty"`
	ID        int64           `db:"id" json:"id"`
	IsDefault bool            `db:"is_default" json:"is_default"`
}

// CreateCategory carries the fields for a new category.
type CreateCategory struct {
	Name   string
	Type   TransactionType
	Color  string
	Icon   string
	UserID *int64
}

// UpdateCategory carries the editable category fields. Type is deliberately
/// absent: it cannot change after creation. Nil fields are left untouched.
type UpdateCategory struct {
	Name  *string
	Color *string
	Icon  *string
}
