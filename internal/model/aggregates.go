package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSummary totals a user's transactions by type. An empty result set
// yields all-zero values, never an error.
type BalanceSummary struct {
	TotalIncome  decimal.Decimal `db:"total_income" json:"total_income"`
	TotalExpense decimal.Decimal `db:"total_expense" json:"total_expense"`
	Balance      decimal.Decimal `db:"-" json:"balance"`
	IncomeCount  int64           `db:"income_count" json:"income_count"`
	ExpenseCount int64           `db:"expense_count" json:"expense_count"`
}

// MonthlyComparison is one month's income/expense totals for charting.
// Month uses the YYYY-MM layout.
type MonthlyComparison struct {
	Month   string          `db:"month" json:"month"`
	Income  decimal.Decimal `db:"income" json:"income"`
	Expense decimal.Decimal `db:"expense" json:"expense"`
	Balance decimal.Decimal `db:"-" json:"balance"`
}

// CategoryBreakdown is one category's share of a type's grand total within
// an optional date range. Percentage is zero when the grand total is zero.
type CategoryBreakdown struct {
	CategoryName string          `db:"category_name" json:"category_name"`
	Color        string          `db:"color" json:"color"`
	Icon         string          `db:"icon" json:"icon"`
	Total        decimal.Decimal `db:"total" json:"total"`
	CategoryID   int64           `db:"category_id" json:"category_id"`
	Percentage   float64         `db:"-" json:"percentage"`
}

// RecentTransaction is a transaction joined with its category's display
// metadata, read from the recent_transactions view so listing screens need
// no follow-up category lookups.
type RecentTransaction struct {
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Type         TransactionType `db:"type" json:"type"`
	Description  *string         `db:"description" json:"description,omitempty"`
	Date         string          `db:"date" json:"date"`
	CategoryName string          `db:"category_name" json:"category_name"`
	Color        string          `db:"category_color" json:"category_color"`
	Icon         string          `db:"category_icon" json:"category_icon"`
	ID           int64           `db:"id" json:"id"`
	UserID       int64           `db:"user_id" json:"user_id"`
}

// CategoryTotal is one row of the category_totals view: a category joined
// with its aggregated transaction sums.
type CategoryTotal struct {
	CategoryName     string          `db:"category_name" json:"category_name"`
	CategoryType     TransactionType `db:"category_type" json:"category_type"`
	Color            string          `db:"color" json:"color"`
	Icon             string          `db:"icon" json:"icon"`
	Total            decimal.Decimal `db:"total" json:"total"`
	UserID           *int64          `db:"user_id" json:"user_id,omitempty"`
	CategoryID       int64           `db:"category_id" json:"category_id"`
	TransactionCount int64           `db:"transaction_count" json:"transaction_count"`
}
