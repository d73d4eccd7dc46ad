package storage

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/engine"
	"centavo/internal/model"
)

// TransactionRepository manages income and expense entries. Every write
// checks that the entry's type matches its category's type; the schema
// cannot express that constraint across tables, so it lives here.
type TransactionRepository struct {
	base
}

// NewTransactionRepository creates a transaction repository over the engine.
func NewTransactionRepository(eng *engine.Engine) *TransactionRepository {
	return &TransactionRepository{base: base{eng: eng, table: "transactions"}}
}

// checkCategoryType loads the category inside the transaction and rejects
// the write when its type differs from the entry's.
func checkCategoryType(ctx context.Context, tx *engine.Tx, categoryID int64, t model.TransactionType) error {
	var category model.Category
	found, err := tx.GetFirstRow(ctx, &category, `SELECT * FROM categories WHERE id = ?`, categoryID)
	if err != nil {
		return err
	}
	if !found {
		return &NotFoundError{Entity: "category", ID: categoryID}
	}
	if category.Type != t {
		return &CategoryTypeMismatchError{
			TransactionType: string(t),
			CategoryType:    string(category.Type),
			CategoryID:      categoryID,
		}
	}
	return nil
}

// Create adds a transaction and persists before returning.
func (r *TransactionRepository) Create(ctx context.Context, data model.CreateTransaction) (*model.Transaction, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateAmount(data.Amount); err != nil {
		return nil, err
	}
	if err := validateType(data.Type); err != nil {
		return nil, err
	}
	if err := validateDate(data.Date); err != nil {
		return nil, err
	}
	if err := validateID(data.CategoryID); err != nil {
		return nil, err
	}
	if err := validateUserID(data.UserID); err != nil {
		return nil, err
	}

	var transaction model.Transaction
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		if err := checkCategoryType(ctx, tx, data.CategoryID, data.Type); err != nil {
			return err
		}

		res, err := tx.Run(ctx,
			`INSERT INTO transactions (amount, type, category_id, description, date, user_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			data.Amount, data.Type, data.CategoryID, data.Description, data.Date, data.UserID)
		if err != nil {
			return err
		}

		found, err := tx.GetFirstRow(ctx, &transaction, `SELECT * FROM transactions WHERE id = ?`, res.LastInsertID)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Entity: "transaction", ID: res.LastInsertID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("created transaction",
		"type", transaction.Type,
		"amount", transaction.Amount,
		"category_id", transaction.CategoryID,
		"id", transaction.ID)
	return &transaction, nil
}

// Update edits a transaction. Nil fields keep their stored values. The
// category type check runs against the final type/category pair, whichever
// of the two the edit touches.
func (r *TransactionRepository) Update(ctx context.Context, id int64, data model.UpdateTransaction) (*model.Transaction, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	if data.Amount != nil {
		if err := validateAmount(*data.Amount); err != nil {
			return nil, err
		}
	}
	if data.Type != nil {
		if err := validateType(*data.Type); err != nil {
			return nil, err
		}
	}
	if data.Date != nil {
		if err := validateDate(*data.Date); err != nil {
			return nil, err
		}
	}
	if data.CategoryID != nil {
		if err := validateID(*data.CategoryID); err != nil {
			return nil, err
		}
	}

	var transaction model.Transaction
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		found, err := tx.GetFirstRow(ctx, &transaction, `SELECT * FROM transactions WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Entity: "transaction", ID: id}
		}

		finalType := transaction.Type
		if data.Type != nil {
			finalType = *data.Type
		}
		finalCategory := transaction.CategoryID
		if data.CategoryID != nil {
			finalCategory = *data.CategoryID
		}
		if err := checkCategoryType(ctx, tx, finalCategory, finalType); err != nil {
			return err
		}

		updates := make([]string, 0, 6)
		args := make([]any, 0, 7)
		if data.Amount != nil {
			updates = append(updates, "amount = ?")
			args = append(args, *data.Amount)
		}
		if data.Type != nil {
			updates = append(updates, "type = ?")
			args = append(args, *data.Type)
		}
		if data.CategoryID != nil {
			updates = append(updates, "category_id = ?")
			args = append(args, *data.CategoryID)
		}
		if data.Description != nil {
			updates = append(updates, "description = ?")
			args = append(args, *data.Description)
		}
		if data.Date != nil {
			updates = append(updates, "date = ?")
			args = append(args, *data.Date)
		}
		if len(updates) == 0 {
			return nil
		}
		updates = append(updates, "updated_at = CURRENT_TIMESTAMP")

		args = append(args, id)
		query := "UPDATE transactions SET " + joinUpdates(updates) + " WHERE id = ?"
		if _, err := tx.Run(ctx, query, args...); err != nil {
			return err
		}

		found, err = tx.GetFirstRow(ctx, &transaction, `SELECT * FROM transactions WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Entity: "transaction", ID: id}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindByID returns the transaction with the given id, or nil.
func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	var transaction model.Transaction
	found, err := r.eng.GetFirstRow(ctx, &transaction, `SELECT * FROM transactions WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &transaction, nil
}

// FindByUser returns all of a user's transactions, newest first. Ties on
// date break by insertion order, newest insert first.
func (r *TransactionRepository) FindByUser(ctx context.Context, userID int64) ([]model.Transaction, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	err := r.eng.GetAll(ctx, &transactions,
		`SELECT * FROM transactions WHERE user_id = ? ORDER BY date DESC, created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindRecent reads the recent_transactions view: the user's newest entries
// with their category display metadata already joined in.
func (r *TransactionRepository) FindRecent(ctx context.Context, userID int64, limit int) ([]model.RecentTransaction, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	var recent []model.RecentTransaction
	err := r.eng.GetAll(ctx, &recent,
		`SELECT * FROM recent_transactions WHERE user_id = ?
		 ORDER BY date DESC, created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	return recent, nil
}

// FindWithFilters returns a user's transactions narrowed by the non-zero
// filter fields, newest first.
func (r *TransactionRepository) FindWithFilters(ctx context.Context, userID int64, filters model.TransactionFilters) ([]model.Transaction, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`SELECT * FROM transactions WHERE user_id = ?`)
	args := []any{userID}

	if filters.Type != "" {
		if err := validateType(filters.Type); err != nil {
			return nil, err
		}
		sb.WriteString(` AND type = ?`)
		args = append(args, filters.Type)
	}
	if filters.CategoryID > 0 {
		sb.WriteString(` AND category_id = ?`)
		args = append(args, filters.CategoryID)
	}
	if filters.StartDate != "" {
		if err := validateDate(filters.StartDate); err != nil {
			return nil, err
		}
		sb.WriteString(` AND date >= ?`)
		args = append(args, filters.StartDate)
	}
	if filters.EndDate != "" {
		if err := validateDate(filters.EndDate); err != nil {
			return nil, err
		}
		sb.WriteString(` AND date <= ?`)
		args = append(args, filters.EndDate)
	}
	if filters.MinAmount != nil {
		sb.WriteString(` AND amount >= ?`)
		args = append(args, *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		sb.WriteString(` AND amount <= ?`)
		args = append(args, *filters.MaxAmount)
	}
	if filters.Search != "" {
		sb.WriteString(` AND description LIKE ?`)
		args = append(args, "%"+filters.Search+"%")
	}
	sb.WriteString(` ORDER BY date DESC, created_at DESC, id DESC`)

	var transactions []model.Transaction
	if err := r.eng.GetAll(ctx, &transactions, sb.String(), args...); err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByMonth returns a user's transactions for one YYYY-MM month, newest
// first.
func (r *TransactionRepository) FindByMonth(ctx context.Context, userID int64, month string) ([]model.Transaction, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrInvalidDate
	}

	var transactions []model.Transaction
	err := r.eng.GetAll(ctx, &transactions,
		`SELECT * FROM transactions WHERE user_id = ? AND date LIKE ?
		 ORDER BY date DESC, created_at DESC, id DESC`, userID, month+"-%")
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// GetBalanceSummary totals a user's transactions by type. Empty date bounds
// widen the range to everything. No rows is not an error; the zero summary
// comes back instead.
func (r *TransactionRepository) GetBalanceSummary(ctx context.Context, userID int64, startDate, endDate string) (*model.BalanceSummary, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS total_expense,
			COALESCE(SUM(CASE WHEN type = 'income' THEN 1 ELSE 0 END), 0) AS income_count,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN 1 ELSE 0 END), 0) AS expense_count
		 FROM transactions WHERE user_id = ?`)
	args := []any{userID}

	if startDate != "" {
		if err := validateDate(startDate); err != nil {
			return nil, err
		}
		sb.WriteString(` AND date >= ?`)
		args = append(args, startDate)
	}
	if endDate != "" {
		if err := validateDate(endDate); err != nil {
			return nil, err
		}
		sb.WriteString(` AND date <= ?`)
		args = append(args, endDate)
	}

	var summary model.BalanceSummary
	_, err := r.eng.GetFirstRow(ctx, &summary, sb.String(), args...)
	if err != nil {
		return nil, err
	}

	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return &summary, nil
}

// GetMonthlyComparison returns per-month income/expense totals for the
// trailing months window ending at the current month, oldest first. Months
// with no transactions appear with zero totals so charts stay contiguous.
func (r *TransactionRepository) GetMonthlyComparison(ctx context.Context, userID int64, months int) ([]model.MonthlyComparison, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if months <= 0 {
		return nil, ErrInvalidMonths
	}

	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	start := first.Format(model.DateFormat)

	var rows []model.MonthlyComparison
	err := r.eng.GetAll(ctx, &rows,
		`SELECT
			substr(date, 1, 7) AS month,
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS expense
		 FROM transactions
		 WHERE user_id = ? AND date >= ?
		 GROUP BY substr(date, 1, 7)`, userID, start)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]model.MonthlyComparison, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row
	}

	out := make([]model.MonthlyComparison, 0, months)
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		row, ok := byMonth[key]
		if !ok {
			row = model.MonthlyComparison{Month: key}
		}
		row.Balance = row.Income.Sub(row.Expense)
		out = append(out, row)
	}
	return out, nil
}

// GetCategoryBreakdown returns per-category totals for one transaction type,
// largest first, with each category's percentage of the grand total. Empty
// date bounds widen the range to everything.
func (r *TransactionRepository) GetCategoryBreakdown(ctx context.Context, userID int64, t model.TransactionType, startDate, endDate string) ([]model.CategoryBreakdown, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateType(t); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`SELECT
		c.id AS category_id,
		c.name AS category_name,
		c.color,
		c.icon,
		COALESCE(SUM(t.amount), 0) AS total
	 FROM transactions t
	 JOIN categories c ON c.id = t.category_id
	 WHERE t.user_id = ? AND t.type = ?`)
	args := []any{userID, t}

	if startDate != "" {
		if err := validateDate(startDate); err != nil {
			return nil, err
		}
		sb.WriteString(` AND t.date >= ?`)
		args = append(args, startDate)
	}
	if endDate != "" {
		if err := validateDate(endDate); err != nil {
			return nil, err
		}
		sb.WriteString(` AND t.date <= ?`)
		args = append(args, endDate)
	}
	sb.WriteString(` GROUP BY c.id ORDER BY total DESC`)

	var breakdown []model.CategoryBreakdown
	if err := r.eng.GetAll(ctx, &breakdown, sb.String(), args...); err != nil {
		return nil, err
	}

	grand := decimal.Zero
	for _, row := range breakdown {
		grand = grand.Add(row.Total)
	}
	if grand.Sign() > 0 {
		for i := range breakdown {
			breakdown[i].Percentage, _ = breakdown[i].Total.
				Div(grand).Mul(decimal.NewFromInt(100)).Float64()
		}
	}
	return breakdown, nil
}

// TotalByType sums a user's transactions of one type.
func (r *TransactionRepository) TotalByType(ctx context.Context, userID int64, t model.TransactionType) (decimal.Decimal, error) {
	if err := r.init(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateUserID(userID); err != nil {
		return decimal.Zero, err
	}
	if err := validateType(t); err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	found, err := r.eng.GetFirstRow(ctx, &total,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = ? AND type = ?`, userID, t)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, nil
	}
	return total, nil
}

// Delete removes a single transaction, reporting whether it existed.
func (r *TransactionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := r.init(ctx); err != nil {
		return false, err
	}
	if err := validateID(id); err != nil {
		return false, err
	}

	var removed bool
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		res, err := tx.Run(ctx, `DELETE FROM transactions WHERE id = ?`, id)
		if err != nil {
			return err
		}
		removed = res.RowsChanged > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	if removed {
		slog.Info("deleted transaction", "id", id)
	}
	return removed, nil
}

// DeleteByUser removes all of a user's transactions in one persisted unit,
// returning how many were removed.
func (r *TransactionRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	if err := r.init(ctx); err != nil {
		return 0, err
	}
	if err := validateUserID(userID); err != nil {
		return 0, err
	}

	var removed int64
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		res, err := tx.Run(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID)
		if err != nil {
			return err
		}
		removed = res.RowsChanged
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("deleted user transactions", "user_id", userID, "count", removed)
	return removed, nil
}
