package storage

import (
	"context"
	"log/slog"

	"centavo/internal/engine"
	"centavo/internal/model"
)

// DefaultCategory is one entry of the starter catalog seeded for every new
// user.
type DefaultCategory struct {
	Name  string
	Type  model.TransactionType
	Color string
	Icon  string
}

// DefaultIncomeCategories is the starter income catalog.
var DefaultIncomeCategories = []DefaultCategory{
	{Name: "Salary", Type: model.TypeIncome, Color: "#10B981", Icon: "Briefcase"},
	{Name: "Freelance", Type: model.TypeIncome, Color: "#06B6D4", Icon: "Monitor"},
	{Name: "Investments", Type: model.TypeIncome, Color: "#8B5CF6", Icon: "TrendingUp"},
	{Name: "Business", Type: model.TypeIncome, Color: "#F59E0B", Icon: "Building2"},
	{Name: "Gifts", Type: model.TypeIncome, Color: "#EC4899", Icon: "Gift"},
	{Name: "Other Income", Type: model.TypeIncome, Color: "#6B7280", Icon: "Wallet"},
}

// DefaultExpenseCategories is the starter expense catalog.
var DefaultExpenseCategories = []DefaultCategory{
	{Name: "Food", Type: model.TypeExpense, Color: "#EF4444", Icon: "Utensils"},
	{Name: "Transport", Type: model.TypeExpense, Color: "#F59E0B", Icon: "Car"},
	{Name: "Housing", Type: model.TypeExpense, Color: "#3B82F6", Icon: "Home"},
	{Name: "Utilities", Type: model.TypeExpense, Color: "#8B5CF6", Icon: "Lightbulb"},
	{Name: "Health", Type: model.TypeExpense, Color: "#EC4899", Icon: "Heart"},
	{Name: "Education", Type: model.TypeExpense, Color: "#06B6D4", Icon: "Book"},
	{Name: "Entertainment", Type: model.TypeExpense, Color: "#F43F5E", Icon: "Gamepad2"},
	{Name: "Shopping", Type: model.TypeExpense, Color: "#A855F7", Icon: "ShoppingCart"},
	{Name: "Gym", Type: model.TypeExpense, Color: "#10B981", Icon: "Dumbbell"},
	{Name: "Subscriptions", Type: model.TypeExpense, Color: "#6366F1", Icon: "Smartphone"},
	{Name: "Pets", Type: model.TypeExpense, Color: "#F97316", Icon: "Dog"},
	{Name: "Clothing", Type: model.TypeExpense, Color: "#EC4899", Icon: "Shirt"},
	{Name: "Gifts", Type: model.TypeExpense, Color: "#14B8A6", Icon: "Gift"},
	{Name: "Travel", Type: model.TypeExpense, Color: "#0EA5E9", Icon: "Plane"},
	{Name: "Other Expenses", Type: model.TypeExpense, Color: "#6B7280", Icon: "Package"},
}

// SeedDefaultCategories inserts the starter catalog for a new user in one
// persisted unit. All rows carry is_default so a later edit can demote them
// to custom.
func (r *CategoryRepository) SeedDefaultCategories(ctx context.Context, userID int64) (int64, error) {
	if err := r.init(ctx); err != nil {
		return 0, err
	}
	if err := validateUserID(userID); err != nil {
		return 0, err
	}

	catalog := make([]DefaultCategory, 0, len(DefaultIncomeCategories)+len(DefaultExpenseCategories))
	catalog = append(catalog, DefaultIncomeCategories...)
	catalog = append(catalog, DefaultExpenseCategories...)
	if len(catalog) == 0 {
		return 0, ErrNothingToSeed
	}

	var seeded int64
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		for _, c := range catalog {
			_, err := tx.Run(ctx,
				`INSERT INTO categories (name, type, color, icon, is_default, user_id)
				 VALUES (?, ?, ?, ?, 1, ?)`,
				c.Name, c.Type, c.Color, c.Icon, userID)
			if err != nil {
				return err
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("seeded default categories", "user_id", userID, "count", seeded)
	return seeded, nil
}
