package storage

import (
	"context"
	"log/slog"

	"centavo/internal/engine"
	"centavo/internal/model"
)

// CategoryRepository manages categories and enforces the two category
// business rules: editing a default category makes it custom, and a
// category referenced by transactions cannot be deleted.
type CategoryRepository struct {
	base
}

// NewCategoryRepository creates a category repository over the engine.
func NewCategoryRepository(eng *engine.Engine) *CategoryRepository {
	return &CategoryRepository{base: base{eng: eng, table: "categories"}}
}

// Create adds a category and persists before returning.
func (r *CategoryRepository) Create(ctx context.Context, data model.CreateCategory) (*model.Category, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateString(data.Name, "name"); err != nil {
		return nil, err
	}
	if err := validateType(data.Type); err != nil {
		return nil, err
	}
	if err := validateString(data.Color, "color"); err != nil {
		return nil, err
	}
	if err := validateString(data.Icon, "icon"); err != nil {
		return nil, err
	}

	var category model.Category
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		res, err := tx.Run(ctx,
			`INSERT INTO categories (name, type, color, icon, user_id) VALUES (?, ?, ?, ?, ?)`,
			data.Name, data.Type, data.Color, data.Icon, data.UserID)
		if err != nil {
			return err
		}

		found, err := tx.GetFirstRow(ctx, &category, `SELECT * FROM categories WHERE id = ?`, res.LastInsertID)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Entity: "category", ID: res.LastInsertID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("created category", "name", category.Name, "type", category.Type, "id", category.ID)
	return &category, nil
}

// Update edits name, color or icon. Type is immutable. If the category is a
// default one, the same statement clears is_default: a default category
// cannot keep its defaultness once user-edited, and no reader may observe
// the new name with the old flag.
func (r *CategoryRepository) Update(ctx context.Context, id int64, data model.UpdateCategory) (*model.Category, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	var category model.Category
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		found, err := tx.GetFirstRow(ctx, &category, `SELECT * FROM categories WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Entity: "category", ID: id}
		}

		updates := make([]string, 0, 4)
		args := make([]any, 0, 5)
		if data.Name != nil {
			updates = append(updates, "name = ?")
			args = append(args, *data.Name)
		}
		if data.Color != nil {
			updates = append(updates, "color = ?")
			args = append(args, *data.Color)
		}
		if data.Icon != nil {
			updates = append(updates, "icon = ?")
			args = append(args, *data.Icon)
		}
		if category.IsDefault {
			updates = append(updates, "is_default = 0")
		}
		if len(updates) == 0 {
			return nil
		}

		args = append(args, id)
		query := "UPDATE categories SET " + joinUpdates(updates) + " WHERE id = ?"
		if _, err := tx.Run(ctx, query, args...); err != nil {
			return err
		}

		found, err = tx.GetFirstRow(ctx, &category, `SELECT * FROM categories WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Entity: "category", ID: id}
		}
		if category.IsDefault {
			return nil
		}
		slog.Debug("category marked custom on edit", "id", id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete refuses to remove a category that any transaction references,
// failing with CategoryInUseError and leaving the row in place.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := r.init(ctx); err != nil {
		return false, err
	}
	if err := validateID(id); err != nil {
		return false, err
	}

	var deleted bool
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		var count int64
		found, err := tx.GetFirstRow(ctx, &count,
			`SELECT COUNT(*) FROM transactions WHERE category_id = ?`, id)
		if err != nil {
			return err
		}
		if found && count > 0 {
			return &CategoryInUseError{CategoryID: id, TransactionCount: count}
		}

		res, err := tx.Run(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return err
		}
		deleted = res.RowsChanged > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// FindAll returns every category ordered by type then name.
func (r *CategoryRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}

	var categories []model.Category
	if err := r.eng.GetAll(ctx, &categories, `SELECT * FROM categories ORDER BY type, name`); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByID returns the category with the given id, or nil.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	var category model.Category
	found, err := r.eng.GetFirstRow(ctx, &category, `SELECT * FROM categories WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &category, nil
}

// FindByUser returns the categories visible to a user: their own plus the
// shared ones with no owner.
func (r *CategoryRepository) FindByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var categories []model.Category
	err := r.eng.GetAll(ctx, &categories,
		`SELECT * FROM categories WHERE user_id = ? OR user_id IS NULL ORDER BY type, name`, userID)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByType returns a user's visible categories of one type.
func (r *CategoryRepository) FindByType(ctx context.Context, userID int64, t model.TransactionType) ([]model.Category, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateType(t); err != nil {
		return nil, err
	}

	var categories []model.Category
	err := r.eng.GetAll(ctx, &categories,
		`SELECT * FROM categories WHERE type = ? AND (user_id = ? OR user_id IS NULL) ORDER BY name`, t, userID)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindDefaults returns all default categories.
func (r *CategoryRepository) FindDefaults(ctx context.Context) ([]model.Category, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}

	var categories []model.Category
	err := r.eng.GetAll(ctx, &categories,
		`SELECT * FROM categories WHERE is_default = 1 ORDER BY type, name`)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindCustom returns a user's non-default categories.
func (r *CategoryRepository) FindCustom(ctx context.Context, userID int64) ([]model.Category, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var categories []model.Category
	err := r.eng.GetAll(ctx, &categories,
		`SELECT * FROM categories WHERE user_id = ? AND is_default = 0 ORDER BY type, name`, userID)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// SearchByName returns up to 20 categories whose name contains the query.
func (r *CategoryRepository) SearchByName(ctx context.Context, userID int64, query string) ([]model.Category, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateString(query, "query"); err != nil {
		return nil, err
	}

	var categories []model.Category
	err := r.eng.GetAll(ctx, &categories,
		`SELECT * FROM categories
		 WHERE name LIKE ? AND (user_id = ? OR user_id IS NULL)
		 ORDER BY name LIMIT 20`,
		"%"+query+"%", userID)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// IsInUse reports whether any transaction references the category.
func (r *CategoryRepository) IsInUse(ctx context.Context, id int64) (bool, error) {
	if err := r.init(ctx); err != nil {
		return false, err
	}
	if err := validateID(id); err != nil {
		return false, err
	}

	var one int
	return r.eng.GetFirstRow(ctx, &one,
		`SELECT 1 FROM transactions WHERE category_id = ? LIMIT 1`, id)
}

// TransactionCount returns how many transactions reference the category.
func (r *CategoryRepository) TransactionCount(ctx context.Context, id int64) (int64, error) {
	if err := r.init(ctx); err != nil {
		return 0, err
	}
	if err := validateID(id); err != nil {
		return 0, err
	}

	var count int64
	found, err := r.eng.GetFirstRow(ctx, &count,
		`SELECT COUNT(*) FROM transactions WHERE category_id = ?`, id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return count, nil
}

// MarkCustom explicitly clears the default flag on a category.
func (r *CategoryRepository) MarkCustom(ctx context.Context, id int64) (bool, error) {
	if err := r.init(ctx); err != nil {
		return false, err
	}
	if err := validateID(id); err != nil {
		return false, err
	}

	var updated bool
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		res, err := tx.Run(ctx, `UPDATE categories SET is_default = 0 WHERE id = ?`, id)
		if err != nil {
			return err
		}
		updated = res.RowsChanged > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

// WithTotals reads the category_totals view for a user: each visible
// category with its aggregated transaction sums, largest first.
func (r *CategoryRepository) WithTotals(ctx context.Context, userID int64) ([]model.CategoryTotal, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var totals []model.CategoryTotal
	err := r.eng.GetAll(ctx, &totals,
		`SELECT * FROM category_totals WHERE user_id = ? OR user_id IS NULL ORDER BY total DESC`, userID)
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// joinUpdates builds the SET clause from the collected fragments.
func joinUpdates(updates []string) string {
	out := updates[0]
	for _, u := range updates[1:] {
		out += ", " + u
	}
	return out
}
