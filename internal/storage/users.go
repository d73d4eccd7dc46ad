package storage

import (
	"context"
	"log/slog"

	"centavo/internal/engine"
	"centavo/internal/model"
)

// UserRepository manages account rows. Users are never hard-deleted.
type UserRepository struct {
	base
}

// NewUserRepository creates a user repository over the engine.
func NewUserRepository(eng *engine.Engine) *UserRepository {
	return &UserRepository{base: base{eng: eng, table: "users"}}
}

// Create registers a new user and persists before returning. The stored
// hash and salt come from the credential module; the raw PIN never reaches
// this layer.
func (r *UserRepository) Create(ctx context.Context, data model.CreateUser) (*model.User, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateString(data.Username, "username"); err != nil {
		return nil, err
	}
	if err := validateString(data.PinHash, "pin_hash"); err != nil {
		return nil, err
	}
	if err := validateString(data.Salt, "salt"); err != nil {
		return nil, err
	}

	var user model.User
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		res, err := tx.Run(ctx,
			`INSERT INTO users (username, pin_hash, salt) VALUES (?, ?, ?)`,
			data.Username, data.PinHash, data.Salt)
		if err != nil {
			return err
		}

		found, err := tx.GetFirstRow(ctx, &user, `SELECT * FROM users WHERE id = ?`, res.LastInsertID)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Entity: "user", ID: res.LastInsertID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("created user", "username", user.Username, "id", user.ID)
	return &user, nil
}

// FindAll returns every user.
func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}

	var users []model.User
	if err := r.eng.GetAll(ctx, &users, `SELECT * FROM users ORDER BY id`); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID returns the user with the given id, or nil if none exists.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	var user model.User
	found, err := r.eng.GetFirstRow(ctx, &user, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// FindByUsername returns the user with the given username, or nil.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}

	var user model.User
	found, err := r.eng.GetFirstRow(ctx, &user, `SELECT * FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// ExistsByUsername reports whether the username is already taken.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if err := r.init(ctx); err != nil {
		return false, err
	}
	if err := validateString(username, "username"); err != nil {
		return false, err
	}

	var one int
	return r.eng.GetFirstRow(ctx, &one, `SELECT 1 FROM users WHERE username = ? LIMIT 1`, username)
}

// UpdatePin replaces the stored hash and salt. The only mutation users
// receive after registration.
func (r *UserRepository) UpdatePin(ctx context.Context, userID int64, pinHash, salt string) (bool, error) {
	if err := r.init(ctx); err != nil {
		return false, err
	}
	if err := validateUserID(userID); err != nil {
		return false, err
	}
	if err := validateString(pinHash, "pin_hash"); err != nil {
		return false, err
	}
	if err := validateString(salt, "salt"); err != nil {
		return false, err
	}

	var updated bool
	err := r.eng.Mutate(ctx, func(tx *engine.Tx) error {
		res, err := tx.Run(ctx,
			`UPDATE users SET pin_hash = ?, salt = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			pinHash, salt, userID)
		if err != nil {
			return err
		}
		updated = res.RowsChanged > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	slog.Info("updated user pin", "user_id", userID)
	return updated, nil
}

// FirstUser returns the earliest-created user, or nil. Handy for the
// single-user fast path on the login screen.
func (r *UserRepository) FirstUser(ctx context.Context) (*model.User, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}

	var user model.User
	found, err := r.eng.GetFirstRow(ctx, &user, `SELECT * FROM users ORDER BY id ASC LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// HasUsers reports whether at least one user is registered.
func (r *UserRepository) HasUsers(ctx context.Context) (bool, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
