package storage

import (
	"context"
	"fmt"

	"centavo/internal/engine"
)

// base carries the operations shared by every repository: count, existence
// and deletion by id, plus the lazy-initialization discipline — every call
// makes sure the engine is up before touching it.
type base struct {
	eng   *engine.Engine
	table string
}

// init brings the engine up if this is the first touch. Memoized inside the
// engine, so the cost after the first call is a single atomic load.
func (b *base) init(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return b.eng.Initialize(ctx)
}

// Count returns the total number of rows in the repository's table.
func (b *base) Count(ctx context.Context) (int64, error) {
	if err := b.init(ctx); err != nil {
		return 0, err
	}

	var count int64
	found, err := b.eng.GetFirstRow(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", b.table))
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return count, nil
}

// Exists reports whether a row with the given id exists.
func (b *base) Exists(ctx context.Context, id int64) (bool, error) {
	if err := b.init(ctx); err != nil {
		return false, err
	}
	if err := validateID(id); err != nil {
		return false, err
	}

	var one int
	return b.eng.GetFirstRow(ctx, &one, fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? LIMIT 1", b.table), id)
}

// Delete removes the row with the given id and persists. It reports whether
// a row was actually removed.
func (b *base) Delete(ctx context.Context, id int64) (bool, error) {
	if err := b.init(ctx); err != nil {
		return false, err
	}
	if err := validateID(id); err != nil {
		return false, err
	}

	var deleted bool
	err := b.eng.Mutate(ctx, func(tx *engine.Tx) error {
		res, err := tx.Run(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", b.table), id)
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
