package engine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Tx is the statement surface available inside a Mutate unit of work. It
// mirrors the engine's Run/GetAll/GetFirstRow contract but executes against
// the open SQL transaction, so a chained write-then-read observes the write.
type Tx struct {
	tx *sqlx.Tx
}

// Run executes a mutating statement within the unit of work.
func (t *Tx) Run(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, &EngineError{Err: err}
	}
	return resultOf(res)
}

// GetAll scans every row of a read query into dest.
func (t *Tx) GetAll(ctx context.Context, dest any, query string, args ...any) error {
	if err := t.tx.SelectContext(ctx, dest, query, args...); err != nil {
		return &EngineError{Err: err}
	}
	return nil
}

// GetFirstRow scans the first row into dest, reporting found=false on an
// empty result.
func (t *Tx) GetFirstRow(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	err := t.tx.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &EngineError{Err: err}
	}
	return true, nil
}
