// Package engine owns the single in-process SQLite instance backing the
// application. The database lives entirely in memory; durability comes from
// serializing the whole image to a blob store after every logical mutation
// and restoring it on the next startup.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"centavo/internal/blobstore"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var errNotInitialized = errors.New("engine not initialized")

// Result reports the outcome of a mutating statement.
type Result struct {
	LastInsertID int64
	RowsChanged  int64
}

// Engine is the process-wide handle to the in-memory database. Create once,
// live for the process lifetime. All access is serialized through an
// internal mutex: SQLite gets no concurrent writers.
type Engine struct {
	store    blobstore.Store
	db       *sqlx.DB
	name     string
	initErr  error
	initOnce sync.Once
	mu       sync.Mutex
}

// New returns an engine persisting under the given database name. No I/O
// happens until Initialize.
func New(store blobstore.Store, name string) *Engine {
	return &Engine{store: store, name: name}
}

// Initialize opens the in-memory database, restores a previously persisted
// image if one exists, and bootstraps the schema otherwise. It is idempotent
// and safe to call concurrently: all callers share one underlying bootstrap,
// so the schema is created exactly once per process lifetime.
func (e *Engine) Initialize(ctx context.Context) error {
	e.initOnce.Do(func() {
		e.initErr = e.initialize(ctx)
	})
	return e.initErr
}

func (e *Engine) initialize(ctx context.Context) error {
	db, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return &InitializationError{Err: fmt.Errorf("failed to open database: %w", err)}
	}

	// A single connection keeps the :memory: database alive and makes the
	// engine the only writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return &InitializationError{Err: fmt.Errorf("failed to ping database: %w", err)}
	}

	image, err := e.store.Load(e.name)
	if err != nil {
		_ = db.Close()
		return &InitializationError{Err: fmt.Errorf("failed to load persisted image: %w", err)}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.db = db

	if err := e.bootstrapLocked(ctx); err != nil {
		_ = db.Close()
		e.db = nil
		return &InitializationError{Err: err}
	}

	if image != nil {
		if err := e.restoreLocked(ctx, image); err != nil {
			_ = db.Close()
			e.db = nil
			return &InitializationError{Err: err}
		}
		slog.Info("restored database image", "name", e.name, "bytes", len(image))
	} else {
		slog.Info("created fresh database", "name", e.name)
	}

	return nil
}

// Run executes a mutating statement. Prefer Mutate for anything that should
// survive a reload: Run alone does not persist.
func (e *Engine) Run(ctx context.Context, query string, args ...any) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return Result{}, &InitializationError{Err: errNotInitialized}
	}

	res, err := e.db.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, &EngineError{Err: err}
	}
	return resultOf(res)
}

// GetAll runs a read query and scans every row into dest, which must be a
// pointer to a slice of structs.
func (e *Engine) GetAll(ctx context.Context, dest any, query string, args ...any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return &InitializationError{Err: errNotInitialized}
	}
	if err := e.db.SelectContext(ctx, dest, query, args...); err != nil {
		return &EngineError{Err: err}
	}
	return nil
}

// GetFirstRow runs a read query expected to return at most one row. It
// reports found=false on an empty result instead of an error.
func (e *Engine) GetFirstRow(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return false, &InitializationError{Err: errNotInitialized}
	}
	err := e.db.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &EngineError{Err: err}
	}
	return true, nil
}

// Mutate is the unit of work every repository mutation goes through: fn runs
// inside a SQL transaction, and a successful commit is followed by a full
// image save before Mutate returns. Write-through is structural, not caller
// discipline.
func (e *Engine) Mutate(ctx context.Context, fn func(tx *Tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return &InitializationError{Err: errNotInitialized}
	}

	sqlTx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return &EngineError{Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			slog.Error("failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return &EngineError{Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}

	return e.saveLocked(ctx)
}

// Save serializes the whole database and writes it to the blob store,
// replacing the previous image.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return &InitializationError{Err: errNotInitialized}
	}
	return e.saveLocked(ctx)
}

// Export returns the raw serialized image for user-initiated backup.
func (e *Engine) Export(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil, &InitializationError{Err: errNotInitialized}
	}
	return e.snapshotLocked(ctx)
}

// Reset destroys all tables and data, re-runs the schema bootstrap, and
// persists the empty state. Irreversible; callers must confirm first.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return &InitializationError{Err: errNotInitialized}
	}

	for _, view := range viewNames {
		if _, err := e.db.ExecContext(ctx, "DROP VIEW IF EXISTS "+view); err != nil {
			return &EngineError{Err: fmt.Errorf("failed to drop view %s: %w", view, err)}
		}
	}
	for i := len(tableNames) - 1; i >= 0; i-- {
		if _, err := e.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+tableNames[i]); err != nil {
			return &EngineError{Err: fmt.Errorf("failed to drop table %s: %w", tableNames[i], err)}
		}
	}
	if err := e.bootstrapLocked(ctx); err != nil {
		return &EngineError{Err: err}
	}

	slog.Warn("database reset", "name", e.name)
	return e.saveLocked(ctx)
}

// Close releases the database handle. The persisted image is untouched.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}

func (e *Engine) bootstrapLocked(ctx context.Context) error {
	for _, stmt := range bootstrapStatements {
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute bootstrap statement: %w", err)
		}
	}
	return nil
}

// saveLocked snapshots the database and writes the image through the blob
// store. Callers hold e.mu.
func (e *Engine) saveLocked(ctx context.Context) error {
	image, err := e.snapshotLocked(ctx)
	if err != nil {
		return err
	}
	if err := e.store.Save(e.name, image); err != nil {
		return &PersistenceError{Err: err}
	}
	slog.Debug("persisted database image", "name", e.name, "bytes", len(image))
	return nil
}

// snapshotLocked serializes the current database content to a byte buffer
// using VACUUM INTO a scratch file. Callers hold e.mu.
func (e *Engine) snapshotLocked(ctx context.Context) ([]byte, error) {
	scratch := filepath.Join(os.TempDir(), "centavo-"+uuid.NewString()+".db")
	defer func() {
		if err := os.Remove(scratch); err != nil && !os.IsNotExist(err) {
			slog.Debug("failed to remove scratch file", "error", err, "path", scratch)
		}
	}()

	if _, err := e.db.ExecContext(ctx, "VACUUM INTO ?", scratch); err != nil {
		return nil, &EngineError{Err: fmt.Errorf("failed to serialize database: %w", err)}
	}

	image, err := os.ReadFile(scratch)
	if err != nil {
		return nil, &PersistenceError{Err: fmt.Errorf("failed to read serialized image: %w", err)}
	}
	return image, nil
}

// restoreLocked copies every table out of a persisted image into the
// freshly bootstrapped in-memory database. Callers hold e.mu.
func (e *Engine) restoreLocked(ctx context.Context, image []byte) error {
	scratch := filepath.Join(os.TempDir(), "centavo-"+uuid.NewString()+".db")
	if err := os.WriteFile(scratch, image, 0600); err != nil {
		return fmt.Errorf("failed to write restore scratch file: %w", err)
	}
	defer func() {
		if err := os.Remove(scratch); err != nil {
			slog.Debug("failed to remove scratch file", "error", err, "path", scratch)
		}
	}()

	if _, err := e.db.ExecContext(ctx, "ATTACH DATABASE ? AS restore", scratch); err != nil {
		return fmt.Errorf("failed to attach persisted image: %w", err)
	}

	// Parents before children so foreign keys hold during the copy.
	for _, table := range tableNames {
		stmt := fmt.Sprintf("INSERT INTO main.%s SELECT * FROM restore.%s", table, table)
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			_, _ = e.db.ExecContext(ctx, "DETACH DATABASE restore")
			return fmt.Errorf("failed to restore table %s: %w", table, err)
		}
	}

	if _, err := e.db.ExecContext(ctx, "DETACH DATABASE restore"); err != nil {
		return fmt.Errorf("failed to detach persisted image: %w", err)
	}
	return nil
}

func resultOf(res sql.Result) (Result, error) {
	lastID, err := res.LastInsertId()
	if err != nil {
		return Result{}, &EngineError{Err: fmt.Errorf("failed to get last insert id: %w", err)}
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return Result{}, &EngineError{Err: fmt.Errorf("failed to get rows affected: %w", err)}
	}
	return Result{LastInsertID: lastID, RowsChanged: changed}, nil
}
