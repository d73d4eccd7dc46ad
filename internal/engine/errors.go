package engine

import "fmt"

// InitializationError reports that the engine runtime failed to load or
// bootstrap. It is fatal to the whole data layer: callers should render a
// blocking error state instead of retrying queries.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("engine initialization failed: %v", e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// EngineError reports a single failed statement (malformed SQL, constraint
// violation). Recoverable: the caller should surface it and allow a retry of
// that one action.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("statement failed: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a durable-store read or write failure. Distinct
// from EngineError because the in-memory mutation may have already
// succeeded even though durability failed.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist database image: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
