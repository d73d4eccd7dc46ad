package storage

import "fmt"

// NotFoundError reports a lookup by id that returned nothing where the
// caller expected an entity.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// CategoryInUseError refuses deletion of a category referenced by at least
// one transaction. Distinguished from generic statement failures so the UI
// can explain exactly why the delete was blocked.
type CategoryInUseError struct {
	CategoryID       int64
	TransactionCount int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %d is referenced by %d transaction(s) and cannot be deleted",
		e.CategoryID, e.TransactionCount)
}

// CategoryTypeMismatchError refuses a transaction whose type differs from
// its category's type.
type CategoryTypeMismatchError struct {
	TransactionType string
	CategoryType    string
	CategoryID      int64
}

func (e *CategoryTypeMismatchError) Error() string {
	return fmt.Sprintf("transaction type %q does not match category %d type %q",
		e.TransactionType, e.CategoryID, e.CategoryType)
}
