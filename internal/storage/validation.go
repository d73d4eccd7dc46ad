// Package storage provides the typed repository layer over the embedded
// database engine. Repositories are stateless façades: they hold nothing
// but the engine handle, and every mutation goes through the engine's
// persisting unit of work.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrInvalidType    = errors.New("type must be income or expense")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrInvalidDate    = errors.New("date must use the YYYY-MM-DD layout")
	ErrNothingToSeed  = errors.New("no default categories configured")
	ErrInvalidMonths  = errors.New("months must be positive")
	ErrInvalidLimit   = errors.New("limit must be positive")
	ErrInvalidUserID  = errors.New("user id must be positive")
	ErrInvalidEntryID = errors.New("id must be positive")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures an entity id is positive.
func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidEntryID, id)
	}
	return nil
}

// validateUserID ensures a user id is positive.
func validateUserID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidUserID, id)
	}
	return nil
}

// validateType ensures the transaction type is one of the known values.
func validateType(t model.TransactionType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidType, t)
	}
	return nil
}

// validateAmount ensures the amount is strictly positive.
func validateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	return nil
}

// validateDate ensures the date is a bare calendar date.
func validateDate(date string) error {
	if _, err := time.Parse(model.DateFormat, date); err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidDate, date)
	}
	return nil
}
