// Package common provides shared utilities used across the application.
package common

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrMissingConfig signals a required configuration value is absent.
	ErrMissingConfig = errors.New("missing configuration")
	// ErrInvalidConfig signals a configuration value failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message meant for the terminal alongside the
// underlying cause for logs.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with a message suitable for the terminal.
func NewUserError(userMessage string, err error) error {
	return &UserError{UserMessage: userMessage, Err: err}
}
