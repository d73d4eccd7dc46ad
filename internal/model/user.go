// Package model defines the domain types shared across the application.
package model

import "time"

// User represents a registered account holder. The PIN is never stored;
// only the PBKDF2 hash and its per-user salt are persisted.
type User struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Username  string    `db:"username" json:"username"`
	PinHash   string    `db:"pin_hash" json:"-"`
	Salt      string    `db:"salt" json:"-"`
	ID        int64     `db:"id" json:"id"`
}

// CreateUser carries the fields required to register a new user.
type CreateUser struct {
	Username string
	PinHash  string
	Salt     string
}
