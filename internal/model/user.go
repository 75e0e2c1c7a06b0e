// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Email is the login key and carries a UNIQUE index in the database — the
// index is what enforces one-account-per-email, not application code.
//
// PasswordHash is the bcrypt output ($2a$10$<salt><digest>), never the
// plaintext. The `json:"-"` tag makes it impossible to leak through any
// handler that serialises a User: encoding/json skips the field entirely.
//
// GitHubID is zero for password accounts and set for accounts created via
// the GitHub sign-in flow, where no password exists (PasswordHash empty).
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	GitHubID     int64     `json:"-"         db:"github_id"`
	AvatarURL    string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
