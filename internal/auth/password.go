// Package auth provides the security primitives for the API: bcrypt password
// hashing, HS256 identity tokens, the bearer-token middleware, and the
// optional GitHub sign-in provider.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor for new hashes.
//
// WHY BCRYPT?
// bcrypt is deliberately slow, and the slowness is the point: it makes
// offline brute-force expensive. It also generates a fresh random salt per
// call and embeds salt + cost in the output string, so Verify needs no
// side-channel parameters — the stored hash is self-describing:
//
//	$2a$10$<22-char salt><31-char digest>
//
// Cost 10 (2^10 rounds) is a few tens of milliseconds on current hardware —
// negligible per login, brutal at cracking scale.
const defaultCost = 10

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct rather than free functions so the cost can be injected:
// tests use the bcrypt minimum (4) to avoid paying the full work factor on
// every assertion.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom cost.
// Intended for tests (cost 4). Do not use low costs in production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The salt comes from crypto/rand inside bcrypt.GenerateFromPassword; if the
// random source fails, the error propagates — there is no weak-salt fallback.
//
// Passwords over 72 bytes are rejected explicitly because bcrypt would
// silently truncate them.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
//
// Returns nil on match. A wrong password, a malformed hash, and an empty
// hash (GitHub-only accounts have no password) all return a non-nil error —
// never a panic. bcrypt compares digests in constant time internally.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
