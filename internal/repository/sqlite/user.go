package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/yrb/jobtrack/internal/apperror"
	"github.com/yrb/jobtrack/internal/model"
	"github.com/yrb/jobtrack/internal/repository"
)

// Compile-time check that *UserStore implements repository.UserRepository.
var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts a new user, assigning an xid and timestamps.
//
// Email uniqueness is enforced by the UNIQUE index, not by a lookup first —
// the INSERT itself is the atomic check, so two concurrent registrations
// with the same email can't both succeed. The driver's constraint error is
// translated into the domain's conflict error here; the service layer never
// sees SQLite error strings.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return apperror.Conflict("an account with that email already exists")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email. Returns apperror.ErrNotFound if no
// account uses that email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, `email = ?`, email)
}

// GetByID retrieves a user by internal ID.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, `id = ?`, id)
}

func (s *UserStore) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	var email sql.NullString
	var githubID sql.NullInt64

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, github_id, avatar_url, created_at, updated_at
		 FROM users WHERE `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Name,
		&email,
		&u.PasswordHash,
		&githubID,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	u.Email = email.String
	u.GitHubID = githubID.Int64
	return &u, nil
}

// UpsertGitHub inserts or updates an account keyed by GitHub ID.
//
// First sign-in → INSERT; later sign-ins → UPDATE of the profile fields in
// case they changed on GitHub. The existing internal ID is kept across
// updates so issued tokens stay valid.
//
// GitHub users can hide their email, in which case the profile arrives with
// an empty string. That is stored as NULL, not '' — the UNIQUE index treats
// every '' as the same value and would lock out the second hidden-email
// account, while NULLs never collide.
func (s *UserStore) UpsertGitHub(ctx context.Context, user *model.User) error {
	var existingID string
	err := s.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID != "" {
		user.ID = existingID
		user.UpdatedAt = time.Now()
		_, err = s.conn.ExecContext(ctx,
			`UPDATE users SET name = ?, email = ?, avatar_url = ?, updated_at = ?
			 WHERE id = ?`,
			user.Name,
			nullIfEmpty(user.Email),
			user.AvatarURL,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			if isUniqueViolation(err, "users.email") {
				return apperror.Conflict("an account with that email already exists")
			}
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, github_id, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		nullIfEmpty(user.Email),
		user.GitHubID,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return apperror.Conflict("an account with that email already exists")
		}
		return fmt.Errorf("sqlite: inserting user (githubID=%d): %w", user.GitHubID, err)
	}

	return nil
}

// nullIfEmpty maps "" to NULL for nullable text columns.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column. The modernc driver exposes constraint errors only
// through the message text ("UNIQUE constraint failed: users.email"), so we
// match on that.
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
