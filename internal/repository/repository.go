// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/yrb/jobtrack/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user. The repository assigns ID and timestamps.
	// A duplicate email surfaces as apperror.ErrConflict.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail returns the user with the given email, or
	// apperror.ErrNotFound. Used by the login flow.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID returns the user with the given internal ID, or
	// apperror.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// UpsertGitHub inserts or updates an account keyed by GitHub ID,
	// populating ID and timestamps on the passed struct.
	UpsertGitHub(ctx context.Context, user *model.User) error
}

// JobRepository persists job records with ownership scoping.
//
// Every read/update/delete takes the owner's userID and applies it in the
// query itself (WHERE created_by = ?), not as a post-fetch check. A wrong
// owner and a missing row are therefore the same outcome — ErrNotFound —
// with no timing or error-shape difference to leak existence.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, userID, jobID string) (*model.Job, error)
	ListByOwner(ctx context.Context, userID string) ([]model.Job, error)
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, userID, jobID string) error
}
