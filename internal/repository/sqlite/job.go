package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/yrb/jobtrack/internal/apperror"
	"github.com/yrb/jobtrack/internal/model"
	"github.com/yrb/jobtrack/internal/repository"
)

// Compile-time check that *JobStore implements repository.JobRepository.
var _ repository.JobRepository = (*JobStore)(nil)

// OWNERSHIP SCOPING AT THE QUERY LEVEL:
// Every statement below that touches an existing job includes
// `created_by = ?` in its WHERE clause. The alternative — fetch by id, then
// compare owners in Go — would behave differently for "no such row" vs
// "row owned by someone else" (different branches, different timings), and
// that difference is exactly what lets an attacker enumerate other users'
// job IDs. With the filter in SQL, both cases are a plain zero-row result.

// Create inserts a new job owned by job.CreatedBy.
func (s *JobStore) Create(ctx context.Context, job *model.Job) error {
	// xid values sort by creation time, which keeps List's ORDER BY stable
	// for rows created in the same timestamp granule.
	job.ID = xid.New().String()

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO jobs (id, company, position, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Company,
		job.Position,
		job.CreatedBy,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating job: %w", err)
	}

	return nil
}

// GetByID retrieves a single job, scoped to its owner.
func (s *JobStore) GetByID(ctx context.Context, userID, jobID string) (*model.Job, error) {
	var job model.Job

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, company, position, created_by, created_at, updated_at
		 FROM jobs
		 WHERE id = ? AND created_by = ?`,
		jobID, userID,
	).Scan(
		&job.ID,
		&job.Company,
		&job.Position,
		&job.CreatedBy,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("job", jobID)
		}
		return nil, fmt.Errorf("sqlite: getting job %s: %w", jobID, err)
	}

	return &job, nil
}

// ListByOwner returns all of userID's jobs, oldest first.
func (s *JobStore) ListByOwner(ctx context.Context, userID string) ([]model.Job, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, company, position, created_by, created_at, updated_at
		 FROM jobs
		 WHERE created_by = ?
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(
			&j.ID, &j.Company, &j.Position, &j.CreatedBy,
			&j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating jobs: %w", err)
	}

	return jobs, nil
}

// Update persists new company/position values for a job the caller owns.
//
// RowsAffected distinguishes "updated" from "no such job for this owner"
// in a single statement — no separate existence check needed, and the
// ownership filter rides in the same WHERE clause as the id.
func (s *JobStore) Update(ctx context.Context, job *model.Job) error {
	job.UpdatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE jobs
		 SET company = ?, position = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		job.Company,
		job.Position,
		job.UpdatedAt,
		job.ID,
		job.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating job %s: %w", job.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of job %s: %w", job.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("job", job.ID)
	}

	return nil
}

// Delete removes a job the caller owns.
func (s *JobStore) Delete(ctx context.Context, userID, jobID string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = ? AND created_by = ?`,
		jobID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting job %s: %w", jobID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of job %s: %w", jobID, err)
	}
	if affected == 0 {
		return apperror.NotFound("job", jobID)
	}

	return nil
}
