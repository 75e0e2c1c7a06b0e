package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yrb/jobtrack/internal/apperror"
	"github.com/yrb/jobtrack/internal/model"
	"github.com/yrb/jobtrack/internal/repository"
)

const (
	MaxCompanyLength  = 100
	MaxPositionLength = 200
)

// JobService handles business logic for job records.
//
// Every method takes the caller's verified userID as its first domain
// argument — there is no way to reach a job without saying who's asking,
// and the repository applies that identity inside the query itself.
type JobService struct {
	repo   repository.JobRepository
	logger *slog.Logger
}

// NewJobService creates a JobService.
func NewJobService(repo repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{
		repo:   repo,
		logger: logger,
	}
}

// List returns all of the caller's jobs, oldest first.
func (s *JobService) List(ctx context.Context, userID string) ([]model.Job, error) {
	jobs, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/job: listing jobs for user %s: %w", userID, err)
	}
	return jobs, nil
}

// Get returns one of the caller's jobs. A job owned by someone else is
// reported as not found, same as a job that doesn't exist.
func (s *JobService) Get(ctx context.Context, userID, jobID string) (*model.Job, error) {
	job, err := s.repo.GetByID(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("service/job: getting job %s: %w", jobID, err)
	}
	return job, nil
}

// Create validates and saves a new job owned by userID.
func (s *JobService) Create(ctx context.Context, userID, company, position string) (*model.Job, error) {
	company = strings.TrimSpace(company)
	position = strings.TrimSpace(position)

	if company == "" {
		return nil, apperror.ValidationFailed("company", "company is required")
	}
	if position == "" {
		return nil, apperror.ValidationFailed("position", "position is required")
	}
	if len(company) > MaxCompanyLength {
		return nil, apperror.ValidationFailed("company",
			fmt.Sprintf("company must be %d characters or less", MaxCompanyLength))
	}
	if len(position) > MaxPositionLength {
		return nil, apperror.ValidationFailed("position",
			fmt.Sprintf("position must be %d characters or less", MaxPositionLength))
	}

	job := &model.Job{
		Company:   company,
		Position:  position,
		CreatedBy: userID,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("service/job: creating job: %w", err)
	}

	s.logger.Info("job created",
		slog.String("jobID", job.ID),
		slog.String("userID", userID),
	)

	return job, nil
}

// Update applies a partial update to one of the caller's jobs.
//
// company and position are nil when the field was absent from the request.
// A field that is present but empty is a validation error — and validation
// runs before any store call, so a rejected request leaves the row exactly
// as it was.
func (s *JobService) Update(ctx context.Context, userID, jobID string, company, position *string) (*model.Job, error) {
	// Present fields go through the same checks as Create: non-empty after
	// trimming, and within the length caps.
	if company != nil {
		trimmed := strings.TrimSpace(*company)
		if trimmed == "" {
			return nil, apperror.ValidationFailed("company", "company must not be empty")
		}
		if len(trimmed) > MaxCompanyLength {
			return nil, apperror.ValidationFailed("company",
				fmt.Sprintf("company must be %d characters or less", MaxCompanyLength))
		}
	}
	if position != nil {
		trimmed := strings.TrimSpace(*position)
		if trimmed == "" {
			return nil, apperror.ValidationFailed("position", "position must not be empty")
		}
		if len(trimmed) > MaxPositionLength {
			return nil, apperror.ValidationFailed("position",
				fmt.Sprintf("position must be %d characters or less", MaxPositionLength))
		}
	}

	job, err := s.repo.GetByID(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("service/job: getting job %s for update: %w", jobID, err)
	}

	if company != nil {
		job.Company = strings.TrimSpace(*company)
	}
	if position != nil {
		job.Position = strings.TrimSpace(*position)
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("service/job: updating job %s: %w", jobID, err)
	}

	s.logger.Info("job updated",
		slog.String("jobID", job.ID),
		slog.String("userID", userID),
	)

	return job, nil
}

// Delete removes one of the caller's jobs.
func (s *JobService) Delete(ctx context.Context, userID, jobID string) error {
	if err := s.repo.Delete(ctx, userID, jobID); err != nil {
		return fmt.Errorf("service/job: deleting job %s: %w", jobID, err)
	}

	s.logger.Info("job deleted",
		slog.String("jobID", jobID),
		slog.String("userID", userID),
	)

	return nil
}
