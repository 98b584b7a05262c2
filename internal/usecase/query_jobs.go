package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/repository"
)

// GetJobStatusUsecase returns the small polling projection of a job.
type GetJobStatusUsecase struct {
	repo   repository.JobRepository
	logger *zap.Logger
}

// NewGetJobStatusUsecase creates a new GetJobStatusUsecase.
func NewGetJobStatusUsecase(repo repository.JobRepository, logger *zap.Logger) *GetJobStatusUsecase {
	return &GetJobStatusUsecase{repo: repo, logger: logger}
}

// Execute retrieves the status projection for a job.
func (uc *GetJobStatusUsecase) Execute(ctx context.Context, id uuid.UUID) (*domain.StatusView, error) {
	job, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Debug("Job not found", zap.String("job_id", id.String()), zap.Error(err))
		return nil, domain.ErrJobNotFound
	}
	return job.ToStatusView(), nil
}

// GetJobResultUsecase returns the full job record including the result
// payload, once the job has completed.
type GetJobResultUsecase struct {
	repo   repository.JobRepository
	logger *zap.Logger
}

// NewGetJobResultUsecase creates a new GetJobResultUsecase.
func NewGetJobResultUsecase(repo repository.JobRepository, logger *zap.Logger) *GetJobResultUsecase {
	return &GetJobResultUsecase{repo: repo, logger: logger}
}

// Execute retrieves the full record. Before completion there is no partial
// result to expose, so the job is reported as not ready.
func (uc *GetJobResultUsecase) Execute(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}
	if job.Status != domain.StatusCompleted {
		return nil, domain.ErrResultNotReady
	}
	return job, nil
}

// ListJobsUsecase returns summaries of all jobs for history browsing.
type ListJobsUsecase struct {
	repo   repository.JobRepository
	logger *zap.Logger
}

// NewListJobsUsecase creates a new ListJobsUsecase.
func NewListJobsUsecase(repo repository.JobRepository, logger *zap.Logger) *ListJobsUsecase {
	return &ListJobsUsecase{repo: repo, logger: logger}
}

// Execute lists all jobs ordered by creation time descending, projected to
// summary fields.
func (uc *ListJobsUsecase) Execute(ctx context.Context) ([]*domain.Summary, error) {
	jobs, err := uc.repo.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list jobs", zap.Error(err))
		return nil, err
	}
	summaries := make([]*domain.Summary, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, job.ToSummary())
	}
	return summaries, nil
}

// DeleteJobUsecase removes a job permanently.
type DeleteJobUsecase struct {
	repo   repository.JobRepository
	logger *zap.Logger
}

// NewDeleteJobUsecase creates a new DeleteJobUsecase.
func NewDeleteJobUsecase(repo repository.JobRepository, logger *zap.Logger) *DeleteJobUsecase {
	return &DeleteJobUsecase{repo: repo, logger: logger}
}

// Execute deletes the job. Deleting an unknown identifier is an error, not
// a no-op, to surface caller mistakes.
func (uc *DeleteJobUsecase) Execute(ctx context.Context, id uuid.UUID) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Debug("Delete failed", zap.String("job_id", id.String()), zap.Error(err))
		return err
	}
	uc.logger.Info("Job deleted", zap.String("job_id", id.String()))
	return nil
}
