package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
)

// JobRepository defines the interface for job persistence operations.
// Implementations must be safe for concurrent use and must serialize
// writes per job identifier so interleaved writers cannot lose updates.
type JobRepository interface {
	// Create inserts a new job into the data store.
	Create(ctx context.Context, job *domain.Job) error

	// GetByID retrieves a job by its UUID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)

	// UpdateProgress atomically updates the status and progress of a job.
	UpdateProgress(ctx context.Context, id uuid.UUID, status domain.JobStatus, progress int) error

	// SetResult stores the transcription result, marks the job COMPLETED
	// with progress 100, and stamps completedAt.
	SetResult(ctx context.Context, id uuid.UUID, result *domain.TranscriptionResult, engine string) error

	// SetFailed marks the job FAILED with a human-readable error message.
	// Progress is left at its last written value.
	SetFailed(ctx context.Context, id uuid.UUID, message string) error

	// List returns all jobs ordered by creation time descending.
	List(ctx context.Context) ([]*domain.Job, error)

	// Delete removes a job permanently. Deleting an unknown id returns
	// domain.ErrJobNotFound rather than succeeding silently.
	Delete(ctx context.Context, id uuid.UUID) error
}
