package mock

import (
	"context"

	"github.com/google/uuid"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/repository"
	"github.com/joen-ao/Transcriptor-app/internal/repository/memory"
)

// Ensure JobRepository implements repository.JobRepository.
var _ repository.JobRepository = (*JobRepository)(nil)

// JobRepository is an in-memory mock of the job repository for testing.
// It behaves like the memory store unless a hook function is set.
type JobRepository struct {
	store *memory.JobRepository

	// Hook functions for injecting errors
	CreateFunc         func(ctx context.Context, job *domain.Job) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	UpdateProgressFunc func(ctx context.Context, id uuid.UUID, status domain.JobStatus, progress int) error
	SetResultFunc      func(ctx context.Context, id uuid.UUID, result *domain.TranscriptionResult, engine string) error
	SetFailedFunc      func(ctx context.Context, id uuid.UUID, message string) error
	ListFunc           func(ctx context.Context) ([]*domain.Job, error)
	DeleteFunc         func(ctx context.Context, id uuid.UUID) error
}

// NewJobRepository creates a new mock repository.
func NewJobRepository() *JobRepository {
	return &JobRepository{store: memory.NewJobRepository()}
}

func (m *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, job)
	}
	return m.store.Create(ctx, job)
}

func (m *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return m.store.GetByID(ctx, id)
}

func (m *JobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, status domain.JobStatus, progress int) error {
	if m.UpdateProgressFunc != nil {
		return m.UpdateProgressFunc(ctx, id, status, progress)
	}
	return m.store.UpdateProgress(ctx, id, status, progress)
}

func (m *JobRepository) SetResult(ctx context.Context, id uuid.UUID, result *domain.TranscriptionResult, engine string) error {
	if m.SetResultFunc != nil {
		return m.SetResultFunc(ctx, id, result, engine)
	}
	return m.store.SetResult(ctx, id, result, engine)
}

func (m *JobRepository) SetFailed(ctx context.Context, id uuid.UUID, message string) error {
	if m.SetFailedFunc != nil {
		return m.SetFailedFunc(ctx, id, message)
	}
	return m.store.SetFailed(ctx, id, message)
}

func (m *JobRepository) List(ctx context.Context) ([]*domain.Job, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return m.store.List(ctx)
}

func (m *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return m.store.Delete(ctx, id)
}
