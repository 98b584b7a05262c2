package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/repository"
)

// Ensure JobRepository implements repository.JobRepository.
var _ repository.JobRepository = (*JobRepository)(nil)

// JobRepository is the embedded in-process job store. It is the default
// driver for desktop use, where no external database is available. A single
// mutex serializes all writes, which also serializes writes per job.
type JobRepository struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*domain.Job
	now  func() time.Time
}

// NewJobRepository creates an empty in-memory store.
func NewJobRepository() *JobRepository {
	return &JobRepository{
		jobs: make(map[uuid.UUID]*domain.Job),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	job.CreatedAt = now
	job.UpdatedAt = now

	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (r *JobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, status domain.JobStatus, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}
	job.Status = status
	job.Progress = progress
	job.UpdatedAt = r.now()
	return nil
}

func (r *JobRepository) SetResult(ctx context.Context, id uuid.UUID, result *domain.TranscriptionResult, engine string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}

	now := r.now()
	job.Status = domain.StatusCompleted
	job.Progress = 100
	job.Engine = engine
	job.Text = result.Text
	job.Segments = append([]domain.Segment(nil), result.Segments...)
	job.Language = result.Language
	job.Duration = result.Duration
	job.Confidence = result.Confidence
	job.WordCount = result.WordCount()
	job.UpdatedAt = now
	job.CompletedAt = &now
	return nil
}

func (r *JobRepository) SetFailed(ctx context.Context, id uuid.UUID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}
	job.Status = domain.StatusFailed
	job.ErrorMessage = message
	job.UpdatedAt = r.now()
	return nil
}

func (r *JobRepository) List(ctx context.Context) ([]*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]*domain.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, cloneJob(job))
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			// UUIDv7 ids are time-ordered, break ties deterministically.
			return jobs[i].ID.String() > jobs[j].ID.String()
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

// cloneJob returns a deep copy so readers never share mutable state with
// the store.
func cloneJob(job *domain.Job) *domain.Job {
	clone := *job
	if job.Segments != nil {
		clone.Segments = append([]domain.Segment(nil), job.Segments...)
	}
	if job.CompletedAt != nil {
		completed := *job.CompletedAt
		clone.CompletedAt = &completed
	}
	return &clone
}
