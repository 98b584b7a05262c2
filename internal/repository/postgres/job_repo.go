package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/repository"
)

// Ensure pgJobRepo implements repository.JobRepository.
var _ repository.JobRepository = (*pgJobRepo)(nil)

type pgJobRepo struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new PostgreSQL-backed job repository.
func NewJobRepository(pool *pgxpool.Pool) repository.JobRepository {
	return &pgJobRepo{pool: pool}
}

func (r *pgJobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO transcription_jobs (id, file_name, extension, model_tier, status, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, query,
		job.ID, job.FileName, job.Extension, job.ModelTier,
		job.Status, job.Progress, now, now,
	)
	if err != nil {
		return fmt.Errorf("postgres: create job: %w", err)
	}
	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

func (r *pgJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	query := `
		SELECT id, file_name, extension, model_tier, status, progress, engine,
		       text, segments, language, duration, confidence, word_count,
		       error_message, created_at, updated_at, completed_at
		FROM transcription_jobs
		WHERE id = $1`

	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("postgres: get job by id: %w", err)
	}
	return job, nil
}

func (r *pgJobRepo) UpdateProgress(ctx context.Context, id uuid.UUID, status domain.JobStatus, progress int) error {
	query := `UPDATE transcription_jobs SET status = $1, progress = $2, updated_at = $3 WHERE id = $4`
	tag, err := r.pool.Exec(ctx, query, status, progress, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("postgres: update progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *pgJobRepo) SetResult(ctx context.Context, id uuid.UUID, result *domain.TranscriptionResult, engine string) error {
	segments, err := json.Marshal(result.Segments)
	if err != nil {
		return fmt.Errorf("postgres: encode segments: %w", err)
	}

	query := `
		UPDATE transcription_jobs
		SET status = $1, progress = 100, engine = $2, text = $3, segments = $4,
		    language = $5, duration = $6, confidence = $7, word_count = $8,
		    updated_at = $9, completed_at = $9
		WHERE id = $10`

	tag, err := r.pool.Exec(ctx, query,
		domain.StatusCompleted, engine, result.Text, segments,
		result.Language, result.Duration, result.Confidence, result.WordCount(),
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("postgres: set result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *pgJobRepo) SetFailed(ctx context.Context, id uuid.UUID, message string) error {
	query := `UPDATE transcription_jobs SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4`
	tag, err := r.pool.Exec(ctx, query, domain.StatusFailed, message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("postgres: set failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *pgJobRepo) List(ctx context.Context) ([]*domain.Job, error) {
	query := `
		SELECT id, file_name, extension, model_tier, status, progress, engine,
		       text, segments, language, duration, confidence, word_count,
		       error_message, created_at, updated_at, completed_at
		FROM transcription_jobs
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list jobs: %w", err)
	}
	return jobs, nil
}

func (r *pgJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transcription_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// scanJob reads one job row, decoding nullable result columns.
func scanJob(row pgx.Row) (*domain.Job, error) {
	job := &domain.Job{}
	var (
		engine, text, language, errorMessage *string
		segments                             []byte
		duration, confidence                 *float64
		wordCount                            *int
	)

	err := row.Scan(
		&job.ID, &job.FileName, &job.Extension, &job.ModelTier,
		&job.Status, &job.Progress, &engine,
		&text, &segments, &language, &duration, &confidence, &wordCount,
		&errorMessage, &job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if engine != nil {
		job.Engine = *engine
	}
	if text != nil {
		job.Text = *text
	}
	if language != nil {
		job.Language = *language
	}
	if duration != nil {
		job.Duration = *duration
	}
	if confidence != nil {
		job.Confidence = *confidence
	}
	if wordCount != nil {
		job.WordCount = *wordCount
	}
	if errorMessage != nil {
		job.ErrorMessage = *errorMessage
	}
	if len(segments) > 0 {
		if err := json.Unmarshal(segments, &job.Segments); err != nil {
			return nil, fmt.Errorf("decode segments: %w", err)
		}
	}
	return job, nil
}
