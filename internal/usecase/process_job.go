package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/engine"
	"github.com/joen-ao/Transcriptor-app/internal/metrics"
	"github.com/joen-ao/Transcriptor-app/internal/repository"
)

// Progress checkpoints of the processing state machine. The engine chain's
// own 0–100 is remapped into the window between chainStart and 100.
const (
	progressStarted    = 10
	progressChainStart = 30
)

// ProcessJobUsecase drives one job through validation, the engine fallback
// chain, and result persistence. It is the sole writer of a job's mutable
// fields.
type ProcessJobUsecase struct {
	repo        repository.JobRepository
	chain       engine.Transcriber
	logger      *zap.Logger
	inflight    *inflightTracker
	uploadDir   string
	language    string
	maxFileSize int64
}

// NewProcessJobUsecase creates a new ProcessJobUsecase. uploadDir marks the
// transient intake location whose files are removed after terminal states.
func NewProcessJobUsecase(
	repo repository.JobRepository,
	chain engine.Transcriber,
	uploadDir string,
	defaultLanguage string,
	logger *zap.Logger,
) *ProcessJobUsecase {
	return &ProcessJobUsecase{
		repo:        repo,
		chain:       chain,
		logger:      logger,
		inflight:    newInflightTracker(),
		uploadDir:   uploadDir,
		language:    defaultLanguage,
		maxFileSize: domain.MaxFileSizeBytes,
	}
}

// Launch claims the in-flight slot for the job and starts processing on a
// background goroutine, detached from the submitting request's context.
func (uc *ProcessJobUsecase) Launch(job *domain.Job, filePath string) error {
	if !uc.inflight.acquire(job.ID) {
		return domain.ErrJobAlreadyProcessing
	}

	metrics.JobsInflight.Inc()
	go func() {
		defer metrics.JobsInflight.Dec()
		defer uc.inflight.release(job.ID)
		uc.process(context.Background(), job, filePath)
	}()
	return nil
}

// IsProcessing reports whether a processing task is in flight for id,
// without touching the store.
func (uc *ProcessJobUsecase) IsProcessing(id uuid.UUID) bool {
	return uc.inflight.contains(id)
}

// process runs the state machine for one job. Every failure is translated
// into a FAILED transition; nothing propagates past this boundary.
func (uc *ProcessJobUsecase) process(ctx context.Context, job *domain.Job, filePath string) {
	start := time.Now()
	defer uc.cleanupSource(filePath)

	if err := uc.repo.UpdateProgress(ctx, job.ID, domain.StatusProcessing, progressStarted); err != nil {
		uc.fail(ctx, job.ID, fmt.Sprintf("failed to start processing: %v", err))
		return
	}

	if err := uc.validate(filePath); err != nil {
		uc.logger.Info("Job rejected by pre-flight validation",
			zap.String("job_id", job.ID.String()),
			zap.String("reason", err.Error()),
		)
		uc.fail(ctx, job.ID, err.Error())
		return
	}

	if err := uc.repo.UpdateProgress(ctx, job.ID, domain.StatusProcessing, progressChainStart); err != nil {
		uc.fail(ctx, job.ID, fmt.Sprintf("failed to record progress: %v", err))
		return
	}

	// The chain restarts each adapter's progress from its starting point
	// on fallback; the clamp below keeps the stored value monotone.
	lastProgress := progressChainStart
	onProgress := func(chainProgress int) {
		overall := progressChainStart + chainProgress*(100-progressChainStart)/100
		if overall <= lastProgress || overall >= 100 {
			return
		}
		lastProgress = overall
		if err := uc.repo.UpdateProgress(ctx, job.ID, domain.StatusProcessing, overall); err != nil {
			uc.logger.Warn("Failed to persist progress update",
				zap.String("job_id", job.ID.String()),
				zap.Int("progress", overall),
				zap.Error(err),
			)
		}
	}

	result, engineName, err := uc.chain.Transcribe(ctx, filePath, engine.Options{
		Language:   uc.language,
		Model:      job.ModelTier,
		OnProgress: onProgress,
	})
	if err != nil {
		uc.fail(ctx, job.ID, err.Error())
		return
	}

	if err := uc.repo.SetResult(ctx, job.ID, result, engineName); err != nil {
		// Known risk window: the transcription finished but the final
		// COMPLETED write did not land. Losing it silently is not
		// acceptable, so log loudly before recording the failure.
		uc.logger.Error("Failed to persist completed transcription, result may be lost",
			zap.String("job_id", job.ID.String()),
			zap.String("engine", engineName),
			zap.Int("text_length", len(result.Text)),
			zap.Error(err),
		)
		uc.fail(ctx, job.ID, fmt.Sprintf("failed to persist result: %v", err))
		return
	}

	metrics.JobsTotal.WithLabelValues(string(domain.StatusCompleted)).Inc()
	metrics.JobDuration.Observe(time.Since(start).Seconds())

	uc.logger.Info("Job completed",
		zap.String("job_id", job.ID.String()),
		zap.String("engine", engineName),
		zap.Float64("duration", result.Duration),
		zap.Int("segments", len(result.Segments)),
	)
}

// validate performs the pre-flight checks: existence, size ceiling, and
// extension whitelist. Failures are terminal and skip all engine work.
func (uc *ProcessJobUsecase) validate(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return domain.ErrFileNotFound
	}
	if info.Size() > uc.maxFileSize {
		return domain.ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filePath))
	if !domain.SupportedExtensions[ext] {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
	return nil
}

// fail records the FAILED transition. Progress stays at its last written
// value.
func (uc *ProcessJobUsecase) fail(ctx context.Context, id uuid.UUID, message string) {
	if err := uc.repo.SetFailed(ctx, id, message); err != nil {
		uc.logger.Error("Failed to record job failure",
			zap.String("job_id", id.String()),
			zap.String("failure", message),
			zap.Error(err),
		)
		return
	}
	metrics.JobsTotal.WithLabelValues(string(domain.StatusFailed)).Inc()
}

// cleanupSource removes the intake file after a terminal state when it
// lives in the transient upload directory. Best effort only; a cleanup
// error never blocks a state transition.
func (uc *ProcessJobUsecase) cleanupSource(filePath string) {
	if uc.uploadDir == "" {
		return
	}
	dir, err := filepath.Abs(uc.uploadDir)
	if err != nil {
		return
	}
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return
	}
	if !strings.HasPrefix(abs, dir+string(filepath.Separator)) {
		return
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		uc.logger.Warn("Failed to remove intake file",
			zap.String("path", abs),
			zap.Error(err),
		)
	}
}
