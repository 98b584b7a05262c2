package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/repository"
)

// SubmitJobUsecase accepts a validated file reference, persists a PENDING
// job, and hands it to the processor without blocking the caller.
type SubmitJobUsecase struct {
	repo      repository.JobRepository
	processor *ProcessJobUsecase
	logger    *zap.Logger
}

// NewSubmitJobUsecase creates a new SubmitJobUsecase.
func NewSubmitJobUsecase(repo repository.JobRepository, processor *ProcessJobUsecase, logger *zap.Logger) *SubmitJobUsecase {
	return &SubmitJobUsecase{
		repo:      repo,
		processor: processor,
		logger:    logger,
	}
}

// Execute creates the job record and starts asynchronous processing,
// returning the job identifier synchronously.
func (uc *SubmitJobUsecase) Execute(ctx context.Context, req *domain.SubmitRequest) (*domain.SubmitResponse, error) {
	tier := req.ModelTier
	if tier == "" {
		tier = domain.DefaultModelTier
	}
	if !tier.IsValid() {
		return nil, domain.ErrInvalidModelTier
	}

	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		fileName = filepath.Base(req.FilePath)
	}

	// UUIDv7 keeps identifiers time-ordered.
	jobID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate job id: %w", err)
	}

	job := &domain.Job{
		ID:        jobID,
		FileName:  fileName,
		Extension: strings.ToLower(filepath.Ext(req.FilePath)),
		ModelTier: tier,
		Status:    domain.StatusPending,
		Progress:  0,
	}

	if err := uc.repo.Create(ctx, job); err != nil {
		uc.logger.Error("Failed to create job record",
			zap.String("job_id", jobID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create job: %w", err)
	}

	if err := uc.processor.Launch(job, req.FilePath); err != nil {
		// Unreachable with freshly minted identifiers; surfaced anyway so
		// a caller mistake does not vanish.
		return nil, err
	}

	uc.logger.Info("Job submitted",
		zap.String("job_id", jobID.String()),
		zap.String("file_name", fileName),
		zap.String("model_tier", string(tier)),
	)

	return &domain.SubmitResponse{
		JobID:  jobID,
		Status: domain.StatusPending,
	}, nil
}
