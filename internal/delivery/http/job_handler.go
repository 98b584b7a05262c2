package http

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/usecase"
)

// JobHandler handles HTTP requests for transcription jobs.
type JobHandler struct {
	submitUC  *usecase.SubmitJobUsecase
	statusUC  *usecase.GetJobStatusUsecase
	resultUC  *usecase.GetJobResultUsecase
	listUC    *usecase.ListJobsUsecase
	deleteUC  *usecase.DeleteJobUsecase
	uploadDir string
	logger    *zap.Logger
}

// NewJobHandler creates a new JobHandler. Uploaded files are staged in
// uploadDir until the pipeline finishes with them.
func NewJobHandler(
	submitUC *usecase.SubmitJobUsecase,
	statusUC *usecase.GetJobStatusUsecase,
	resultUC *usecase.GetJobResultUsecase,
	listUC *usecase.ListJobsUsecase,
	deleteUC *usecase.DeleteJobUsecase,
	uploadDir string,
	logger *zap.Logger,
) *JobHandler {
	return &JobHandler{
		submitUC:  submitUC,
		statusUC:  statusUC,
		resultUC:  resultUC,
		listUC:    listUC,
		deleteUC:  deleteUC,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Submit handles POST /api/v1/jobs. The multipart "file" part carries the
// media; the optional "model" field selects the model tier.
func (h *JobHandler) Submit(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Stage the upload under a fresh name; the original filename only
	// survives as job metadata.
	stageID, err := uuid.NewV7()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	stagedPath := filepath.Join(h.uploadDir, stageID.String()+ext)

	if err := c.SaveUploadedFile(fileHeader, stagedPath); err != nil {
		h.logger.Error("Failed to stage uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}

	req := &domain.SubmitRequest{
		FilePath:  stagedPath,
		FileName:  fileHeader.Filename,
		ModelTier: domain.ModelTier(c.PostForm("model")),
	}

	resp, err := h.submitUC.Execute(c.Request.Context(), req)
	if err != nil {
		// No job record owns the staged file on this path, so it has to
		// go now or it leaks.
		if rmErr := os.Remove(stagedPath); rmErr != nil && !os.IsNotExist(rmErr) {
			h.logger.Warn("Failed to remove staged upload after rejected submission",
				zap.String("path", stagedPath), zap.Error(rmErr))
		}
		switch {
		case errors.Is(err, domain.ErrInvalidModelTier):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Submit job failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// GetStatus handles GET /api/v1/jobs/:id/status
func (h *JobHandler) GetStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	status, err := h.statusUC.Execute(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		h.logger.Error("Get status failed", zap.Error(err), zap.String("job_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetResult handles GET /api/v1/jobs/:id/result. Until the job completes
// there is no partial result to serve, so it answers 404.
func (h *JobHandler) GetResult(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	job, err := h.resultUC.Execute(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) || errors.Is(err, domain.ErrResultNotReady) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transcription result not found"})
			return
		}
		h.logger.Error("Get result failed", zap.Error(err), zap.String("job_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// List handles GET /api/v1/jobs
func (h *JobHandler) List(c *gin.Context) {
	summaries, err := h.listUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Error("List jobs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Delete handles DELETE /api/v1/jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		h.logger.Error("Delete job failed", zap.Error(err), zap.String("job_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// parseID extracts and validates the job id path parameter.
func (h *JobHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return uuid.UUID{}, false
	}
	return id, true
}
