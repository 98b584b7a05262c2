package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a transcription job.
type JobStatus string

const (
	StatusPending    JobStatus = "PENDING"
	StatusProcessing JobStatus = "PROCESSING"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusFailed     JobStatus = "FAILED"
)

// IsTerminal returns true if the status represents a final state.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo enforces the one-directional job state machine:
// PENDING -> PROCESSING -> {COMPLETED, FAILED}.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusProcessing || next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// ModelTier represents a requested transcription model size.
type ModelTier string

const (
	ModelTiny   ModelTier = "tiny"
	ModelBase   ModelTier = "base"
	ModelSmall  ModelTier = "small"
	ModelMedium ModelTier = "medium"
	ModelLarge  ModelTier = "large"
)

// DefaultModelTier is used when a submission does not request a tier.
const DefaultModelTier = ModelBase

// IsValid checks if the model tier is supported.
func (m ModelTier) IsValid() bool {
	switch m {
	case ModelTiny, ModelBase, ModelSmall, ModelMedium, ModelLarge:
		return true
	}
	return false
}

// Segment is one timestamped slice of transcript text.
type Segment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// TranscriptionResult is the payload produced by an engine for one job.
type TranscriptionResult struct {
	Text       string    `json:"text"`
	Segments   []Segment `json:"segments"`
	Language   string    `json:"language"`
	Duration   float64   `json:"duration"`
	Confidence float64   `json:"confidence"`
}

// WordCount counts whitespace-separated words in the transcript text.
func (r *TranscriptionResult) WordCount() int {
	count := 0
	inWord := false
	for _, c := range r.Text {
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}

// Job represents a transcription request throughout its lifecycle.
// Result fields (Text, Segments, Language, Duration, Confidence) are set
// only on COMPLETED jobs; ErrorMessage only on FAILED jobs.
type Job struct {
	ID           uuid.UUID  `json:"id"`
	FileName     string     `json:"file_name"`
	Extension    string     `json:"extension"`
	ModelTier    ModelTier  `json:"model_tier"`
	Status       JobStatus  `json:"status"`
	Progress     int        `json:"progress"`
	Engine       string     `json:"engine,omitempty"`
	Text         string     `json:"text,omitempty"`
	Segments     []Segment  `json:"segments,omitempty"`
	Language     string     `json:"language,omitempty"`
	Duration     float64    `json:"duration,omitempty"`
	Confidence   float64    `json:"confidence,omitempty"`
	WordCount    int        `json:"word_count,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// StatusView is the polling projection of a job. It never carries the
// result payload so status responses stay small.
type StatusView struct {
	ID           uuid.UUID  `json:"id"`
	FileName     string     `json:"file_name"`
	Status       JobStatus  `json:"status"`
	Progress     int        `json:"progress"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// ToStatusView projects a job to its polling view.
func (j *Job) ToStatusView() *StatusView {
	return &StatusView{
		ID:           j.ID,
		FileName:     j.FileName,
		Status:       j.Status,
		Progress:     j.Progress,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		CompletedAt:  j.CompletedAt,
		ErrorMessage: j.ErrorMessage,
	}
}

// Summary is the history-list projection of a job.
type Summary struct {
	ID          uuid.UUID  `json:"id"`
	FileName    string     `json:"file_name"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	WordCount   int        `json:"word_count,omitempty"`
	Duration    float64    `json:"duration,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ToSummary projects a job to its list view.
func (j *Job) ToSummary() *Summary {
	return &Summary{
		ID:          j.ID,
		FileName:    j.FileName,
		Status:      j.Status,
		Progress:    j.Progress,
		WordCount:   j.WordCount,
		Duration:    j.Duration,
		CreatedAt:   j.CreatedAt,
		CompletedAt: j.CompletedAt,
	}
}

// SubmitRequest is an incoming transcription submission from the intake surface.
type SubmitRequest struct {
	FilePath  string    `json:"file_path"`
	FileName  string    `json:"file_name"`
	ModelTier ModelTier `json:"model_tier"`
}

// SubmitResponse is returned after a successful submission.
type SubmitResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status JobStatus `json:"status"`
}
