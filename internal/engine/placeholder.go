package engine

import (
	"context"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/media"
)

const (
	// PlaceholderName is the engine tier recorded when no real engine
	// produced the result, so consumers can flag it.
	PlaceholderName = "placeholder"

	// placeholderConfidence is deliberately low so a placeholder result
	// is distinguishable from a real transcription.
	placeholderConfidence = 0.5
)

// Placeholder is the deterministic last-resort engine. It has no external
// dependency, is always ready, and never fails: a job that passed
// validation still reaches COMPLETED even when every real engine is down.
type Placeholder struct{}

// NewPlaceholder constructs the placeholder engine.
func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

// Name identifies the engine tier.
func (p *Placeholder) Name() string { return PlaceholderName }

// Init is a no-op; the placeholder has nothing to check.
func (p *Placeholder) Init(ctx context.Context) error { return nil }

// IsReady always reports true.
func (p *Placeholder) IsReady() bool { return true }

// Transcribe produces a deterministic, clearly-labeled placeholder
// transcript spanning the estimated media duration.
func (p *Placeholder) Transcribe(ctx context.Context, audioPath string, opts Options) (*domain.TranscriptionResult, error) {
	progress := newProgressEmitter(opts.OnProgress)
	progress.emit(50)

	duration := media.EstimateDuration(audioPath)
	half := duration / 2

	segments := []domain.Segment{
		{
			Start:      0,
			End:        half,
			Text:       "No transcription engine was available for this file.",
			Confidence: placeholderConfidence,
		},
		{
			Start:      half,
			End:        duration,
			Text:       "This is a placeholder transcript; install Whisper to get real results.",
			Confidence: placeholderConfidence,
		},
	}

	progress.emit(100)
	return assembleResult(segments, "en", duration), nil
}
