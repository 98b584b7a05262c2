package engine

import (
	"context"
	"math"
	"strings"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
)

// defaultSegmentConfidence replaces a missing per-segment confidence when
// averaging, rather than excluding the segment from the mean.
const defaultSegmentConfidence = 0.9

// Options carries per-run transcription parameters.
type Options struct {
	// Language is a BCP-ish language hint; "auto" or empty means detect.
	Language string

	// Model is the requested whisper model tier.
	Model domain.ModelTier

	// OnProgress, when set, receives monotonically non-decreasing values
	// in [0,100] for this engine's own run.
	OnProgress func(progress int)
}

// Engine is one transcription backend behind the uniform adapter contract.
type Engine interface {
	// Name identifies the engine tier for logs and observability.
	Name() string

	// Init performs the one-time installation/model check. It is bounded
	// by the caller's context and safe to skip for engines with no
	// external dependency.
	Init(ctx context.Context) error

	// IsReady reports whether initialization succeeded. Transcribe must
	// not be invoked on a not-ready engine.
	IsReady() bool

	// Transcribe converts the referenced media file into a transcript.
	Transcribe(ctx context.Context, audioPath string, opts Options) (*domain.TranscriptionResult, error)
}

// progressEmitter forwards progress values, clamping them to [0,100] and
// dropping anything that would move backwards.
type progressEmitter struct {
	cb   func(int)
	last int
}

func newProgressEmitter(cb func(int)) *progressEmitter {
	return &progressEmitter{cb: cb, last: -1}
}

func (p *progressEmitter) emit(value int) {
	if p.cb == nil {
		return
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	if value <= p.last {
		return
	}
	p.last = value
	p.cb(value)
}

// assembleResult builds the uniform result payload from parsed segments.
// Text is the trimmed segment texts joined by single spaces; confidence is
// the mean of segment confidences with missing values defaulted.
func assembleResult(segments []domain.Segment, language string, duration float64) *domain.TranscriptionResult {
	texts := make([]string, 0, len(segments))
	confidenceSum := 0.0
	for i := range segments {
		segments[i].Text = strings.TrimSpace(segments[i].Text)
		texts = append(texts, segments[i].Text)
		if segments[i].Confidence > 0 {
			confidenceSum += segments[i].Confidence
		} else {
			confidenceSum += defaultSegmentConfidence
		}
	}

	confidence := 0.0
	if len(segments) > 0 {
		confidence = confidenceSum / float64(len(segments))
	}

	if duration <= 0 && len(segments) > 0 {
		duration = segments[len(segments)-1].End
	}

	return &domain.TranscriptionResult{
		Text:       strings.Join(texts, " "),
		Segments:   segments,
		Language:   language,
		Duration:   duration,
		Confidence: confidence,
	}
}

// singleSegment synthesizes exactly one segment spanning the full detected
// duration, for engines that produce unsegmented output.
func singleSegment(text string, duration float64) []domain.Segment {
	return []domain.Segment{{
		Start:      0,
		End:        duration,
		Text:       strings.TrimSpace(text),
		Confidence: defaultSegmentConfidence,
	}}
}

// logprobToConfidence converts a whisper avg_logprob to a 0–1 confidence.
func logprobToConfidence(avgLogprob float64) float64 {
	c := math.Exp(avgLogprob)
	if c > 1 {
		return 1
	}
	if c < 0 {
		return 0
	}
	return c
}

// normalizeLanguage maps "auto" and empty language hints to no override.
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return ""
	}
	return lang
}
