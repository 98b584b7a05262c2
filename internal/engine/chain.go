package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/metrics"
)

// Transcriber is the contract the orchestrator depends on: one call, one
// result, paired with the engine tier that produced it.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (*domain.TranscriptionResult, string, error)
}

// Chain tries engines in a fixed preference order until one succeeds.
// With the placeholder engine last the chain as a whole cannot fail for
// any input that passed pre-flight validation.
type Chain struct {
	engines []Engine
	timeout time.Duration
	logger  *zap.Logger
}

// Ensure Chain implements Transcriber.
var _ Transcriber = (*Chain)(nil)

// NewChain builds a fallback chain. Order is fixed by configuration, not
// dynamic scoring; timeout bounds each individual engine invocation.
func NewChain(timeout time.Duration, logger *zap.Logger, engines ...Engine) *Chain {
	return &Chain{
		engines: engines,
		timeout: timeout,
		logger:  logger,
	}
}

// Transcribe runs the chain. Each engine's progress contribution restarts
// at its own starting point; callers that need monotone overall progress
// clamp on their side.
func (c *Chain) Transcribe(ctx context.Context, audioPath string, opts Options) (*domain.TranscriptionResult, string, error) {
	var lastErr error

	for _, eng := range c.engines {
		if !eng.IsReady() {
			lastErr = notReady(eng.Name())
			c.logFailure(eng.Name(), lastErr)
			metrics.EngineRunsTotal.WithLabelValues(eng.Name(), "unavailable").Inc()
			continue
		}

		result, err := c.runOne(ctx, eng, audioPath, opts)
		if err != nil {
			lastErr = err
			c.logFailure(eng.Name(), err)
			metrics.EngineRunsTotal.WithLabelValues(eng.Name(), "failure").Inc()
			continue
		}

		metrics.EngineRunsTotal.WithLabelValues(eng.Name(), "success").Inc()
		c.logger.Info("Engine produced transcription",
			zap.String("engine", eng.Name()),
			zap.Int("segments", len(result.Segments)),
			zap.Float64("duration", result.Duration),
		)
		return result, eng.Name(), nil
	}

	if lastErr == nil {
		lastErr = errors.New("no transcription engines configured")
	}
	return nil, "", fmt.Errorf("all transcription engines failed: %w", lastErr)
}

// runOne invokes a single engine under the per-call ceiling.
func (c *Chain) runOne(ctx context.Context, eng Engine, audioPath string, opts Options) (*domain.TranscriptionResult, error) {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return eng.Transcribe(runCtx, audioPath, opts)
}

// logFailure records why an engine was skipped, keeping the failure kind
// and stage visible for debugging which step broke.
func (c *Chain) logFailure(engineName string, err error) {
	fields := []zap.Field{
		zap.String("engine", engineName),
		zap.Error(err),
	}
	var engErr *Error
	if errors.As(err, &engErr) {
		fields = append(fields,
			zap.String("kind", string(engErr.Kind)),
			zap.String("stage", engErr.Stage),
		)
	}
	c.logger.Warn("Engine failed, falling back to next", fields...)
}
