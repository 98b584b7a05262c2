package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
)

// scriptedEngine is a test double implementing the adapter contract.
type scriptedEngine struct {
	name     string
	ready    bool
	err      error
	result   *domain.TranscriptionResult
	progress []int
	calls    int
}

func (s *scriptedEngine) Name() string                 { return s.name }
func (s *scriptedEngine) Init(ctx context.Context) error { return nil }
func (s *scriptedEngine) IsReady() bool                { return s.ready }

func (s *scriptedEngine) Transcribe(ctx context.Context, audioPath string, opts Options) (*domain.TranscriptionResult, error) {
	s.calls++
	for _, p := range s.progress {
		if opts.OnProgress != nil {
			opts.OnProgress(p)
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func okResult() *domain.TranscriptionResult {
	return &domain.TranscriptionResult{
		Text:       "ok",
		Segments:   []domain.Segment{{Start: 0, End: 1, Text: "ok", Confidence: 0.9}},
		Language:   "en",
		Duration:   1,
		Confidence: 0.9,
	}
}

func TestChainFirstEngineWins(t *testing.T) {
	first := &scriptedEngine{name: "first", ready: true, result: okResult()}
	second := &scriptedEngine{name: "second", ready: true, result: okResult()}
	chain := NewChain(time.Minute, zap.NewNop(), first, second)

	result, engineName, err := chain.Transcribe(context.Background(), "a.wav", Options{})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if engineName != "first" {
		t.Errorf("engine = %q, want first", engineName)
	}
	if result.Text != "ok" {
		t.Errorf("text = %q", result.Text)
	}
	if second.calls != 0 {
		t.Error("second engine must not run when the first succeeds")
	}
}

func TestChainSkipsNotReady(t *testing.T) {
	down := &scriptedEngine{name: "down", ready: false}
	up := &scriptedEngine{name: "up", ready: true, result: okResult()}
	chain := NewChain(time.Minute, zap.NewNop(), down, up)

	_, engineName, err := chain.Transcribe(context.Background(), "a.wav", Options{})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if engineName != "up" {
		t.Errorf("engine = %q, want up", engineName)
	}
	if down.calls != 0 {
		t.Error("transcribe must never be invoked on a not-ready engine")
	}
}

func TestChainFallsBackOnFailure(t *testing.T) {
	failing := &scriptedEngine{name: "failing", ready: true, err: &Error{
		Kind: KindExecution, Engine: "failing", Stage: "invocation", Message: "boom",
	}}
	backup := &scriptedEngine{name: "backup", ready: true, result: okResult()}
	chain := NewChain(time.Minute, zap.NewNop(), failing, backup)

	_, engineName, err := chain.Transcribe(context.Background(), "a.wav", Options{})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if engineName != "backup" {
		t.Errorf("engine = %q, want backup", engineName)
	}
	if failing.calls != 1 {
		t.Errorf("failing engine called %d times, want 1", failing.calls)
	}
}

func TestChainAllFail(t *testing.T) {
	a := &scriptedEngine{name: "a", ready: true, err: errors.New("a broke")}
	b := &scriptedEngine{name: "b", ready: false}
	chain := NewChain(time.Minute, zap.NewNop(), a, b)

	_, _, err := chain.Transcribe(context.Background(), "a.wav", Options{})
	if err == nil {
		t.Fatal("expected error when every engine fails")
	}
	// The wrapped error is the last failure in chain order.
	var engErr *Error
	if !errors.As(err, &engErr) || engErr.Kind != KindUnavailable {
		t.Errorf("expected last failure (not-ready) to be wrapped, got %v", err)
	}
}

func TestChainEmptyEngines(t *testing.T) {
	chain := NewChain(time.Minute, zap.NewNop())
	_, _, err := chain.Transcribe(context.Background(), "a.wav", Options{})
	if err == nil {
		t.Fatal("expected error for empty chain")
	}
}

func TestChainProgressRestartsPerEngine(t *testing.T) {
	// The first engine reports partial progress then dies; the chain hands
	// the same callback to the next engine, which starts low again. The
	// chain does not smooth this; monotonicity is the caller's problem.
	failing := &scriptedEngine{name: "failing", ready: true, progress: []int{5, 60}, err: errors.New("boom")}
	backup := &scriptedEngine{name: "backup", ready: true, progress: []int{10, 100}, result: okResult()}
	chain := NewChain(time.Minute, zap.NewNop(), failing, backup)

	var seen []int
	_, _, err := chain.Transcribe(context.Background(), "a.wav", Options{
		OnProgress: func(p int) { seen = append(seen, p) },
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}

	want := []int{5, 60, 10, 100}
	if len(seen) != len(want) {
		t.Fatalf("progress %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("progress %v, want %v", seen, want)
		}
	}
}
