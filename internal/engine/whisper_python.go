package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/media"
)

const whisperPythonName = "whisper-python"

// percentMarker matches the progress percentages whisper prints while
// decoding. Emission from the engine is best-effort; unparsed lines are
// simply ignored.
var percentMarker = regexp.MustCompile(`(\d{1,3})%`)

// WhisperPython runs OpenAI Whisper through the Python CLI
// (python -m whisper) with JSON output. It is the first-class engine.
type WhisperPython struct {
	pythonBin  string
	runner     media.StreamRunner
	normalizer *media.Normalizer
	logger     *zap.Logger
	ready      atomic.Bool
	mkdirTemp  func(dir, pattern string) (string, error)
	removeAll  func(path string) error
	readFile   func(name string) ([]byte, error)
}

// NewWhisperPython constructs the Python whisper engine.
func NewWhisperPython(pythonBin string, runner media.StreamRunner, normalizer *media.Normalizer, logger *zap.Logger) *WhisperPython {
	return &WhisperPython{
		pythonBin:  pythonBin,
		runner:     runner,
		normalizer: normalizer,
		logger:     logger,
		mkdirTemp:  os.MkdirTemp,
		removeAll:  os.RemoveAll,
		readFile:   os.ReadFile,
	}
}

// Name identifies the engine tier.
func (w *WhisperPython) Name() string { return whisperPythonName }

// Init verifies the whisper package is importable. The caller bounds the
// check with a context deadline.
func (w *WhisperPython) Init(ctx context.Context) error {
	result, err := w.runner.Run(ctx, w.pythonBin, "-c", `import whisper; print("ok")`)
	if err != nil {
		w.ready.Store(false)
		return fmt.Errorf("whisper import check failed (exit=%d): %w: %s",
			result.ExitCode, err, strings.TrimSpace(result.Stderr))
	}
	w.ready.Store(true)
	return nil
}

// IsReady reports whether the installation check succeeded.
func (w *WhisperPython) IsReady() bool { return w.ready.Load() }

// Transcribe normalizes the input, invokes the whisper CLI with JSON
// output, and parses the result.
func (w *WhisperPython) Transcribe(ctx context.Context, audioPath string, opts Options) (*domain.TranscriptionResult, error) {
	if !w.IsReady() {
		return nil, notReady(whisperPythonName)
	}

	progress := newProgressEmitter(opts.OnProgress)
	progress.emit(5)

	wavPath, cleanupWav, err := w.normalizer.ToWav(ctx, audioPath)
	if err != nil {
		return nil, &Error{
			Kind:    KindExecution,
			Engine:  whisperPythonName,
			Stage:   "normalization",
			Message: err.Error(),
			Err:     err,
		}
	}
	defer cleanupWav()
	progress.emit(20)

	outputDir, err := w.mkdirTemp("", "whisper-json-*")
	if err != nil {
		return nil, &Error{
			Kind:    KindExecution,
			Engine:  whisperPythonName,
			Stage:   "invocation",
			Message: "failed to create output workspace: " + err.Error(),
			Err:     err,
		}
	}
	defer func() {
		if err := w.removeAll(outputDir); err != nil {
			w.logger.Warn("Failed to remove whisper output workspace",
				zap.String("dir", outputDir), zap.Error(err))
		}
	}()

	args := buildWhisperPythonArgs(wavPath, outputDir, opts)
	progress.emit(30)

	result, runErr := w.runner.RunStream(ctx, func(line string) {
		w.handleLine(line, progress)
	}, w.pythonBin, args...)
	if runErr != nil {
		return nil, &Error{
			Kind:    KindExecution,
			Engine:  whisperPythonName,
			Stage:   "invocation",
			Message: fmt.Sprintf("whisper process failed (exit=%d): %s", result.ExitCode, tail(result.Stdout)),
			Err:     runErr,
		}
	}
	progress.emit(90)

	jsonPath := filepath.Join(outputDir, strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))+".json")
	payload, err := w.readFile(jsonPath)
	if err != nil {
		return nil, &Error{
			Kind:    KindNoOutput,
			Engine:  whisperPythonName,
			Stage:   "result parsing",
			Message: "whisper JSON output not found at " + jsonPath,
			Err:     err,
		}
	}

	transcription, err := parseWhisperJSON(payload, media.EstimateDuration(wavPath))
	if err != nil {
		return nil, &Error{
			Kind:    KindNoOutput,
			Engine:  whisperPythonName,
			Stage:   "result parsing",
			Message: err.Error(),
			Err:     err,
		}
	}

	progress.emit(100)
	return transcription, nil
}

// handleLine maps whisper's textual progress markers to the adapter scale.
func (w *WhisperPython) handleLine(line string, progress *progressEmitter) {
	if strings.Contains(line, "Detecting language") {
		progress.emit(35)
		return
	}
	m := percentMarker.FindStringSubmatch(line)
	if m == nil {
		return
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil || pct > 100 {
		return
	}
	// Decoding covers the 40–90 window of this adapter's run.
	progress.emit(40 + pct/2)
}

// buildWhisperPythonArgs builds CLI args for JSON transcript export.
func buildWhisperPythonArgs(wavPath, outputDir string, opts Options) []string {
	args := []string{
		"-m", "whisper",
		wavPath,
		"--model", string(opts.Model),
		"--output_format", "json",
		"--output_dir", outputDir,
		"--verbose", "False",
	}
	if lang := normalizeLanguage(opts.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

// whisperJSON mirrors the whisper CLI's JSON output shape.
type whisperJSON struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
		// Pointer so an absent field is distinguishable from a logprob
		// of exactly zero (confidence 1.0).
		AvgLogprob *float64 `json:"avg_logprob"`
	} `json:"segments"`
}

// parseWhisperJSON converts whisper CLI output into the uniform result.
func parseWhisperJSON(payload []byte, estimatedDuration float64) (*domain.TranscriptionResult, error) {
	var parsed whisperJSON
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("parse whisper JSON output: %w", err)
	}

	var segments []domain.Segment
	for _, s := range parsed.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		confidence := defaultSegmentConfidence
		if s.AvgLogprob != nil {
			confidence = logprobToConfidence(*s.AvgLogprob)
		}
		segments = append(segments, domain.Segment{
			Start:      s.Start,
			End:        s.End,
			Text:       text,
			Confidence: confidence,
		})
	}

	duration := estimatedDuration
	if len(segments) == 0 {
		text := strings.TrimSpace(parsed.Text)
		if text == "" {
			return nil, fmt.Errorf("whisper output contains no usable text")
		}
		segments = singleSegment(text, estimatedDuration)
	} else if end := segments[len(segments)-1].End; end > 0 {
		// Segment timestamps beat the file-size heuristic.
		duration = end
	}

	language := parsed.Language
	if language == "" {
		language = "en"
	}
	return assembleResult(segments, language, duration), nil
}

// tail returns the last portion of command output for error messages.
func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 300 {
		return s
	}
	return "..." + s[len(s)-300:]
}
