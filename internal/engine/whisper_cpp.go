package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/media"
)

const whisperCPPName = "whisper-cpp"

// WhisperCPP runs the whisper.cpp CLI with plain-text output. It is the
// lighter-weight second engine in the chain.
type WhisperCPP struct {
	binPath    string
	modelDir   string
	runner     media.Runner
	normalizer *media.Normalizer
	logger     *zap.Logger
	ready      atomic.Bool
	lookPath   func(file string) (string, error)
	stat       func(name string) (os.FileInfo, error)
	readDir    func(name string) ([]os.DirEntry, error)
	mkdirTemp  func(dir, pattern string) (string, error)
	removeAll  func(path string) error
	readFile   func(name string) ([]byte, error)
}

// NewWhisperCPP constructs the whisper.cpp engine.
func NewWhisperCPP(binPath, modelDir string, runner media.Runner, normalizer *media.Normalizer, logger *zap.Logger) *WhisperCPP {
	return &WhisperCPP{
		binPath:    binPath,
		modelDir:   modelDir,
		runner:     runner,
		normalizer: normalizer,
		logger:     logger,
		lookPath:   exec.LookPath,
		stat:       os.Stat,
		readDir:    os.ReadDir,
		mkdirTemp:  os.MkdirTemp,
		removeAll:  os.RemoveAll,
		readFile:   os.ReadFile,
	}
}

// Name identifies the engine tier.
func (w *WhisperCPP) Name() string { return whisperCPPName }

// Init checks the binary is reachable and at least one model is present.
func (w *WhisperCPP) Init(ctx context.Context) error {
	if _, err := w.lookPath(w.binPath); err != nil {
		w.ready.Store(false)
		return fmt.Errorf("whisper.cpp binary not found: %s: %w", w.binPath, err)
	}
	if _, err := w.resolveModel(domain.DefaultModelTier); err != nil {
		w.ready.Store(false)
		return err
	}
	w.ready.Store(true)
	return nil
}

// IsReady reports whether the installation check succeeded.
func (w *WhisperCPP) IsReady() bool { return w.ready.Load() }

// Transcribe normalizes the input and runs whisper.cpp with txt export.
// whisper.cpp's plain-text output carries no timestamps, so the transcript
// becomes a single synthesized segment spanning the detected duration.
func (w *WhisperCPP) Transcribe(ctx context.Context, audioPath string, opts Options) (*domain.TranscriptionResult, error) {
	if !w.IsReady() {
		return nil, notReady(whisperCPPName)
	}

	progress := newProgressEmitter(opts.OnProgress)
	progress.emit(5)

	modelPath, err := w.resolveModel(opts.Model)
	if err != nil {
		return nil, &Error{
			Kind:    KindUnavailable,
			Engine:  whisperCPPName,
			Message: err.Error(),
			Err:     err,
		}
	}

	wavPath, cleanupWav, err := w.normalizer.ToWav(ctx, audioPath)
	if err != nil {
		return nil, &Error{
			Kind:    KindExecution,
			Engine:  whisperCPPName,
			Stage:   "normalization",
			Message: err.Error(),
			Err:     err,
		}
	}
	defer cleanupWav()
	progress.emit(20)

	outputDir, err := w.mkdirTemp("", "whisper-cpp-*")
	if err != nil {
		return nil, &Error{
			Kind:    KindExecution,
			Engine:  whisperCPPName,
			Stage:   "invocation",
			Message: "failed to create output workspace: " + err.Error(),
			Err:     err,
		}
	}
	defer func() {
		if err := w.removeAll(outputDir); err != nil {
			w.logger.Warn("Failed to remove whisper.cpp output workspace",
				zap.String("dir", outputDir), zap.Error(err))
		}
	}()

	textBase := filepath.Join(outputDir, "transcript")
	args := buildWhisperCPPArgs(modelPath, wavPath, textBase, opts.Language)
	progress.emit(40)

	result, runErr := w.runner.Run(ctx, w.binPath, args...)
	if runErr != nil {
		return nil, &Error{
			Kind:    KindExecution,
			Engine:  whisperCPPName,
			Stage:   "invocation",
			Message: fmt.Sprintf("whisper.cpp failed (exit=%d): %s", result.ExitCode, tail(result.Stderr)),
			Err:     runErr,
		}
	}
	progress.emit(90)

	content, err := w.readFile(textBase + ".txt")
	if err != nil {
		return nil, &Error{
			Kind:    KindNoOutput,
			Engine:  whisperCPPName,
			Stage:   "result parsing",
			Message: "whisper.cpp completed but transcript .txt file is missing",
			Err:     err,
		}
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil, &Error{
			Kind:    KindNoOutput,
			Engine:  whisperCPPName,
			Stage:   "result parsing",
			Message: "whisper.cpp produced an empty transcript",
		}
	}

	duration := media.EstimateDuration(wavPath)
	language := normalizeLanguage(opts.Language)
	if language == "" {
		language = "en"
	}

	progress.emit(100)
	return assembleResult(singleSegment(text, duration), language, duration), nil
}

// resolveModel locates the model file for a tier inside the model
// directory, preferring the conventional ggml naming.
func (w *WhisperCPP) resolveModel(tier domain.ModelTier) (string, error) {
	candidates := []string{
		filepath.Join(w.modelDir, fmt.Sprintf("ggml-%s.bin", tier)),
		filepath.Join(w.modelDir, fmt.Sprintf("%s.bin", tier)),
	}
	for _, candidate := range candidates {
		if _, err := w.stat(candidate); err == nil {
			return candidate, nil
		}
	}

	entries, err := w.readDir(w.modelDir)
	if err != nil {
		return "", fmt.Errorf("cannot read model directory %s: %w", w.modelDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".bin" || ext == ".gguf" {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no .bin or .gguf model files found in %s", w.modelDir)
	}
	sort.Strings(names)
	return filepath.Join(w.modelDir, names[0]), nil
}

// buildWhisperCPPArgs builds whisper.cpp args for txt transcript export.
func buildWhisperCPPArgs(modelPath, wavPath, textBase, language string) []string {
	args := []string{
		"-m", modelPath,
		"-f", wavPath,
		"-of", textBase,
		"-otxt",
	}
	if lang := normalizeLanguage(language); lang != "" {
		args = append(args, "-l", lang)
	}
	return args
}
