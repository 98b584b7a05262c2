package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Normalizer converts arbitrary input media into the canonical waveform the
// transcription engines expect: mono 16 kHz signed 16-bit PCM WAV.
type Normalizer struct {
	ffmpegPath string
	runner     Runner
	logger     *zap.Logger
	mkdirTemp  func(dir, pattern string) (string, error)
	removeAll  func(path string) error
	stat       func(name string) (os.FileInfo, error)
}

// NewNormalizer constructs the production normalizer.
func NewNormalizer(ffmpegPath string, runner Runner, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		ffmpegPath: ffmpegPath,
		runner:     runner,
		logger:     logger,
		mkdirTemp:  os.MkdirTemp,
		removeAll:  os.RemoveAll,
		stat:       os.Stat,
	}
}

// ToWav returns a path to a canonical WAV rendition of inputPath and a
// cleanup function that must be called on every exit path. Inputs already
// in WAV form are returned as-is with a no-op cleanup; the caller never
// owns the original file.
func (n *Normalizer) ToWav(ctx context.Context, inputPath string) (string, func(), error) {
	noop := func() {}

	if _, err := n.stat(inputPath); err != nil {
		return "", noop, fmt.Errorf("cannot access input media %s: %w", inputPath, err)
	}

	if strings.EqualFold(filepath.Ext(inputPath), ".wav") {
		return inputPath, noop, nil
	}

	tempDir, err := n.mkdirTemp("", "transcriptor-*")
	if err != nil {
		return "", noop, fmt.Errorf("create temporary workspace: %w", err)
	}
	cleanup := func() {
		if err := n.removeAll(tempDir); err != nil {
			n.logger.Warn("Failed to remove temporary audio workspace",
				zap.String("dir", tempDir), zap.Error(err))
		}
	}

	outPath := filepath.Join(tempDir, "normalized-16k-mono.wav")
	args := buildFFmpegArgs(inputPath, outPath)

	result, runErr := n.runner.Run(ctx, n.ffmpegPath, args...)
	if runErr != nil {
		cleanup()
		return "", noop, fmt.Errorf("ffmpeg audio conversion failed (exit=%d): %w", result.ExitCode, runErr)
	}
	if _, err := n.stat(outPath); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("ffmpeg completed but output file is missing: %w", err)
	}

	return outPath, cleanup, nil
}

// buildFFmpegArgs builds conversion CLI args for mono 16k PCM WAV output.
func buildFFmpegArgs(inputPath, outPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		outPath,
	}
}

// EstimateDuration approximates media duration in seconds from file size.
// A canonical 16 kHz mono 16-bit WAV runs at 32000 bytes per second; for
// anything else assume roughly one megabyte per minute of compressed audio.
func EstimateDuration(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 60
	}
	size := info.Size()
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		d := float64(size) / 32000
		if d < 1 {
			return 1
		}
		return d
	}
	d := float64(size) / (1024 * 1024) * 60
	if d < 1 {
		return 1
	}
	return d
}

// NewNormalizerForTests constructs a normalizer with injectable dependencies.
func NewNormalizerForTests(
	ffmpegPath string,
	runner Runner,
	logger *zap.Logger,
	mkdirTemp func(dir, pattern string) (string, error),
	removeAll func(path string) error,
	stat func(name string) (os.FileInfo, error),
) *Normalizer {
	return &Normalizer{
		ffmpegPath: ffmpegPath,
		runner:     runner,
		logger:     logger,
		mkdirTemp:  mkdirTemp,
		removeAll:  removeAll,
		stat:       stat,
	}
}
