package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/media"
)

func newTestWhisperCPP(t *testing.T, modelDir string, runner media.Runner) *WhisperCPP {
	t.Helper()
	logger := zap.NewNop()
	normalizer := media.NewNormalizer("ffmpeg", runner, logger)
	w := NewWhisperCPP("whisper.cpp", modelDir, runner, normalizer, logger)
	w.ready.Store(true)
	return w
}

func TestWhisperCPPInit(t *testing.T) {
	modelDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(modelDir, "ggml-base.bin"), []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	w := newTestWhisperCPP(t, modelDir, &fakeStreamRunner{})
	w.ready.Store(false)
	w.lookPath = func(file string) (string, error) { return "/usr/local/bin/whisper.cpp", nil }

	if err := w.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !w.IsReady() {
		t.Error("engine should be ready after successful init")
	}
}

func TestWhisperCPPInitMissingBinary(t *testing.T) {
	w := newTestWhisperCPP(t, t.TempDir(), &fakeStreamRunner{})
	w.ready.Store(false)
	w.lookPath = func(file string) (string, error) { return "", errors.New("not found") }

	if err := w.Init(context.Background()); err == nil {
		t.Fatal("expected init error for missing binary")
	}
	if w.IsReady() {
		t.Error("engine must not be ready without the binary")
	}
}

func TestWhisperCPPInitMissingModels(t *testing.T) {
	w := newTestWhisperCPP(t, t.TempDir(), &fakeStreamRunner{})
	w.ready.Store(false)
	w.lookPath = func(file string) (string, error) { return "/usr/local/bin/whisper.cpp", nil }

	if err := w.Init(context.Background()); err == nil {
		t.Fatal("expected init error for empty model directory")
	}
}

func TestResolveModel(t *testing.T) {
	modelDir := t.TempDir()
	for _, name := range []string{"ggml-base.bin", "small.bin", "zz-other.gguf", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(modelDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	w := newTestWhisperCPP(t, modelDir, &fakeStreamRunner{})

	// Conventional ggml naming wins for its tier.
	path, err := w.resolveModel(domain.ModelBase)
	if err != nil {
		t.Fatalf("resolve base: %v", err)
	}
	if filepath.Base(path) != "ggml-base.bin" {
		t.Errorf("base model = %q", path)
	}

	// Bare tier naming is the second choice.
	path, err = w.resolveModel(domain.ModelSmall)
	if err != nil {
		t.Fatalf("resolve small: %v", err)
	}
	if filepath.Base(path) != "small.bin" {
		t.Errorf("small model = %q", path)
	}

	// An unmatched tier falls back to the first model file by name.
	path, err = w.resolveModel(domain.ModelLarge)
	if err != nil {
		t.Fatalf("resolve large: %v", err)
	}
	if filepath.Base(path) != "ggml-base.bin" {
		t.Errorf("fallback model = %q", path)
	}
}

func TestWhisperCPPTranscribe(t *testing.T) {
	dir := t.TempDir()
	wavPath := writeWav(t, dir, 160000) // 5 seconds

	modelDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(modelDir, "ggml-base.bin"), []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	runner := &fakeStreamRunner{
		runFunc: func(ctx context.Context, name string, args ...string) (media.RunResult, error) {
			// The binary writes <textBase>.txt; -of precedes the base path.
			for i, a := range args {
				if a == "-of" {
					path := args[i+1] + ".txt"
					if err := os.WriteFile(path, []byte(" transcribed by cpp \n"), 0o644); err != nil {
						t.Fatalf("write txt: %v", err)
					}
				}
			}
			return media.RunResult{}, nil
		},
	}

	w := newTestWhisperCPP(t, modelDir, runner)

	result, err := w.Transcribe(context.Background(), wavPath, Options{Model: domain.ModelBase, Language: "auto"})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if result.Text != "transcribed by cpp" {
		t.Errorf("text = %q", result.Text)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("segments = %d, want 1 synthesized", len(result.Segments))
	}
	if result.Duration != 5 {
		t.Errorf("duration = %f, want 5", result.Duration)
	}
	if result.Language != "en" {
		t.Errorf("language = %q, want en default", result.Language)
	}
}

func TestWhisperCPPEmptyTranscript(t *testing.T) {
	dir := t.TempDir()
	wavPath := writeWav(t, dir, 32000)

	modelDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(modelDir, "ggml-base.bin"), []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	runner := &fakeStreamRunner{
		runFunc: func(ctx context.Context, name string, args ...string) (media.RunResult, error) {
			for i, a := range args {
				if a == "-of" {
					if err := os.WriteFile(args[i+1]+".txt", []byte("   \n"), 0o644); err != nil {
						t.Fatalf("write txt: %v", err)
					}
				}
			}
			return media.RunResult{}, nil
		},
	}

	w := newTestWhisperCPP(t, modelDir, runner)

	_, err := w.Transcribe(context.Background(), wavPath, Options{Model: domain.ModelBase})
	var engErr *Error
	if !errors.As(err, &engErr) || engErr.Kind != KindNoOutput {
		t.Errorf("expected no_output error, got %v", err)
	}
}

func TestBuildWhisperCPPArgs(t *testing.T) {
	args := buildWhisperCPPArgs("/models/ggml-base.bin", "/tmp/a.wav", "/tmp/out/transcript", "es")
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-m /models/ggml-base.bin",
		"-f /tmp/a.wav",
		"-of /tmp/out/transcript",
		"-otxt",
		"-l es",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}

	args = buildWhisperCPPArgs("/m.bin", "/a.wav", "/t", "auto")
	if strings.Contains(strings.Join(args, " "), "-l") {
		t.Error("auto language must not produce a -l flag")
	}
}
