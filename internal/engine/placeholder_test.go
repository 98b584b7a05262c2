package engine

import (
	"context"
	"testing"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
)

func TestPlaceholderAlwaysReady(t *testing.T) {
	p := NewPlaceholder()
	if err := p.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !p.IsReady() {
		t.Error("placeholder must always be ready")
	}
	if p.Name() != PlaceholderName {
		t.Errorf("name = %q", p.Name())
	}
}

func TestPlaceholderTranscribe(t *testing.T) {
	dir := t.TempDir()
	wavPath := writeWav(t, dir, 320000) // 10 seconds

	p := NewPlaceholder()

	var progress []int
	result, err := p.Transcribe(context.Background(), wavPath, Options{
		Model:      domain.ModelBase,
		OnProgress: func(v int) { progress = append(progress, v) },
	})
	if err != nil {
		t.Fatalf("placeholder must never fail: %v", err)
	}

	if len(result.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(result.Segments))
	}
	if result.Segments[0].Start != 0 || result.Segments[0].End != 5 {
		t.Errorf("first segment [%f,%f], want [0,5]", result.Segments[0].Start, result.Segments[0].End)
	}
	if result.Segments[1].End != 10 {
		t.Errorf("last segment end = %f, want 10", result.Segments[1].End)
	}
	if result.Duration != 10 {
		t.Errorf("duration = %f, want 10", result.Duration)
	}
	if result.Language != "en" {
		t.Errorf("language = %q, want en", result.Language)
	}
	if result.Confidence != placeholderConfidence {
		t.Errorf("confidence = %f, want %f", result.Confidence, placeholderConfidence)
	}
	if result.Text == "" {
		t.Error("placeholder text must not be empty")
	}

	if len(progress) != 2 || progress[0] != 50 || progress[1] != 100 {
		t.Errorf("progress = %v, want [50 100]", progress)
	}
}

func TestPlaceholderIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	wavPath := writeWav(t, dir, 64000)

	p := NewPlaceholder()
	first, err := p.Transcribe(context.Background(), wavPath, Options{})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	second, err := p.Transcribe(context.Background(), wavPath, Options{})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if first.Text != second.Text || first.Duration != second.Duration {
		t.Error("same input must yield the same placeholder result")
	}
}

func TestPlaceholderMissingFileStillSucceeds(t *testing.T) {
	p := NewPlaceholder()
	result, err := p.Transcribe(context.Background(), "/nonexistent/media.mp3", Options{})
	if err != nil {
		t.Fatalf("placeholder must never fail: %v", err)
	}
	// Unknown files fall back to the 60-second duration default.
	if result.Duration != 60 {
		t.Errorf("duration = %f, want 60", result.Duration)
	}
}
