package engine

import (
	"math"
	"testing"

	"github.com/joen-ao/Transcriptor-app/internal/domain"
)

func TestProgressEmitterClampsAndStaysMonotone(t *testing.T) {
	var seen []int
	p := newProgressEmitter(func(v int) { seen = append(seen, v) })

	for _, v := range []int{-5, 10, 10, 5, 20, 150, 90} {
		p.emit(v)
	}

	want := []int{0, 10, 20, 100}
	if len(seen) != len(want) {
		t.Fatalf("emitted %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("emitted %v, want %v", seen, want)
		}
	}
}

func TestProgressEmitterNilCallback(t *testing.T) {
	p := newProgressEmitter(nil)
	// Must not panic.
	p.emit(50)
}

func TestAssembleResultJoinsAndAverages(t *testing.T) {
	segments := []domain.Segment{
		{Start: 0, End: 2, Text: "  hello ", Confidence: 0.8},
		{Start: 2, End: 4, Text: "world", Confidence: 0},
	}

	r := assembleResult(segments, "en", 0)

	if r.Text != "hello world" {
		t.Errorf("text = %q, want %q", r.Text, "hello world")
	}
	// Missing confidence defaults to 0.9, so mean is (0.8+0.9)/2.
	if math.Abs(r.Confidence-0.85) > 1e-9 {
		t.Errorf("confidence = %f, want 0.85", r.Confidence)
	}
	// Zero duration falls back to the last segment's end time.
	if r.Duration != 4 {
		t.Errorf("duration = %f, want 4", r.Duration)
	}
	if r.Language != "en" {
		t.Errorf("language = %q, want en", r.Language)
	}
}

func TestAssembleResultEmptySegments(t *testing.T) {
	r := assembleResult(nil, "en", 12)
	if r.Text != "" || r.Confidence != 0 || r.Duration != 12 {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestSingleSegment(t *testing.T) {
	segs := singleSegment("  trimmed text  ", 9.5)
	if len(segs) != 1 {
		t.Fatalf("len = %d, want 1", len(segs))
	}
	s := segs[0]
	if s.Start != 0 || s.End != 9.5 || s.Text != "trimmed text" {
		t.Errorf("unexpected segment: %+v", s)
	}
	if s.Confidence != defaultSegmentConfidence {
		t.Errorf("confidence = %f, want %f", s.Confidence, defaultSegmentConfidence)
	}
}

func TestLogprobToConfidence(t *testing.T) {
	cases := []struct {
		logprob float64
		want    float64
	}{
		{0, 1},
		{-0.5, math.Exp(-0.5)},
		{-10, math.Exp(-10)},
		{1, 1}, // exp(1) > 1 is capped
	}
	for _, tc := range cases {
		if got := logprobToConfidence(tc.logprob); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("logprobToConfidence(%f) = %f, want %f", tc.logprob, got, tc.want)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"auto", ""},
		{"AUTO", ""},
		{"  auto  ", ""},
		{"en", "en"},
		{" es ", "es"},
	}
	for _, tc := range cases {
		if got := normalizeLanguage(tc.in); got != tc.want {
			t.Errorf("normalizeLanguage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
