package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    JobStatus
		to      JobStatus
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusProcessing, StatusProcessing, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusProcessing, false},
		{StatusFailed, StatusCompleted, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() || StatusProcessing.IsTerminal() {
		t.Error("PENDING and PROCESSING must not be terminal")
	}
	if !StatusCompleted.IsTerminal() || !StatusFailed.IsTerminal() {
		t.Error("COMPLETED and FAILED must be terminal")
	}
}

func TestModelTierIsValid(t *testing.T) {
	for _, tier := range []ModelTier{ModelTiny, ModelBase, ModelSmall, ModelMedium, ModelLarge} {
		if !tier.IsValid() {
			t.Errorf("expected %s to be valid", tier)
		}
	}
	if ModelTier("huge").IsValid() {
		t.Error("expected unknown tier to be invalid")
	}
	if ModelTier("").IsValid() {
		t.Error("expected empty tier to be invalid")
	}
}

func TestResultWordCount(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello", 1},
		{"hello world", 2},
		{"  multiple   spaces\tand\nnewlines ", 4},
	}
	for _, tc := range cases {
		r := TranscriptionResult{Text: tc.text}
		if got := r.WordCount(); got != tc.want {
			t.Errorf("WordCount(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestStatusViewOmitsResultPayload(t *testing.T) {
	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.New(),
		FileName:  "interview.mp3",
		Status:    StatusCompleted,
		Progress:  100,
		Text:      "secret transcript",
		Segments:  []Segment{{Start: 0, End: 1, Text: "secret transcript"}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	view := job.ToStatusView()
	if view.ID != job.ID || view.FileName != job.FileName {
		t.Error("status view should carry identity fields")
	}
	if view.Status != StatusCompleted || view.Progress != 100 {
		t.Error("status view should carry status and progress")
	}
	// The projection type itself must not be able to leak the payload.
	_ = view
}

func TestSummaryProjection(t *testing.T) {
	job := &Job{
		ID:        uuid.New(),
		FileName:  "meeting.wav",
		Status:    StatusCompleted,
		Progress:  100,
		WordCount: 42,
		Duration:  12.5,
	}

	s := job.ToSummary()
	if s.WordCount != 42 || s.Duration != 12.5 {
		t.Errorf("summary = %+v, want word_count 42 duration 12.5", s)
	}
}
