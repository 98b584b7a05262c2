package engine

import "fmt"

// ErrorKind classifies engine failures so the fallback chain can log what
// went wrong without parsing messages.
type ErrorKind string

const (
	// KindUnavailable means the engine's one-time initialization never
	// succeeded and transcribe was not attempted.
	KindUnavailable ErrorKind = "unavailable"

	// KindExecution means the engine started but failed mid-run: non-zero
	// exit, timeout, or a normalization failure.
	KindExecution ErrorKind = "execution"

	// KindNoOutput means the engine ran to completion but produced no
	// parseable output at its declared output location.
	KindNoOutput ErrorKind = "no_output"
)

// Error is a stage-aware engine failure.
type Error struct {
	Kind    ErrorKind
	Engine  string
	Stage   string
	Message string
	Err     error
}

// Error formats engine failures for logs.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Stage == "" {
		return fmt.Sprintf("%s: %s: %s", e.Engine, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %s", e.Engine, e.Kind, e.Stage, e.Message)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// notReady builds the failure used when transcribe is called on an engine
// whose initialization did not succeed.
func notReady(engineName string) *Error {
	return &Error{
		Kind:    KindUnavailable,
		Engine:  engineName,
		Message: "engine not initialized",
	}
}
