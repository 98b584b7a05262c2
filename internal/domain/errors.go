package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job cannot be found by ID.
	ErrJobNotFound = errors.New("job not found")

	// ErrResultNotReady is returned when a result is requested for a job
	// that has not reached COMPLETED.
	ErrResultNotReady = errors.New("transcription result not ready")

	// ErrInvalidModelTier is returned when an unsupported model tier is requested.
	ErrInvalidModelTier = errors.New("invalid or unsupported model tier")

	// ErrFileNotFound is returned when the submitted file path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileTooLarge is returned when the submitted file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large (max 1GB)")

	// ErrUnsupportedFormat is returned when the file extension is not in the
	// accepted audio/video whitelist.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrJobAlreadyProcessing is returned when a processing task is started
	// for a job identifier that is already in flight.
	ErrJobAlreadyProcessing = errors.New("job is already being processed")
)

// SupportedExtensions is the accepted audio/video extension whitelist,
// lowercased with leading dot.
var SupportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
}

// MaxFileSizeBytes is the upload size ceiling (1 GiB).
const MaxFileSizeBytes = 1 << 30
