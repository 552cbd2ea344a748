package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested file or directory does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension outside the
	// supported set (.pdf, .docx, .doc).
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrBackendUnavailable indicates the format is recognised but no
	// extraction backend was detected at startup.
	ErrBackendUnavailable = errors.New("extraction backend unavailable")

	// ErrExtractionFailed indicates a backend was invoked but failed.
	// The wrapping error names the backend and carries the cause.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmbeddingFailed indicates the embedding service rejected or
	// failed a request. Propagated unmodified to the caller.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrIndexFailure indicates the vector index rejected or timed out
	// on an upsert or query.
	ErrIndexFailure = errors.New("index failure")
)
