package driven

import (
	"context"

	"github.com/specdex/specdex/internal/core/domain"
)

// Extractor pulls raw text and metadata out of one document format.
// A format may have several candidate backends; the registry probes
// availability once at construction and keeps only the first available
// backend per format.
type Extractor interface {
	// Format returns the document format this extractor handles.
	Format() domain.Format

	// Backend names the concrete extraction backend, for diagnostics
	// and the MetaExtractionMethod metadata field.
	Backend() string

	// Detect probes the runtime environment for this backend.
	// Called once when the registry is built, never per document.
	Detect(ctx context.Context) bool

	// Extract reads the document at path and returns its raw text and
	// metadata. Metadata always includes domain.MetaSource (the file
	// base name). Failures wrap domain.ErrExtractionFailed.
	Extract(ctx context.Context, path string) (*domain.ExtractionResult, error)
}

// ExtractorRegistry dispatches extraction by file extension.
// Backend selection happens at construction time; a single Extract call
// never retries alternate backends on failure.
type ExtractorRegistry interface {
	// Extract routes the file to the backend selected for its format.
	// Returns domain.ErrNotFound for a missing path,
	// domain.ErrUnsupportedFormat for an unrecognised extension and
	// domain.ErrBackendUnavailable when the format has no detected backend.
	Extract(ctx context.Context, path string) (*domain.ExtractionResult, error)

	// Capabilities reports the backend chosen for each format.
	// Formats with no available backend are absent from the map.
	Capabilities() map[domain.Format]string
}
