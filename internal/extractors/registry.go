package extractors

import (
	"context"
	"fmt"
	"os"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction by file extension.
//
// Candidates are probed exactly once, in the order given to NewRegistry;
// the first available backend per format wins. A failing Extract call is
// surfaced immediately - the remaining candidates for that format are
// never retried within the call. Probing per startup instead of per
// document keeps extraction latency flat.
type Registry struct {
	selected map[domain.Format]driven.Extractor
}

// NewRegistry probes the candidates and keeps the first available
// backend for each format. Formats whose candidates all fail detection
// are reported as unavailable by Extract.
func NewRegistry(ctx context.Context, candidates ...driven.Extractor) *Registry {
	selected := make(map[domain.Format]driven.Extractor)
	for _, c := range candidates {
		if _, ok := selected[c.Format()]; ok {
			continue
		}
		if c.Detect(ctx) {
			selected[c.Format()] = c
			logger.Debug("Extractor for %s: %s", c.Format(), c.Backend())
		} else {
			logger.Debug("Extractor %s for %s not available", c.Backend(), c.Format())
		}
	}
	return &Registry{selected: selected}
}

// Extract routes the file to the backend selected for its format.
func (r *Registry) Extract(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	format, ok := domain.FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: .pdf, .docx, .doc)", domain.ErrUnsupportedFormat, path)
	}

	extractor, ok := r.selected[format]
	if !ok {
		return nil, fmt.Errorf("%w: no backend for %s", domain.ErrBackendUnavailable, format)
	}

	logger.Debug("Extracting %s via %s", path, extractor.Backend())
	result, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	logger.Debug("Extracted %d characters from %s", len(result.Text), path)
	return result, nil
}

// Capabilities reports the backend chosen for each format.
func (r *Registry) Capabilities() map[domain.Format]string {
	caps := make(map[domain.Format]string, len(r.selected))
	for format, extractor := range r.selected {
		caps[format] = extractor.Backend()
	}
	return caps
}
