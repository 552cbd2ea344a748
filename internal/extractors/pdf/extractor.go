// Package pdf extracts text from PDF documents using the poppler
// pdftotext tool.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/extractors"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// BackendName identifies this backend in capability reports and metadata.
const BackendName = "pdftotext"

// Extractor handles PDF documents by shelling out to pdftotext.
// When pdfinfo is also present, page count, title and author are added
// to the metadata; its absence is not an error.
type Extractor struct {
	runner extractors.CommandRunner
}

// New creates a PDF extractor using the given command runner.
func New(runner extractors.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Format returns the document format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatPDF
}

// Backend names the concrete extraction backend.
func (e *Extractor) Backend() string {
	return BackendName
}

// Detect probes PATH for pdftotext.
func (e *Extractor) Detect(_ context.Context) bool {
	_, err := e.runner.LookPath("pdftotext")
	return err == nil
}

// Extract converts the PDF to plain text. Layout mode keeps tables
// readable; "-" sends the text to stdout.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", "-nopgbrk", path, "-")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, BackendName, err)
	}

	metadata := map[string]any{
		domain.MetaSource:           filepath.Base(path),
		domain.MetaFormat:           string(domain.FormatPDF),
		domain.MetaExtractionMethod: BackendName,
		"file_path":                 path,
	}
	e.addDocumentInfo(ctx, path, metadata)

	return &domain.ExtractionResult{
		Text:     string(out),
		Metadata: metadata,
	}, nil
}

// addDocumentInfo enriches metadata from pdfinfo when available.
func (e *Extractor) addDocumentInfo(ctx context.Context, path string, metadata map[string]any) {
	if _, err := e.runner.LookPath("pdfinfo"); err != nil {
		return
	}
	out, err := e.runner.Run(ctx, "pdfinfo", path)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(out), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch key {
		case "Title":
			metadata["title"] = value
		case "Author":
			metadata["author"] = value
		case "Pages":
			if pages, err := strconv.Atoi(value); err == nil {
				metadata["num_pages"] = pages
			}
		}
	}
}
