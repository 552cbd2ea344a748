// Package msdoc extracts text from legacy binary Word documents.
//
// Three backends exist, in fixed preference order: antiword (the native
// tool), catdoc (a generic decoder) and soffice (LibreOffice headless
// conversion). The registry probes them at startup and keeps the first
// available one; a failing extraction is never retried on another
// backend within the same call.
package msdoc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/extractors"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Backend identifies a legacy Word extraction backend.
type Backend string

// Available backends, in preference order.
const (
	// BackendAntiword uses the antiword tool.
	BackendAntiword Backend = "antiword"

	// BackendCatdoc uses the catdoc decoder.
	BackendCatdoc Backend = "catdoc"

	// BackendSoffice converts via LibreOffice headless mode, writing
	// into a scoped temporary directory that is removed on all paths.
	BackendSoffice Backend = "soffice"
)

// Candidates returns one extractor per backend in preference order,
// ready to hand to the registry.
func Candidates(runner extractors.CommandRunner) []driven.Extractor {
	return []driven.Extractor{
		New(BackendAntiword, runner),
		New(BackendCatdoc, runner),
		New(BackendSoffice, runner),
	}
}

// Extractor handles legacy .doc files through one backend.
type Extractor struct {
	backend Backend
	runner  extractors.CommandRunner
}

// New creates a legacy Word extractor for the given backend.
func New(backend Backend, runner extractors.CommandRunner) *Extractor {
	return &Extractor{backend: backend, runner: runner}
}

// Format returns the document format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatDOC
}

// Backend names the concrete extraction backend.
func (e *Extractor) Backend() string {
	return string(e.backend)
}

// Detect probes PATH for the backend's tool.
func (e *Extractor) Detect(_ context.Context) bool {
	_, err := e.runner.LookPath(string(e.backend))
	return err == nil
}

// Extract runs the backend and returns the document text.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	var (
		text string
		err  error
	)
	switch e.backend {
	case BackendAntiword:
		text, err = e.runAntiword(ctx, path)
	case BackendCatdoc:
		text, err = e.runCatdoc(ctx, path)
	case BackendSoffice:
		text, err = e.runSoffice(ctx, path)
	default:
		err = fmt.Errorf("unknown backend %q", e.backend)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, e.backend, err)
	}

	return &domain.ExtractionResult{
		Text: text,
		Metadata: map[string]any{
			domain.MetaSource:           filepath.Base(path),
			domain.MetaFormat:           string(domain.FormatDOC),
			domain.MetaExtractionMethod: string(e.backend),
			"file_path":                 path,
		},
	}, nil
}

func (e *Extractor) runAntiword(ctx context.Context, path string) (string, error) {
	out, err := e.runner.Run(ctx, "antiword", path)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (e *Extractor) runCatdoc(ctx context.Context, path string) (string, error) {
	out, err := e.runner.Run(ctx, "catdoc", "-w", path)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// runSoffice converts the document to text in a temporary directory.
// The directory is removed before returning, success or failure.
func (e *Extractor) runSoffice(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "specdex-soffice-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if _, err := e.runner.Run(ctx, "soffice",
		"--headless", "--convert-to", "txt:Text", "--outdir", tmpDir, path); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	converted := filepath.Join(tmpDir, base+".txt")
	out, err := os.ReadFile(converted)
	if err != nil {
		return "", fmt.Errorf("read converted output: %w", err)
	}
	return string(out), nil
}
