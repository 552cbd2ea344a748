package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/core/ports/driving"
	"github.com/specdex/specdex/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Normalizer cleans raw extracted text into canonical chunking input.
type Normalizer interface {
	Normalize(raw string) string
}

// Chunker segments canonical text into ordered overlapping chunks.
type Chunker interface {
	Chunk(text string, metadata map[string]any) []domain.Chunk
}

// IngestService runs documents through extract, normalize and chunk.
// Processing is sequential and synchronous; there is no concurrent
// writer anywhere in the pipeline.
type IngestService struct {
	registry   driven.ExtractorRegistry
	normalizer Normalizer
	chunker    Chunker
}

// NewIngestService creates an ingest service.
func NewIngestService(registry driven.ExtractorRegistry, normalizer Normalizer, chunker Chunker) *IngestService {
	return &IngestService{
		registry:   registry,
		normalizer: normalizer,
		chunker:    chunker,
	}
}

// ProcessDocument runs one file through the pipeline.
func (s *IngestService) ProcessDocument(ctx context.Context, path string) ([]domain.Chunk, error) {
	result, err := s.registry.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	canonical := s.normalizer.Normalize(result.Text)
	chunks := s.chunker.Chunk(canonical, result.Metadata)

	logger.Info("%s: %d chunks", filepath.Base(path), len(chunks))
	return chunks, nil
}

// ProcessDirectory processes every supported file in dir sequentially.
// A failure on one document is logged and recorded; it does not abort
// the batch. An empty directory yields an empty result, not an error.
func (s *IngestService) ProcessDirectory(ctx context.Context, dir string) (*driving.BatchResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	files, err := supportedFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("No supported files in %s (looking for .pdf, .docx, .doc)", dir)
		return &driving.BatchResult{}, nil
	}

	logger.Section("Directory Batch")
	logger.Info("Found %d files in %s", len(files), dir)

	batch := &driving.BatchResult{}
	for _, file := range files {
		name := filepath.Base(file)
		chunks, err := s.ProcessDocument(ctx, file)
		if err != nil {
			logger.Error("%s: %v", name, err)
			batch.Failed = append(batch.Failed, name)
			continue
		}
		batch.Chunks = append(batch.Chunks, chunks...)
		batch.Processed = append(batch.Processed, name)
	}

	logger.Info("Batch done: %d chunks, %d processed, %d failed",
		len(batch.Chunks), len(batch.Processed), len(batch.Failed))
	return batch, nil
}

// Capabilities reports the extraction backend per supported format.
func (s *IngestService) Capabilities() map[domain.Format]string {
	return s.registry.Capabilities()
}

// supportedFiles lists the directory's supported documents grouped by
// format (pdf, then docx, then doc) and sorted by name within each
// group, so batch order is deterministic.
func supportedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	byFormat := make(map[domain.Format][]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, ok := domain.FormatForPath(entry.Name())
		if !ok {
			continue
		}
		byFormat[format] = append(byFormat[format], filepath.Join(dir, entry.Name()))
	}

	var files []string
	for _, format := range domain.AllFormats() {
		group := byFormat[format]
		sort.Slice(group, func(i, j int) bool {
			return strings.ToLower(group[i]) < strings.ToLower(group[j])
		})
		files = append(files, group...)
	}
	return files, nil
}
