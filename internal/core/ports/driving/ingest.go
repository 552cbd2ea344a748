package driving

import (
	"context"

	"github.com/specdex/specdex/internal/core/domain"
)

// IngestService turns documents into chunk records.
type IngestService interface {
	// ProcessDocument runs one file through extract, normalize and chunk.
	ProcessDocument(ctx context.Context, path string) ([]domain.Chunk, error)

	// ProcessDirectory processes every supported file in dir sequentially.
	// A failing file is recorded and skipped; the batch continues.
	ProcessDirectory(ctx context.Context, dir string) (*BatchResult, error)

	// Capabilities reports the extraction backend per supported format.
	Capabilities() map[domain.Format]string
}

// BatchResult is the outcome of a directory batch: the union of
// successfully produced chunks plus an accounting of failures.
type BatchResult struct {
	// Chunks is every chunk produced by the batch, in file order.
	Chunks []domain.Chunk

	// Processed lists the file names that produced chunks.
	Processed []string

	// Failed lists the file names that could not be processed.
	Failed []string
}

// IndexService embeds chunk records and loads them into the vector index.
type IndexService interface {
	// BuildIndex embeds the chunks in batches and upserts them.
	BuildIndex(ctx context.Context, chunks []domain.Chunk) error
}
