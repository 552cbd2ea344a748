package driving

import (
	"context"

	"github.com/specdex/specdex/internal/core/domain"
)

// RetrievalService answers queries against the vector index.
type RetrievalService interface {
	// Retrieve returns up to opts.TopK chunks ranked by descending
	// similarity. An empty index yields an empty slice, not an error.
	Retrieve(ctx context.Context, query string, opts RetrieveOptions) ([]domain.RetrievedDocument, error)

	// FormatContext renders retrieved documents as numbered blocks with
	// source and similarity. Pure formatting, no ranking logic.
	FormatContext(documents []domain.RetrievedDocument) string
}

// RetrieveOptions configures a retrieval.
type RetrieveOptions struct {
	// TopK is the maximum number of results. Zero means the service default.
	TopK int

	// SourceFilter keeps only chunks whose source metadata contains
	// this substring. Empty means no filtering.
	SourceFilter string
}
