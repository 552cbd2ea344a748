package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/core/ports/driving"
	"github.com/specdex/specdex/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultTopK is the default result budget per query.
const DefaultTopK = 5

// overfetchFactor is how many extra candidates to request when a source
// filter will discard some of them. A fixed heuristic: when attrition
// eats past it, the caller gets fewer than top_k results rather than a
// re-query.
const overfetchFactor = 2

// RetrievalService turns a query string into a ranked, filtered list of
// chunks.
type RetrievalService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	topK     int
}

// NewRetrievalService creates a retrieval service. defaultTopK <= 0
// falls back to DefaultTopK.
func NewRetrievalService(embedder driven.EmbeddingService, index driven.VectorIndex, defaultTopK int) *RetrievalService {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &RetrievalService{
		embedder: embedder,
		index:    index,
		topK:     defaultTopK,
	}
}

// Retrieve embeds the query, asks the index for nearest neighbours and
// post-filters under the result budget.
//
// Candidates arrive in ascending-distance order; similarity = 1 -
// distance, so the returned list is similarity-descending without a
// re-sort. Source filtering is a substring test applied in that order,
// stopping once top_k results are accepted.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, opts driving.RetrieveOptions) ([]domain.RetrievedDocument, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = s.topK
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q (top_k=%d, filter=%q)", query, topK, opts.SourceFilter)

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}

	fetch := topK
	if opts.SourceFilter != "" {
		fetch = topK * overfetchFactor
	}

	matches, err := s.index.Query(ctx, queryEmbedding, fetch)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrIndexFailure, err)
	}

	documents := make([]domain.RetrievedDocument, 0, topK)
	for _, match := range matches {
		source := metadataString(match.Metadata, domain.MetaSource, "unknown")
		if opts.SourceFilter != "" && !strings.Contains(source, opts.SourceFilter) {
			continue
		}

		documents = append(documents, domain.RetrievedDocument{
			Text:       match.Text,
			Source:     source,
			ChunkIndex: metadataInt(match.Metadata, domain.MetaChunkIndex),
			Similarity: 1 - match.Distance,
		})

		if len(documents) >= topK {
			break
		}
	}

	logger.Debug("Retrieved %d documents", len(documents))
	return documents, nil
}

// FormatContext renders each result as a numbered block with source and
// similarity for downstream consumption.
func (s *RetrievalService) FormatContext(documents []domain.RetrievedDocument) string {
	parts := make([]string, 0, len(documents))
	for i, doc := range documents {
		parts = append(parts, fmt.Sprintf(
			"[Document %d] (Source: %s, Similarity: %.3f)\n%s\n",
			i+1, doc.Source, doc.Similarity, doc.Text,
		))
	}
	return strings.Join(parts, "\n")
}

// metadataString reads a string metadata field with a fallback.
func metadataString(metadata map[string]any, key, fallback string) string {
	if s, ok := metadata[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// metadataInt reads an integer metadata field, tolerating the numeric
// types JSON and TOML decoding produce.
func metadataInt(metadata map[string]any, key string) int {
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
