package services

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/core/ports/driving"
	"github.com/specdex/specdex/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexService = (*IndexerService)(nil)

// DefaultEmbedBatchSize is the number of texts embedded per request.
const DefaultEmbedBatchSize = 32

// IndexerService embeds chunk records and loads them into the vector
// index. Embedding requests are rate limited so remote providers are
// not hammered during a full corpus rebuild.
type IndexerService struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	limiter   *rate.Limiter
	batchSize int
}

// IndexerOption configures the indexer.
type IndexerOption func(*IndexerService)

// WithEmbedBatchSize sets the number of texts per embedding request.
func WithEmbedBatchSize(size int) IndexerOption {
	return func(s *IndexerService) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithRateLimit caps embedding requests per second. Zero or negative
// disables limiting.
func WithRateLimit(perSecond float64) IndexerOption {
	return func(s *IndexerService) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewIndexerService creates an indexer service.
func NewIndexerService(embedder driven.EmbeddingService, index driven.VectorIndex, opts ...IndexerOption) *IndexerService {
	s := &IndexerService{
		embedder:  embedder,
		index:     index,
		batchSize: DefaultEmbedBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildIndex embeds the chunks in batches and upserts them into the
// index. Chunks that already carry an embedding are re-embedded; the
// index is the source of truth for vectors, not the artifact file.
func (s *IndexerService) BuildIndex(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	logger.Section("Index Build")
	logger.Info("Embedding %d chunks with %s (dim %d)",
		len(chunks), s.embedder.ModelName(), s.embedder.Dimensions())

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit wait: %w", err)
			}
		}

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Text
		}

		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: batch %d-%d: %w", domain.ErrEmbeddingFailed, start, end, err)
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("%w: got %d embeddings for %d texts", domain.ErrEmbeddingFailed, len(embeddings), len(batch))
		}
		for i := range batch {
			batch[i].Embedding = embeddings[i]
		}

		logger.Debug("Embedded batch %d-%d", start, end)
	}

	if err := s.index.Upsert(ctx, chunks); err != nil {
		return fmt.Errorf("%w: upsert: %w", domain.ErrIndexFailure, err)
	}

	logger.Info("Indexed %d chunks", len(chunks))
	return nil
}
