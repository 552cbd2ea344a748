package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/specdex/specdex/internal/adapters/driven/config/file"
	"github.com/specdex/specdex/internal/adapters/driven/embedding/ollama"
	"github.com/specdex/specdex/internal/adapters/driven/embedding/openai"
	"github.com/specdex/specdex/internal/adapters/driven/index/memory"
	"github.com/specdex/specdex/internal/adapters/driven/index/qdrant"
	"github.com/specdex/specdex/internal/adapters/driven/index/sqlite"
	"github.com/specdex/specdex/internal/chunker"
	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/core/services"
	"github.com/specdex/specdex/internal/extractors"
	"github.com/specdex/specdex/internal/extractors/docx"
	"github.com/specdex/specdex/internal/extractors/msdoc"
	"github.com/specdex/specdex/internal/extractors/pdf"
	"github.com/specdex/specdex/internal/normalizer"
)

// newIngestService wires the extraction, normalization and chunking
// stages from configuration. Backend probing happens here, once.
func newIngestService(ctx context.Context, cfg file.Config) *services.IngestService {
	runner := extractors.NewExecRunner()

	candidates := []driven.Extractor{
		pdf.New(runner),
		docx.New(),
	}
	candidates = append(candidates, msdoc.Candidates(runner)...)
	registry := extractors.NewRegistry(ctx, candidates...)

	norm := normalizer.New(normalizer.WithSeriesMarker(cfg.Chunking.SeriesMarker))
	chk := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.ChunkSize),
		chunker.WithChunkOverlap(cfg.Chunking.ChunkOverlap),
		chunker.WithMinChunkSize(cfg.Chunking.MinChunkSize),
	)

	return services.NewIngestService(registry, norm, chk)
}

// newEmbeddingService builds the configured embedding provider.
func newEmbeddingService(cfg file.Config) (driven.EmbeddingService, error) {
	switch domain.EmbeddingProvider(cfg.Embedding.Provider) {
	case domain.EmbeddingProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil

	case domain.EmbeddingProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrInvalidInput, cfg.Embedding.Provider)
	}
}

// newVectorIndex builds the configured index backend.
func newVectorIndex(cfg file.Config) (driven.VectorIndex, error) {
	switch cfg.Index.Backend {
	case "sqlite":
		return sqlite.NewIndex(cfg.DataDir, cfg.Index.Collection)
	case "qdrant":
		return qdrant.NewIndex(qdrant.Config{
			BaseURL:    cfg.Index.URL,
			APIKey:     cfg.Index.APIKey,
			Collection: cfg.Index.Collection,
			Timeout:    15 * time.Second,
		}), nil
	case "memory":
		return memory.NewIndex(cfg.Index.Collection), nil
	default:
		return nil, fmt.Errorf("%w: index backend %q", domain.ErrInvalidInput, cfg.Index.Backend)
	}
}

// newIndexerService wires embedding and index into the index builder.
func newIndexerService(embedder driven.EmbeddingService, index driven.VectorIndex, cfg file.Config) *services.IndexerService {
	return services.NewIndexerService(embedder, index,
		services.WithEmbedBatchSize(cfg.Embedding.BatchSize),
		services.WithRateLimit(cfg.Embedding.RateLimit),
	)
}
