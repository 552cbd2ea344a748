// Package file loads and saves specdex configuration as TOML.
//
// Configuration is an explicit struct constructed once and passed into
// component constructors; there is no ambient global.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/specdex/specdex/internal/chunker"
	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/services"
	"github.com/specdex/specdex/internal/normalizer"
)

// Config is the full application configuration.
type Config struct {
	// DataDir is where the index database lives.
	// Empty means ~/.specdex/data.
	DataDir string `toml:"data_dir"`

	// Chunking controls segmentation.
	Chunking ChunkingConfig `toml:"chunking"`

	// Embedding selects and configures the embedding provider.
	Embedding EmbeddingConfig `toml:"embedding"`

	// Index selects and configures the vector index backend.
	Index IndexConfig `toml:"index"`

	// Retrieval controls query behavior.
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// ChunkingConfig controls the normalizer and chunker.
type ChunkingConfig struct {
	ChunkSize    int    `toml:"chunk_size"`
	ChunkOverlap int    `toml:"chunk_overlap"`
	MinChunkSize int    `toml:"min_chunk_size"`
	SeriesMarker string `toml:"series_marker"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
	// Dimensions overrides the model default when non-zero.
	Dimensions int `toml:"dimensions"`
	// BatchSize is the number of texts per embedding request.
	BatchSize int `toml:"batch_size"`
	// RateLimit caps embedding requests per second; zero disables.
	RateLimit float64 `toml:"rate_limit"`
}

// IndexConfig configures the vector index backend.
type IndexConfig struct {
	// Backend is "sqlite", "qdrant" or "memory".
	Backend    string `toml:"backend"`
	Collection string `toml:"collection"`
	// URL and APIKey apply to the qdrant backend.
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// RetrievalConfig controls query behavior.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Chunking: ChunkingConfig{
			ChunkSize:    chunker.DefaultChunkSize,
			ChunkOverlap: chunker.DefaultChunkOverlap,
			MinChunkSize: chunker.DefaultMinChunkSize,
			SeriesMarker: normalizer.DefaultSeriesMarker,
		},
		Embedding: EmbeddingConfig{
			Provider:  string(domain.EmbeddingProviderOllama),
			BatchSize: services.DefaultEmbedBatchSize,
		},
		Index: IndexConfig{
			Backend:    "sqlite",
			Collection: "specdex",
		},
		Retrieval: RetrievalConfig{
			TopK: services.DefaultTopK,
		},
	}
}

// DefaultPath returns ~/.specdex/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".specdex", "config.toml"), nil
}

// Load reads the configuration at path, layered over Default().
// A missing file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations the pipeline cannot run with.
// chunk_overlap >= chunk_size is deliberately NOT rejected: the chunker
// guards against it at runtime and the guard's stepping behavior is
// part of the observable contract.
func (c Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive", domain.ErrInvalidInput)
	}
	if c.Chunking.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk_overlap must not be negative", domain.ErrInvalidInput)
	}
	if c.Chunking.MinChunkSize < 0 {
		return fmt.Errorf("%w: min_chunk_size must not be negative", domain.ErrInvalidInput)
	}
	if p := domain.EmbeddingProvider(c.Embedding.Provider); !p.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, c.Embedding.Provider)
	}
	switch c.Index.Backend {
	case "sqlite", "qdrant", "memory":
	default:
		return fmt.Errorf("%w: unknown index backend %q", domain.ErrInvalidInput, c.Index.Backend)
	}
	return nil
}
