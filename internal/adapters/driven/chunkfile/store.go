// Package chunkfile persists chunk records as a JSON array, the hand-off
// artifact between the chunking stage and the embedding/indexing stage.
package chunkfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Store reads and writes chunk record files.
type Store struct{}

// NewStore creates a chunk file store.
func NewStore() *Store {
	return &Store{}
}

// Save writes the chunk records to path, creating parent directories.
func (s *Store) Save(path string, chunks []domain.Chunk) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chunks: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("Saved %d chunks to %s", len(chunks), path)
	return nil
}

// Load reads chunk records written by Save.
func (s *Store) Load(path string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var chunks []domain.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return chunks, nil
}
