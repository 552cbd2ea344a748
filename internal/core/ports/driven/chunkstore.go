package driven

import "github.com/specdex/specdex/internal/core/domain"

// ChunkStore persists chunk records as the hand-off artifact between the
// chunking stage and the embedding/indexing stage.
type ChunkStore interface {
	// Save writes the chunk records, creating parent directories as needed.
	Save(path string, chunks []domain.Chunk) error

	// Load reads chunk records written by Save.
	Load(path string) ([]domain.Chunk, error)
}
