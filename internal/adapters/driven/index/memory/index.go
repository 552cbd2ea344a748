// Package memory provides an in-memory vector index for tests and small
// corpora. Distances are exact cosine distances computed by brute force.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/specdex/specdex/internal/adapters/driven/index/vectormath"
	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory vector index.
type Index struct {
	mu         sync.RWMutex
	collection string
	records    []record
}

type record struct {
	text      string
	metadata  map[string]any
	embedding []float32
}

// NewIndex creates an empty in-memory index.
func NewIndex(collection string) *Index {
	return &Index{collection: collection}
}

// Upsert appends the chunks. Memory has no payload limits, so batching
// is a no-op here.
func (idx *Index) Upsert(_ context.Context, chunks []domain.Chunk) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, chunk := range chunks {
		idx.records = append(idx.records, record{
			text:      chunk.Text,
			metadata:  domain.CopyMetadata(chunk.Metadata),
			embedding: chunk.Embedding,
		})
	}
	return nil
}

// Query returns the n best matches by ascending cosine distance.
func (idx *Index) Query(_ context.Context, vector []float32, n int) ([]driven.Match, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	matches := make([]driven.Match, 0, len(idx.records))
	for _, rec := range idx.records {
		matches = append(matches, driven.Match{
			Text:     rec.text,
			Metadata: domain.CopyMetadata(rec.metadata),
			Distance: vectormath.CosineDistance(vector, rec.embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if n < len(matches) {
		matches = matches[:n]
	}
	return matches, nil
}

// Stats reports the collection state.
func (idx *Index) Stats(_ context.Context) (*driven.IndexStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return &driven.IndexStats{
		CollectionName: idx.collection,
		TotalCount:     len(idx.records),
		Location:       "memory",
	}, nil
}

// Clear drops all records.
func (idx *Index) Clear(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.records = nil
	return nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}
