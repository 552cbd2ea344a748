package driven

import (
	"context"

	"github.com/specdex/specdex/internal/core/domain"
)

// UpsertBatchSize is the number of records sent to the index per request.
// Backends enforce payload limits; 100 keeps every adapter under them.
const UpsertBatchSize = 100

// VectorIndex stores embedded chunks and answers nearest-neighbour
// queries by vector. The index is single-writer: callers must not upsert
// concurrently.
type VectorIndex interface {
	// Upsert stores the chunks with their embeddings. Implementations
	// batch internally in groups of UpsertBatchSize.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Query returns the n best matches by ascending distance.
	Query(ctx context.Context, vector []float32, n int) ([]Match, error)

	// Stats reports collection name, record count and location.
	Stats(ctx context.Context) (*IndexStats, error)

	// Clear drops all records. Destructive.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Match is a single nearest-neighbour result.
type Match struct {
	// Text is the stored chunk content.
	Text string

	// Metadata is the stored chunk metadata.
	Metadata map[string]any

	// Distance is the vector distance to the query, ascending order in
	// result lists. Cosine distance over normalized vectors lands in [0,2].
	Distance float64
}

// IndexStats describes the state of a vector index.
type IndexStats struct {
	// CollectionName is the logical collection identifier.
	CollectionName string

	// TotalCount is the number of stored records.
	TotalCount int

	// Location is the backing store path or URL.
	Location string
}
