// Package sqlite provides the default persistent vector index. Chunk
// records live in a single table with embeddings stored as little-endian
// float32 BLOBs; queries are brute-force cosine scans, which is exact
// and fast enough for the corpus sizes specdex targets.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/specdex/specdex/internal/adapters/driven/index/vectormath"
	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id          TEXT PRIMARY KEY,
	collection  TEXT NOT NULL,
	source      TEXT NOT NULL,
	chunk_index INTEGER NOT NULL,
	content     TEXT NOT NULL,
	metadata    TEXT NOT NULL,
	embedding   BLOB NOT NULL,
	UNIQUE (collection, source, chunk_index)
);
CREATE INDEX IF NOT EXISTS idx_chunks_collection ON chunks(collection);
`

// Index is a SQLite-backed vector index.
type Index struct {
	db         *sql.DB
	path       string
	collection string
}

// NewIndex opens (or creates) the index database under dataDir.
// If dataDir is empty, defaults to ~/.specdex/data.
func NewIndex(dataDir, collection string) (*Index, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".specdex", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL keeps reads cheap while an index build is writing.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Index{db: db, path: dbPath, collection: collection}, nil
}

// Upsert stores the chunks in transactions of driven.UpsertBatchSize.
// A chunk replaces any previous record with the same source and index.
func (idx *Index) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += driven.UpsertBatchSize {
		end := start + driven.UpsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := idx.upsertBatch(ctx, chunks[start:end]); err != nil {
			return err
		}
		logger.Debug("Upserted batch %d-%d", start, end)
	}
	return nil
}

func (idx *Index) upsertBatch(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, collection, source, chunk_index, content, metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, source, chunk_index) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			embedding = excluded.embedding`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), idx.collection, chunk.Source(), chunk.ID,
			chunk.Text, string(metadataJSON),
			vectormath.Float32ToBytes(chunk.Embedding)); err != nil {
			return fmt.Errorf("upsert chunk %s/%d: %w", chunk.Source(), chunk.ID, err)
		}
	}

	return tx.Commit()
}

// Query scans the collection and returns the n best matches by
// ascending cosine distance.
func (idx *Index) Query(ctx context.Context, vector []float32, n int) ([]driven.Match, error) {
	rows, err := idx.db.QueryContext(ctx,
		`SELECT content, metadata, embedding FROM chunks WHERE collection = ?`, idx.collection)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var matches []driven.Match
	for rows.Next() {
		var (
			content       string
			metadataJSON  string
			embeddingBlob []byte
		)
		if err := rows.Scan(&content, &metadataJSON, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}

		var metadata map[string]any
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return nil, fmt.Errorf("parse metadata: %w", err)
		}

		matches = append(matches, driven.Match{
			Text:     content,
			Metadata: metadata,
			Distance: vectormath.CosineDistance(vector, vectormath.BytesToFloat32(embeddingBlob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
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
func (idx *Index) Stats(ctx context.Context) (*driven.IndexStats, error) {
	var count int
	if err := idx.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chunks WHERE collection = ?`, idx.collection).Scan(&count); err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	return &driven.IndexStats{
		CollectionName: idx.collection,
		TotalCount:     count,
		Location:       idx.path,
	}, nil
}

// Clear drops all records in the collection.
func (idx *Index) Clear(ctx context.Context) error {
	if _, err := idx.db.ExecContext(ctx,
		`DELETE FROM chunks WHERE collection = ?`, idx.collection); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	logger.Warn("Cleared collection %s", idx.collection)
	return nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}
