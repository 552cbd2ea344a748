package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specdex/specdex/internal/core/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(t.TempDir(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func chunk(source string, index int, embedding []float32) domain.Chunk {
	return domain.Chunk{
		ID:   index,
		Text: "chunk " + source,
		Metadata: map[string]any{
			domain.MetaSource:     source,
			domain.MetaChunkIndex: index,
		},
		Embedding: embedding,
	}
}

func TestNewIndex_CreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	idx, err := NewIndex(dir, "test")
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, filepath.Join(dir, "index.db"), idx.path)
}

func TestUpsertAndQuery(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		chunk("far.pdf", 0, []float32{0, 1}),
		chunk("near.pdf", 0, []float32{1, 0}),
	}))

	matches, err := idx.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "near.pdf", matches[0].Metadata[domain.MetaSource])
	assert.InDelta(t, 0, matches[0].Distance, 1e-6)
	assert.Equal(t, "chunk near.pdf", matches[0].Text)
}

func TestUpsert_ReplacesSameSourceAndIndex(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{chunk("doc.pdf", 0, []float32{1, 0})}))

	updated := chunk("doc.pdf", 0, []float32{0, 1})
	updated.Text = "updated content"
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{updated}))

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCount)

	matches, err := idx.Query(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "updated content", matches[0].Text)
}

func TestQuery_CapsAtN(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		chunk("a.pdf", 0, []float32{1, 0}),
		chunk("a.pdf", 1, []float32{0, 1}),
		chunk("a.pdf", 2, []float32{1, 1}),
	}))

	matches, err := idx.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestQuery_EmptyIndex(t *testing.T) {
	idx := newTestIndex(t)

	matches, err := idx.Query(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStatsAndClear(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		chunk("a.pdf", 0, []float32{1}),
		chunk("a.pdf", 1, []float32{1}),
	}))

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test", stats.CollectionName)
	assert.Equal(t, 2, stats.TotalCount)

	require.NoError(t, idx.Clear(ctx))

	stats, err = idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCount)
}

func TestCollectionsAreIsolated(t *testing.T) {
	dir := t.TempDir()
	first, err := NewIndex(dir, "first")
	require.NoError(t, err)
	defer first.Close()
	second, err := NewIndex(dir, "second")
	require.NoError(t, err)
	defer second.Close()

	ctx := context.Background()
	require.NoError(t, first.Upsert(ctx, []domain.Chunk{chunk("a.pdf", 0, []float32{1})}))

	stats, err := second.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCount)

	require.NoError(t, second.Clear(ctx))
	stats, err = first.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCount)
}

func TestMetadataRoundTrip(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	c := chunk("a.pdf", 3, []float32{1})
	c.Metadata["title"] = "Spec"
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{c}))

	matches, err := idx.Query(ctx, []float32{1}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, "a.pdf", matches[0].Metadata[domain.MetaSource])
	assert.Equal(t, "Spec", matches[0].Metadata["title"])
	// JSON round-trips integers as float64.
	assert.EqualValues(t, 3, matches[0].Metadata[domain.MetaChunkIndex])
}
