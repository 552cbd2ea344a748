package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/core/ports/driving"
)

// mockEmbedder is a test double for EmbeddingService.
type mockEmbedder struct {
	vector     []float32
	err        error
	batchSizes []int
	batchErr   error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return m.vector, m.err
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = m.vector
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int              { return len(m.vector) }
func (m *mockEmbedder) ModelName() string            { return "mock-model" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockIndex is a test double for VectorIndex that records the requested
// candidate count.
type mockIndex struct {
	matches    []driven.Match
	queryErr   error
	requestedN int
	upserted   []domain.Chunk
	upsertErr  error
}

func (m *mockIndex) Upsert(_ context.Context, chunks []domain.Chunk) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, chunks...)
	return nil
}

func (m *mockIndex) Query(_ context.Context, _ []float32, n int) ([]driven.Match, error) {
	m.requestedN = n
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if n < len(m.matches) {
		return m.matches[:n], nil
	}
	return m.matches, nil
}

func (m *mockIndex) Stats(_ context.Context) (*driven.IndexStats, error) { return nil, nil }
func (m *mockIndex) Clear(_ context.Context) error                      { return nil }
func (m *mockIndex) Close() error                                       { return nil }

func match(source string, index int, distance float64) driven.Match {
	return driven.Match{
		Text: "text " + source,
		Metadata: map[string]any{
			domain.MetaSource:     source,
			domain.MetaChunkIndex: index,
		},
		Distance: distance,
	}
}

func TestRetrieve_SimilarityConversionAndOrder(t *testing.T) {
	index := &mockIndex{matches: []driven.Match{
		match("a.pdf", 0, 0.1),
		match("b.pdf", 3, 0.4),
		match("c.pdf", 1, 0.9),
	}}
	svc := NewRetrievalService(&mockEmbedder{vector: []float32{1, 0}}, index, 5)

	documents, err := svc.Retrieve(context.Background(), "query", driving.RetrieveOptions{})
	require.NoError(t, err)
	require.Len(t, documents, 3)

	assert.InDelta(t, 0.9, documents[0].Similarity, 1e-9)
	assert.InDelta(t, 0.6, documents[1].Similarity, 1e-9)
	assert.InDelta(t, 0.1, documents[2].Similarity, 1e-9)

	for i := 1; i < len(documents); i++ {
		assert.GreaterOrEqual(t, documents[i-1].Similarity, documents[i].Similarity)
	}

	assert.Equal(t, "a.pdf", documents[0].Source)
	assert.Equal(t, 0, documents[0].ChunkIndex)
}

func TestRetrieve_TopKCapsResults(t *testing.T) {
	index := &mockIndex{matches: []driven.Match{
		match("a.pdf", 0, 0.1),
		match("b.pdf", 0, 0.2),
		match("c.pdf", 0, 0.3),
	}}
	svc := NewRetrievalService(&mockEmbedder{vector: []float32{1}}, index, 5)

	documents, err := svc.Retrieve(context.Background(), "query", driving.RetrieveOptions{TopK: 2})
	require.NoError(t, err)
	assert.Len(t, documents, 2)
	assert.Equal(t, 2, index.requestedN)
}

func TestRetrieve_SourceFilterOverfetches(t *testing.T) {
	index := &mockIndex{matches: []driven.Match{
		match("other.pdf", 0, 0.1),
		match("spec_v1.pdf", 0, 0.2),
		match("other.pdf", 1, 0.3),
		match("spec_v2.pdf", 0, 0.4),
	}}
	svc := NewRetrievalService(&mockEmbedder{vector: []float32{1}}, index, 5)

	documents, err := svc.Retrieve(context.Background(), "query", driving.RetrieveOptions{
		TopK:         2,
		SourceFilter: "spec",
	})
	require.NoError(t, err)

	// Twice top_k candidates were requested to absorb filter attrition.
	assert.Equal(t, 4, index.requestedN)

	require.Len(t, documents, 2)
	assert.Equal(t, "spec_v1.pdf", documents[0].Source)
	assert.Equal(t, "spec_v2.pdf", documents[1].Source)
}

func TestRetrieve_FilterAttritionYieldsFewerResults(t *testing.T) {
	index := &mockIndex{matches: []driven.Match{
		match("spec.pdf", 0, 0.1),
		match("other.pdf", 0, 0.2),
		match("other.pdf", 1, 0.3),
	}}
	svc := NewRetrievalService(&mockEmbedder{vector: []float32{1}}, index, 5)

	documents, err := svc.Retrieve(context.Background(), "query", driving.RetrieveOptions{
		TopK:         3,
		SourceFilter: "spec",
	})
	require.NoError(t, err)
	assert.Len(t, documents, 1)
}

func TestRetrieve_EmptyIndex(t *testing.T) {
	svc := NewRetrievalService(&mockEmbedder{vector: []float32{1}}, &mockIndex{}, 5)

	documents, err := svc.Retrieve(context.Background(), "query", driving.RetrieveOptions{})
	require.NoError(t, err)
	assert.Empty(t, documents)
}

func TestRetrieve_EmbeddingFailure(t *testing.T) {
	embedder := &mockEmbedder{err: errors.New("connection refused")}
	svc := NewRetrievalService(embedder, &mockIndex{}, 5)

	_, err := svc.Retrieve(context.Background(), "query", driving.RetrieveOptions{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
}

func TestRetrieve_IndexFailure(t *testing.T) {
	index := &mockIndex{queryErr: errors.New("db locked")}
	svc := NewRetrievalService(&mockEmbedder{vector: []float32{1}}, index, 5)

	_, err := svc.Retrieve(context.Background(), "query", driving.RetrieveOptions{})
	assert.ErrorIs(t, err, domain.ErrIndexFailure)
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	index := &mockIndex{}
	svc := NewRetrievalService(&mockEmbedder{vector: []float32{1}}, index, 0)

	_, err := svc.Retrieve(context.Background(), "query", driving.RetrieveOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, index.requestedN)
}

func TestFormatContext(t *testing.T) {
	svc := NewRetrievalService(&mockEmbedder{}, &mockIndex{}, 5)

	documents := []domain.RetrievedDocument{
		{Text: "first chunk", Source: "a.pdf", Similarity: 0.912},
		{Text: "second chunk", Source: "b.docx", Similarity: 0.5},
	}

	expected := "[Document 1] (Source: a.pdf, Similarity: 0.912)\nfirst chunk\n" +
		"\n" +
		"[Document 2] (Source: b.docx, Similarity: 0.500)\nsecond chunk\n"
	assert.Equal(t, expected, svc.FormatContext(documents))
}

func TestFormatContext_Empty(t *testing.T) {
	svc := NewRetrievalService(&mockEmbedder{}, &mockIndex{}, 5)
	assert.Equal(t, "", svc.FormatContext(nil))
}
