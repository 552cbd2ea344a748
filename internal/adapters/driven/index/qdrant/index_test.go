package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specdex/specdex/internal/core/domain"
)

func testChunks(n int, embedding []float32) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:        i,
			Text:      fmt.Sprintf("chunk %d", i),
			Metadata:  map[string]any{domain.MetaSource: "doc.pdf", domain.MetaChunkIndex: i},
			Embedding: embedding,
		}
	}
	return chunks
}

func TestQuery_ConvertsScoreToDistance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/test/points/search", r.URL.Path)
		fmt.Fprint(w, `{"result":[
			{"score":0.95,"payload":{"text":"best","metadata":{"source":"a.pdf"}}},
			{"score":0.40,"payload":{"text":"worse","metadata":{"source":"b.pdf"}}}
		]}`)
	}))
	defer server.Close()

	idx := NewIndex(Config{BaseURL: server.URL, Collection: "test"})

	matches, err := idx.Query(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "best", matches[0].Text)
	assert.InDelta(t, 0.05, matches[0].Distance, 1e-9)
	assert.InDelta(t, 0.60, matches[1].Distance, 1e-9)
	assert.Equal(t, "a.pdf", matches[0].Metadata["source"])
}

func TestUpsert_CreatesCollectionOnce(t *testing.T) {
	var creates, upserts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/test":
			creates++
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			vectors := body["vectors"].(map[string]any)
			assert.EqualValues(t, 2, vectors["size"])
			assert.Equal(t, "Cosine", vectors["distance"])
		case r.Method == http.MethodPut && r.URL.Path == "/collections/test/points":
			upserts++
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"result":{}}`)
	}))
	defer server.Close()

	idx := NewIndex(Config{BaseURL: server.URL, Collection: "test"})
	ctx := context.Background()

	chunks := testChunks(3, []float32{1, 0})
	require.NoError(t, idx.Upsert(ctx, chunks))
	require.NoError(t, idx.Upsert(ctx, chunks))

	assert.Equal(t, 1, creates)
	assert.Equal(t, 2, upserts)
}

func TestUpsert_EmptyIsNoop(t *testing.T) {
	idx := NewIndex(Config{BaseURL: "http://127.0.0.1:1", Collection: "test"})
	assert.NoError(t, idx.Upsert(context.Background(), nil))
}

func TestStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/test", r.URL.Path)
		fmt.Fprint(w, `{"result":{"points_count":42}}`)
	}))
	defer server.Close()

	idx := NewIndex(Config{BaseURL: server.URL, Collection: "test"})

	stats, err := idx.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", stats.CollectionName)
	assert.Equal(t, 42, stats.TotalCount)
	assert.Equal(t, server.URL, stats.Location)
}

func TestClear_DropsCollection(t *testing.T) {
	var deleted bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && r.URL.Path == "/collections/test" {
			deleted = true
		}
		fmt.Fprint(w, `{"result":{}}`)
	}))
	defer server.Close()

	idx := NewIndex(Config{BaseURL: server.URL, Collection: "test"})
	require.NoError(t, idx.Clear(context.Background()))
	assert.True(t, deleted)
}

func TestDo_APIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		fmt.Fprint(w, `{"result":{"points_count":0}}`)
	}))
	defer server.Close()

	idx := NewIndex(Config{BaseURL: server.URL, APIKey: "secret", Collection: "test"})
	_, err := idx.Stats(context.Background())
	require.NoError(t, err)
}

func TestDo_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	}))
	defer server.Close()

	idx := NewIndex(Config{BaseURL: server.URL, Collection: "test"})
	_, err := idx.Stats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
