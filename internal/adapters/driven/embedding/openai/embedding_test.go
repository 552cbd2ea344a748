package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestNewEmbeddingService_KnownModelDimensions(t *testing.T) {
	s, err := NewEmbeddingService(Config{APIKey: "key", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, s.Dimensions())
}

func TestNewEmbeddingService_UnknownModelNeedsDimensions(t *testing.T) {
	_, err := NewEmbeddingService(Config{APIKey: "key", Model: "custom-model"})
	assert.Error(t, err)

	s, err := NewEmbeddingService(Config{APIKey: "key", Model: "custom-model", Dimensions: 512})
	require.NoError(t, err)
	assert.Equal(t, 512, s.Dimensions())
}

func TestEmbedBatch_ReordersByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"one", "two"}, req.Input)

		// Out-of-order response data, distinguished by index.
		fmt.Fprint(w, `{"data":[
			{"index":1,"embedding":[0.3,0.4]},
			{"index":0,"embedding":[0.1,0.2]}
		]}`)
	}))
	defer server.Close()

	s, err := NewEmbeddingService(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	embeddings, err := s.EmbedBatch(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0])
	assert.Equal(t, []float32{0.3, 0.4}, embeddings[1])
}

func TestEmbedBatch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	s, err := NewEmbeddingService(Config{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = s.EmbedBatch(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":[{"index":0,"embedding":[1]}]}`)
	}))
	defer server.Close()

	s, err := NewEmbeddingService(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = s.EmbedBatch(context.Background(), []string{"one", "two"})
	assert.Error(t, err)
}

func TestEmbedBatch_DimensionsOverrideSent(t *testing.T) {
	var gotDimensions int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotDimensions = req.Dimensions
		fmt.Fprint(w, `{"data":[{"index":0,"embedding":[1]}]}`)
	}))
	defer server.Close()

	s, err := NewEmbeddingService(Config{
		APIKey:     "key",
		BaseURL:    server.URL,
		Model:      "text-embedding-3-small",
		Dimensions: 256,
	})
	require.NoError(t, err)

	_, err = s.EmbedBatch(context.Background(), []string{"text"})
	require.NoError(t, err)
	assert.Equal(t, 256, gotDimensions)
}

func TestEmbedBatch_DefaultDimensionsNotSent(t *testing.T) {
	var gotDimensions int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotDimensions = req.Dimensions
		fmt.Fprint(w, `{"data":[{"index":0,"embedding":[1]}]}`)
	}))
	defer server.Close()

	s, err := NewEmbeddingService(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = s.EmbedBatch(context.Background(), []string{"text"})
	require.NoError(t, err)
	assert.Zero(t, gotDimensions)
}
