// Package qdrant provides a vector index backed by a Qdrant server's
// REST API. The collection is created on first use with cosine distance;
// Qdrant reports cosine similarity scores, which this adapter converts
// back to distances so result ordering matches the other indexes.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
	"github.com/specdex/specdex/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:6333"
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey authenticates requests when the server requires it.
	APIKey string

	// Collection is the collection name.
	Collection string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Index is a Qdrant-backed vector index.
type Index struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string

	mu      sync.Mutex
	ensured bool
}

// NewIndex creates a Qdrant index client.
func NewIndex(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Index{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
	}
}

// Upsert stores the chunks in batches of driven.UpsertBatchSize,
// creating the collection on first use with the dimension of the first
// embedding.
func (idx *Index) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := idx.ensureCollection(ctx, len(chunks[0].Embedding)); err != nil {
		return err
	}

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
	points := make([]map[string]any, len(chunks))
	for i, chunk := range chunks {
		points[i] = map[string]any{
			"id":     uuid.New().String(),
			"vector": chunk.Embedding,
			"payload": map[string]any{
				"text":     chunk.Text,
				"metadata": chunk.Metadata,
			},
		}
	}
	path := fmt.Sprintf("/collections/%s/points?wait=true", idx.collection)
	return idx.do(ctx, http.MethodPut, path, map[string]any{"points": points}, nil)
}

// Query returns the n best matches by ascending distance.
func (idx *Index) Query(ctx context.Context, vector []float32, n int) ([]driven.Match, error) {
	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload struct {
				Text     string         `json:"text"`
				Metadata map[string]any `json:"metadata"`
			} `json:"payload"`
		} `json:"result"`
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        n,
		"with_payload": true,
	}
	path := fmt.Sprintf("/collections/%s/points/search", idx.collection)
	if err := idx.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	matches := make([]driven.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		matches = append(matches, driven.Match{
			Text:     r.Payload.Text,
			Metadata: r.Payload.Metadata,
			// Qdrant returns cosine similarity; result order is
			// preserved, only the scale flips.
			Distance: 1 - r.Score,
		})
	}
	return matches, nil
}

// Stats reports the collection state.
func (idx *Index) Stats(ctx context.Context) (*driven.IndexStats, error) {
	var resp struct {
		Result struct {
			PointsCount int `json:"points_count"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s", idx.collection)
	if err := idx.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &driven.IndexStats{
		CollectionName: idx.collection,
		TotalCount:     resp.Result.PointsCount,
		Location:       idx.baseURL,
	}, nil
}

// Clear drops the collection.
func (idx *Index) Clear(ctx context.Context) error {
	idx.mu.Lock()
	idx.ensured = false
	idx.mu.Unlock()

	logger.Warn("Dropping collection %s", idx.collection)
	path := fmt.Sprintf("/collections/%s", idx.collection)
	return idx.do(ctx, http.MethodDelete, path, nil, nil)
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// ensureCollection creates the collection if it does not exist yet.
// Qdrant answers 200 for an existing collection with the same schema.
func (idx *Index) ensureCollection(ctx context.Context, dimension int) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.ensured {
		return nil
	}
	if dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", dimension)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	path := fmt.Sprintf("/collections/%s", idx.collection)
	if err := idx.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return err
	}
	idx.ensured = true
	return nil
}

// do sends one JSON request and decodes the response into out when
// out is non-nil.
func (idx *Index) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, idx.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idx.apiKey != "" {
		req.Header.Set("api-key", idx.apiKey)
	}

	resp, err := idx.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s: status %d: %s", method, path, resp.StatusCode, string(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
