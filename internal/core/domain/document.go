package domain

// Metadata keys shared across the pipeline. Every chunk carries at least
// MetaSource; the chunker adds the positional keys.
const (
	// MetaSource is the originating document identifier (file base name).
	MetaSource = "source"

	// MetaChunkIndex is the 0-based position of a chunk within its document.
	MetaChunkIndex = "chunk_index"

	// MetaStartChar is the rune offset of the chunk start in the
	// normalized source text.
	MetaStartChar = "start_char"

	// MetaEndChar is the rune offset just past the chunk end.
	MetaEndChar = "end_char"

	// MetaChunkSize is the length in runes of the trimmed chunk text.
	MetaChunkSize = "chunk_size"

	// MetaFormat is the source document format ("pdf", "docx", "doc").
	MetaFormat = "format"

	// MetaExtractionMethod names the backend that produced the text.
	MetaExtractionMethod = "extraction_method"
)

// ExtractionResult is the output of a format extractor: the raw document
// text plus whatever metadata the backend could recover. Metadata always
// contains MetaSource; title, author and backend diagnostics are additive.
type ExtractionResult struct {
	// Text is the raw extracted text before normalization.
	Text string

	// Metadata contains document-level key-value pairs.
	Metadata map[string]any
}

// Chunk represents a retrievable unit of normalized document text.
// Chunks are produced in order by the chunker; ID equals the chunk's
// position within its document and never changes afterwards.
type Chunk struct {
	// ID is the sequence number within a single document, starting at 0.
	ID int `json:"chunk_id"`

	// Text is the trimmed chunk content.
	Text string `json:"text"`

	// Metadata carries the document metadata extended with the
	// positional keys (MetaChunkIndex, MetaStartChar, ...).
	Metadata map[string]any `json:"metadata"`

	// Embedding is the vector representation, populated by the
	// embedding stage before indexing. Empty until then.
	Embedding []float32 `json:"embedding,omitempty"`
}

// Source returns the originating document identifier, or "unknown"
// when the metadata is missing it.
func (c Chunk) Source() string {
	if s, ok := c.Metadata[MetaSource].(string); ok && s != "" {
		return s
	}
	return "unknown"
}

// CopyMetadata returns a shallow copy of a metadata map. Chunks must not
// alias the document metadata they extend.
func CopyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// RetrievedDocument is a scored chunk returned for a query.
// It is ephemeral: built per retrieval, never persisted.
type RetrievedDocument struct {
	// Text is the chunk content.
	Text string `json:"text"`

	// Source is the originating document identifier.
	Source string `json:"source"`

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int `json:"chunk_index"`

	// Similarity is 1 - distance. A relative relevance score,
	// not a calibrated probability.
	Similarity float64 `json:"similarity"`
}
