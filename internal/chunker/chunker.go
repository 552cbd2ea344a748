// Package chunker splits canonical text into overlapping chunks with
// sentence-boundary snapping.
package chunker

import (
	"strings"
	"unicode"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/logger"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 200

// DefaultMinChunkSize is the default minimum size of an emitted chunk.
const DefaultMinChunkSize = 100

// boundaryWindow is the symmetric search distance around a tentative
// chunk end when snapping to a sentence boundary.
const boundaryWindow = 100

// Chunker produces a deterministic, overlap-preserving segmentation of
// normalized text. Configuration is immutable per instance.
//
// Offsets and sizes are measured in runes of the input text.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
	minChunkSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks in runes.
func WithChunkOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.chunkOverlap = overlap
		}
	}
}

// WithMinChunkSize sets the minimum size of an emitted chunk; shorter
// chunks are dropped, not merged or padded.
func WithMinChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.minChunkSize = size
		}
	}
}

// New creates a chunker with the given options.
//
// chunk_overlap >= chunk_size is tolerated rather than rejected: the
// cursor guard in Chunk clamps the next start to 1, which degenerates to
// tiny forward steps but always terminates. Callers that want to fail
// fast should validate their configuration before construction.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		minChunkSize: DefaultMinChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.chunkOverlap >= c.chunkSize {
		logger.Warn("chunk overlap %d >= chunk size %d: expect degenerate stepping", c.chunkOverlap, c.chunkSize)
	}
	return c
}

// Chunk splits text into ordered overlapping chunks. Each emitted chunk
// carries the document metadata extended with chunk_index, start_char,
// end_char and chunk_size; its ID equals its chunk_index.
//
// The output is byte-for-byte reproducible for identical inputs and
// configuration.
func (c *Chunker) Chunk(text string, metadata map[string]any) []domain.Chunk {
	runes := []rune(text)
	size := len(runes)

	var chunks []domain.Chunk
	chunkID := 0
	start := 0

	for start < size {
		// Tentative end. Kept unclamped for cursor advance so the loop
		// always makes progress; the slice below clamps.
		end := start + c.chunkSize

		if end < size {
			if snapped, ok := c.snapToSentence(runes, start, end); ok {
				end = snapped
			}
		}

		sliceEnd := end
		if sliceEnd > size {
			sliceEnd = size
		}

		chunkText := strings.TrimSpace(string(runes[start:sliceEnd]))
		if runeLen(chunkText) >= c.minChunkSize {
			chunkMetadata := domain.CopyMetadata(metadata)
			if chunkMetadata == nil {
				chunkMetadata = make(map[string]any)
			}
			chunkMetadata[domain.MetaChunkIndex] = chunkID
			chunkMetadata[domain.MetaStartChar] = start
			chunkMetadata[domain.MetaEndChar] = sliceEnd
			chunkMetadata[domain.MetaChunkSize] = runeLen(chunkText)

			chunks = append(chunks, domain.Chunk{
				ID:       chunkID,
				Text:     chunkText,
				Metadata: chunkMetadata,
			})
			chunkID++
		}

		prev := start
		start = end - c.chunkOverlap
		if start <= 0 {
			// Guard against non-progress under pathological parameters.
			start = 1
		}
		if start <= prev {
			// A snapped end can land within the overlap distance of the
			// cursor; step past it or the loop never terminates.
			start = prev + 1
		}
	}

	logger.Debug("Created %d chunks from %d runes", len(chunks), size)
	return chunks
}

// snapToSentence searches a symmetric window around end for the last
// sentence terminator followed by whitespace and returns the position
// just past that whitespace run. ok is false when the window holds no
// terminator; the caller keeps the arithmetic boundary (a hard cut
// mid-sentence beats unbounded searching).
func (c *Chunker) snapToSentence(runes []rune, start, end int) (int, bool) {
	windowStart := end - boundaryWindow
	if windowStart < start {
		windowStart = start
	}
	windowEnd := end + boundaryWindow
	if windowEnd > len(runes) {
		windowEnd = len(runes)
	}

	best := -1
	for i := windowStart; i < windowEnd-1; i++ {
		if !isTerminator(runes[i]) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		j := i + 1
		for j < windowEnd && unicode.IsSpace(runes[j]) {
			j++
		}
		best = j
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func runeLen(s string) int {
	return len([]rune(s))
}
