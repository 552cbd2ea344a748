package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported document format.
type Format string

// Supported formats.
const (
	// FormatPDF is a PDF document (.pdf).
	FormatPDF Format = "pdf"

	// FormatDOCX is a modern Word document (.docx).
	FormatDOCX Format = "docx"

	// FormatDOC is a legacy binary Word document (.doc).
	FormatDOC Format = "doc"
)

// IsValid returns true if the format is recognised.
func (f Format) IsValid() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatDOC:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// FormatForPath maps a file path to its format by extension,
// case-insensitively. The second return is false for anything
// other than .pdf, .docx and .doc.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, true
	case ".docx":
		return FormatDOCX, true
	case ".doc":
		return FormatDOC, true
	default:
		return "", false
	}
}

// AllFormats lists every format the pipeline knows about.
func AllFormats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatDOC}
}

// EmbeddingProvider identifies an embedding service provider.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI cloud API or a
	// compatible endpoint.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
)

// IsValid returns true if the embedding provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderOllama, EmbeddingProviderOpenAI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}
