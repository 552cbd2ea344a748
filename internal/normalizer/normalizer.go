// Package normalizer cleans raw extracted text into the canonical string
// the chunker consumes. Normalization is pure: no I/O, no errors, empty
// in means empty out.
package normalizer

import (
	"regexp"
	"strings"
)

// DefaultSeriesMarker is the document-series marker used to recognise
// boilerplate header/footer lines (a page number followed by the marker).
const DefaultSeriesMarker = "3GPP"

// Normalizer applies a fixed sequence of cleaning steps:
//
//  1. Remove boilerplate lines (page number + series marker). This must
//     run while the text still has its line structure.
//  2. Strip characters outside the allow-list: letters, digits,
//     underscore, whitespace and . , ; : ( ) [ ] - / # |
//  3. Squeeze runs of blank lines.
//  4. Collapse any whitespace run to a single space.
//  5. Trim.
//
// The order makes Normalize idempotent: a second pass over its own
// output changes nothing.
type Normalizer struct {
	boilerplate *regexp.Regexp
	disallowed  *regexp.Regexp
	blankLines  *regexp.Regexp
	whitespace  *regexp.Regexp
}

// Option configures the normalizer.
type Option func(*options)

type options struct {
	seriesMarker string
}

// WithSeriesMarker sets the document-series marker for boilerplate line
// recognition. An empty marker disables boilerplate removal.
func WithSeriesMarker(marker string) Option {
	return func(o *options) {
		o.seriesMarker = marker
	}
}

// New creates a normalizer. Without options the DefaultSeriesMarker is used.
func New(opts ...Option) *Normalizer {
	o := options{seriesMarker: DefaultSeriesMarker}
	for _, opt := range opts {
		opt(&o)
	}

	n := &Normalizer{
		disallowed: regexp.MustCompile(`[^\p{L}\p{N}_\s.,;:()\[\]\-/#|]+`),
		blankLines: regexp.MustCompile(`\n\s*\n(\s*\n)+`),
		whitespace: regexp.MustCompile(`\s+`),
	}
	if o.seriesMarker != "" {
		n.boilerplate = regexp.MustCompile(`(?m)^\s*\d+\s+` + regexp.QuoteMeta(o.seriesMarker) + `.*$`)
	}
	return n
}

// Normalize turns raw extractor output into canonical chunk-ready text.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw
	if n.boilerplate != nil {
		text = n.boilerplate.ReplaceAllString(text, "")
	}
	text = n.disallowed.ReplaceAllString(text, "")
	text = n.blankLines.ReplaceAllString(text, "\n\n")
	text = n.whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
