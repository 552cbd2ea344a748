// Package extractors provides implementations of the Extractor interface
// for the supported document formats. Each extractor knows how to pull raw
// text out of one format, either natively or by invoking an external tool.
//
// Extractors are probed for availability once when the Registry is built.
package extractors
