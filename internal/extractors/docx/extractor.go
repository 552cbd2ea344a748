// Package docx extracts text from modern Word documents natively.
// A .docx file is a ZIP archive; text lives in word/document.xml and
// document properties in docProps/core.xml.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// BackendName identifies this backend in capability reports and metadata.
const BackendName = "native-zip"

// Extractor handles DOCX documents without external tools.
type Extractor struct{}

// New creates a DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the document format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatDOCX
}

// Backend names the concrete extraction backend.
func (e *Extractor) Backend() string {
	return BackendName
}

// Detect always succeeds: the archive/zip and encoding/xml decoders need
// no runtime environment.
func (e *Extractor) Detect(_ context.Context) bool {
	return true
}

// Extract reads paragraphs and tables from the document. Heading
// paragraphs are prefixed with "## " so section structure survives
// normalization; table rows are rendered with " | " between cells and
// appended after the paragraph text.
func (e *Extractor) Extract(_ context.Context, path string) (*domain.ExtractionResult, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: open archive: %w", domain.ErrExtractionFailed, BackendName, err)
	}
	defer reader.Close()

	body, err := readArchiveFile(&reader.Reader, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, BackendName, err)
	}

	var document documentXML
	if err := xml.Unmarshal(body, &document); err != nil {
		return nil, fmt.Errorf("%w: %s: parse document.xml: %w", domain.ErrExtractionFailed, BackendName, err)
	}

	metadata := map[string]any{
		domain.MetaSource:           filepath.Base(path),
		domain.MetaFormat:           string(domain.FormatDOCX),
		domain.MetaExtractionMethod: BackendName,
		"file_path":                 path,
		"num_paragraphs":            len(document.Body.Paragraphs),
		"num_tables":                len(document.Body.Tables),
	}
	addCoreProperties(&reader.Reader, metadata)

	return &domain.ExtractionResult{
		Text:     renderText(&document),
		Metadata: metadata,
	}, nil
}

// documentXML mirrors the parts of word/document.xml the extractor reads.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Props *paragraphProps `xml:"pPr"`
	Runs  []run           `xml:"r"`
}

type paragraphProps struct {
	Style *paragraphStyle `xml:"pStyle"`
}

type paragraphStyle struct {
	Val string `xml:"val,attr"`
}

func (p *paragraph) style() string {
	if p.Props == nil || p.Props.Style == nil {
		return ""
	}
	return p.Props.Style.Val
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type table struct {
	Rows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

func (p *paragraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

// renderText flattens paragraphs and tables into plain text.
func renderText(document *documentXML) string {
	var parts []string

	for _, para := range document.Body.Paragraphs {
		text := strings.TrimSpace(para.text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(para.style(), "Heading") {
			parts = append(parts, "## "+text)
		} else {
			parts = append(parts, text)
		}
	}

	for _, tbl := range document.Body.Tables {
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				var cellText []string
				for _, para := range cell.Paragraphs {
					if t := strings.TrimSpace(para.text()); t != "" {
						cellText = append(cellText, t)
					}
				}
				cells = append(cells, strings.Join(cellText, " "))
			}
			rowText := strings.Join(cells, " | ")
			if strings.TrimSpace(strings.ReplaceAll(rowText, "|", "")) != "" {
				parts = append(parts, rowText)
			}
		}
	}

	return strings.Join(parts, "\n")
}

// coreXML mirrors docProps/core.xml.
type coreXML struct {
	Title  string `xml:"title"`
	Author string `xml:"creator"`
}

// addCoreProperties fills title and author from docProps/core.xml when present.
func addCoreProperties(reader *zip.Reader, metadata map[string]any) {
	body, err := readArchiveFile(reader, "docProps/core.xml")
	if err != nil || body == nil {
		return
	}
	var core coreXML
	if err := xml.Unmarshal(body, &core); err != nil {
		return
	}
	if title := strings.TrimSpace(core.Title); title != "" {
		metadata["title"] = title
	}
	if author := strings.TrimSpace(core.Author); author != "" {
		metadata["author"] = author
	}
}

// readArchiveFile returns the named file's content, or nil when the
// archive does not contain it.
func readArchiveFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return body, nil
	}
	return nil, nil
}
