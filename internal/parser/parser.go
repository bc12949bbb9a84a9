// Package parser extracts positioned, sized text spans from documents.
// Each format maps its own notion of font size onto points so that the
// outline classifier can compare blocks across formats.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Parser converts raw document bytes into sized text blocks.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Source, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".docx":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".txt":      true,
}

// Extensions returns the supported extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(SupportedExtensions))
	for ext := range SupportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// blockBuilder accumulates blocks and assigns per-page IDs.
type blockBuilder struct {
	page   int
	nextID int
	blocks []doctree.RawBlock
}

func newBlockBuilder() *blockBuilder {
	return &blockBuilder{page: 1}
}

func (b *blockBuilder) add(spans ...doctree.TextSpan) {
	var kept []doctree.TextSpan
	for _, s := range spans {
		if strings.TrimSpace(s.Text) != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return
	}
	b.blocks = append(b.blocks, doctree.RawBlock{Page: b.page, ID: b.nextID, Spans: kept})
	b.nextID++
}

func (b *blockBuilder) newPage() {
	b.page++
	b.nextID = 0
}

func (b *blockBuilder) source(title string) *doctree.Source {
	return &doctree.Source{Title: strings.TrimSpace(title), Pages: b.page, Blocks: b.blocks}
}
