package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"

	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/docoutline/internal/doctree"
)

const (
	// wordGapRatio is the horizontal gap, relative to font size, that
	// separates two words inside a span.
	wordGapRatio = 0.15
	// blockGapRatio is the vertical gap, relative to line height, that
	// starts a new block.
	blockGapRatio = 1.3
	// sizeChangeRatio is the relative font size change that starts a new block.
	sizeChangeRatio = 0.15
)

// PDFParser handles PDF files.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (src *doctree.Source, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	// The content stream interpreter panics on some malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			src = nil
			err = fmt.Errorf("malformed pdf %s: %v", filename, rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	src = &doctree.Source{
		Title: reader.Trailer().Key("Info").Key("Title").Text(),
		Pages: reader.NumPage(),
	}
	for i := 1; i <= src.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		src.Blocks = append(src.Blocks, groupGlyphs(i, page.Content().Text)...)
	}
	return src, nil
}

// pdfLine is a run of glyphs sharing a baseline.
type pdfLine struct {
	y     float64
	size  float64
	spans []doctree.TextSpan
}

// groupGlyphs merges glyphs into spans, spans into lines and lines into
// blocks for one page.
func groupGlyphs(page int, glyphs []pdflib.Text) []doctree.RawBlock {
	lines := groupLines(glyphs)

	var blocks []doctree.RawBlock
	var cur []doctree.TextSpan
	var prev *pdfLine
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, doctree.RawBlock{Page: page, ID: len(blocks), Spans: cur})
			cur = nil
		}
	}

	for i := range lines {
		ln := &lines[i]
		if prev != nil && startsBlock(prev, ln) {
			flush()
		}
		cur = append(cur, ln.spans...)
		prev = ln
	}
	flush()
	return blocks
}

func startsBlock(prev, ln *pdfLine) bool {
	gap := prev.y - ln.y
	if gap < 0 || gap > blockGapRatio*prev.size {
		return true
	}
	if prev.size > 0 && math.Abs(ln.size-prev.size)/prev.size > sizeChangeRatio {
		return true
	}
	return false
}

func groupLines(glyphs []pdflib.Text) []pdfLine {
	var lines []pdfLine
	var span *doctree.TextSpan
	var spanFont string
	var spanEnd float64

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		var ln *pdfLine
		if n := len(lines); n > 0 && sameBaseline(lines[n-1].y, g) {
			ln = &lines[n-1]
		} else {
			lines = append(lines, pdfLine{y: g.Y})
			ln = &lines[len(lines)-1]
			span = nil
		}

		if span != nil && spanFont == g.Font && span.FontSize == g.FontSize {
			if g.X-spanEnd > wordGapRatio*g.FontSize {
				span.Text += " "
			}
			span.Text += norm.NFC.String(g.S)
		} else {
			ln.spans = append(ln.spans, doctree.TextSpan{
				Text:     norm.NFC.String(g.S),
				FontSize: g.FontSize,
				X:        g.X,
			})
			span = &ln.spans[len(ln.spans)-1]
			spanFont = g.Font
		}
		spanEnd = g.X + g.W
		if g.FontSize > ln.size {
			ln.size = g.FontSize
		}
	}
	return lines
}

func sameBaseline(y float64, g pdflib.Text) bool {
	tol := 0.5 * g.FontSize
	if tol < 1 {
		tol = 1
	}
	return math.Abs(g.Y-y) <= tol
}
