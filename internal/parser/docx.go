package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Point sizes used when neither the run nor the paragraph sets w:sz.
var docxStyleSizes = map[string]float64{
	"title":    28,
	"heading1": 16,
	"heading2": 13,
	"heading3": 12,
}

const docxBodySize = 11

// DOCXParser handles .docx files. Every paragraph becomes one block.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	return docxSource(doc), nil
}

func docxSource(doc *docx.Docx) *doctree.Source {
	b := newBlockBuilder()
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		base := docxParagraphSize(para)
		var spans []doctree.TextSpan
		for _, child := range para.Children {
			var run *docx.Run
			link := false
			switch c := child.(type) {
			case *docx.Run:
				run = c
			case *docx.Hyperlink:
				run, link = &c.Run, true
			default:
				continue
			}

			size := docxRunSize(run.RunProperties, base)
			var text strings.Builder
			for _, rc := range run.Children {
				switch x := rc.(type) {
				case *docx.Text:
					text.WriteString(x.Text)
				case *docx.Tab:
					text.WriteByte(' ')
				case *docx.BarterRabbet:
					if x.Type != "page" {
						text.WriteByte(' ')
						continue
					}
					spans = append(spans, doctree.TextSpan{Text: text.String(), FontSize: size})
					text.Reset()
					b.add(spans...)
					spans = nil
					b.newPage()
				}
			}
			if link && text.Len() == 0 {
				text.WriteString(run.InstrText)
			}
			spans = append(spans, doctree.TextSpan{Text: text.String(), FontSize: size})
		}
		b.add(spans...)
	}
	return b.source("")
}

// docxParagraphSize is the size a run inherits from its paragraph.
func docxParagraphSize(para *docx.Paragraph) float64 {
	if para.Properties == nil {
		return docxBodySize
	}
	base := float64(docxBodySize)
	if para.Properties.Style != nil {
		style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
		if s, ok := docxStyleSizes[style]; ok {
			base = s
		}
	}
	return docxRunSize(para.Properties.RunProperties, base)
}

// docxRunSize reads w:sz, which is expressed in half-points.
func docxRunSize(props *docx.RunProperties, fallback float64) float64 {
	if props == nil || props.Size == nil {
		return fallback
	}
	halfPoints, err := strconv.ParseFloat(props.Size.Val, 64)
	if err != nil || halfPoints <= 0 {
		return fallback
	}
	return halfPoints / 2
}
