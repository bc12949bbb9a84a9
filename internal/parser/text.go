package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

const textSize = 12

// TextParser handles plain text files. Paragraphs are separated by blank
// lines and a form feed starts a new page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newBlockBuilder()
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			b.add(doctree.TextSpan{Text: current.String(), FontSize: textSize})
			current.Reset()
		}
	}

	for scanner.Scan() {
		for i, line := range strings.Split(scanner.Text(), "\f") {
			if i > 0 {
				flush()
				b.newPage()
			}
			if strings.TrimSpace(line) == "" {
				flush()
				continue
			}
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.source(""), nil
}
