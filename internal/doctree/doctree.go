package doctree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TextSpan is one fragment of laid-out text as produced by a parser.
type TextSpan struct {
	Text     string
	FontSize float64 // points; 0 when the extractor could not tell
	X        float64 // horizontal position (0 if N/A)
}

// RawBlock is a visual grouping of spans on one page, before normalization.
type RawBlock struct {
	Page  int // 1-based
	ID    int // unique within the page; ordering key only
	Spans []TextSpan
}

// Source is everything a parser extracts from one document.
type Source struct {
	Title  string // Document metadata title (empty if absent)
	Pages  int
	Blocks []RawBlock
}

// Block is a normalized unit of text belonging to one grouping on one page.
type Block struct {
	Page        int
	ID          int
	Text        string
	FontSize    float64 // character-weighted mean of span sizes
	MaxFontSize float64 // largest span size, used for title inference
}

// Level is a heading rank: 1 for H1, 2 for H2, and so on.
type Level int

func (l Level) String() string {
	return "H" + strconv.Itoa(int(l))
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	rest, ok := strings.CutPrefix(s, "H")
	n, err := strconv.Atoi(rest)
	if !ok || err != nil || n <= 0 || strconv.Itoa(n) != rest {
		return fmt.Errorf("invalid heading level %q", s)
	}
	*l = Level(n)
	return nil
}

// OutlineEntry is one heading in the final outline.
type OutlineEntry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Document is the structural record written for every input file.
type Document struct {
	Title   string         `json:"title"`
	Outline []OutlineEntry `json:"outline"`
}

// MarshalJSON keeps an empty outline as [] rather than null. Text is
// written without HTML escaping.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	p := plain(d)
	if p.Outline == nil {
		p.Outline = []OutlineEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
