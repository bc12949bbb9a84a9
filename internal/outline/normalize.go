package outline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// denseScript covers scripts written without inter-word spaces:
// CJK ideographs (incl. extension A), Hiragana, Katakana and Hangul syllables.
var denseScript = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3040, Hi: 0x309f, Stride: 1},
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1},
		{Lo: 0x3400, Hi: 0x4dbf, Stride: 1},
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1},
		{Lo: 0xac00, Hi: 0xd7af, Stride: 1},
	},
}

// denseRatio is the share of dense-script runes above which fragments are
// joined without separators.
const denseRatio = 0.30

// NormalizeSpace collapses every whitespace run to a single space and trims.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize joins the raw fragments of one block into a single string.
// Dense-script text is concatenated as-is; everything else is space-joined.
func Normalize(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}

	joined := NormalizeSpace(strings.Join(fragments, ""))
	total := utf8.RuneCountInString(joined)
	if total == 0 {
		return ""
	}

	dense := 0
	for _, r := range joined {
		if unicode.Is(denseScript, r) {
			dense++
		}
	}
	if float64(dense) > denseRatio*float64(total) {
		return joined
	}
	return NormalizeSpace(strings.Join(fragments, " "))
}

// BuildBlocks normalizes every raw block of a source. Blocks that end up
// empty are dropped.
func BuildBlocks(src *doctree.Source) []doctree.Block {
	if src == nil {
		return nil
	}

	blocks := make([]doctree.Block, 0, len(src.Blocks))
	for _, rb := range src.Blocks {
		fragments := make([]string, 0, len(rb.Spans))
		var weighted, maxSize float64
		chars := 0
		for _, sp := range rb.Spans {
			fragments = append(fragments, sp.Text)
			n := utf8.RuneCountInString(sp.Text)
			chars += n
			weighted += sp.FontSize * float64(n)
			if sp.FontSize > maxSize {
				maxSize = sp.FontSize
			}
		}

		text := Normalize(fragments)
		if text == "" {
			continue
		}

		var size float64
		if chars > 0 {
			size = weighted / float64(chars)
		}
		blocks = append(blocks, doctree.Block{
			Page:        rb.Page,
			ID:          rb.ID,
			Text:        text,
			FontSize:    size,
			MaxFontSize: maxSize,
		})
	}
	return blocks
}
