package outline

import (
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// InferTitle returns the text of the first-page block set in the largest
// font, or "" when the first page has nothing usable. Ties keep the block
// encountered first.
func InferTitle(blocks []doctree.Block) string {
	var best string
	var bestSize float64
	for _, b := range blocks {
		if b.Page != 1 || b.Text == "" {
			continue
		}
		if b.MaxFontSize > bestSize {
			best = b.Text
			bestSize = b.MaxFontSize
		}
	}
	return best
}

// FileStem returns the base name of a file without its extension.
func FileStem(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// resolveTitle applies the title fallback chain: metadata, the largest
// first-page block, then the file stem.
func resolveTitle(meta string, blocks []doctree.Block, filename string) string {
	if t := NormalizeSpace(meta); t != "" {
		return t
	}
	if t := InferTitle(blocks); t != "" {
		return t
	}
	if stem := FileStem(filename); stem != "" {
		return stem
	}
	return "untitled"
}
