// Package outline turns normalized text blocks into a document outline.
//
// Heading levels are inferred from font size statistics alone: blocks set
// at least one standard deviation above the mean size become headings, and
// the distinct sizes among them are ranked into H1, H2, and so on. A small
// table of textual overrides can force a level, and a noise filter drops
// running headers, page footers and duplicates.
package outline

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

const (
	// minTextLen is the longest text still treated as an extraction artifact.
	minTextLen = 2
	// floorFraction places the size floor this far from the smallest size
	// towards the mean.
	floorFraction = 0.2
	// sigmaFactor scales the standard deviation added to the mean.
	sigmaFactor = 1.0
)

// DefaultBoilerplate lists organization names that recur as running headers.
var DefaultBoilerplate = []string{
	"International Software Testing Qualifications Board",
	"Qualifications Board",
	"All rights reserved",
	"Copyright ©",
}

var (
	pageFooterPattern = regexp.MustCompile(`(?i)^page\s*\d+\s*(?:/|of)\s*\d+$`)
	// Only reachable for blocks not built by BuildBlocks: padded text such
	// as " A. " passes the length pre-filter and shrinks on re-normalization.
	listMarkerPattern = regexp.MustCompile(`^\p{L}\.?$`)
)

// Classifier decides which blocks are headings and at what level.
// It holds no per-document state and is safe for concurrent use.
type Classifier struct {
	overrides   []Override
	boilerplate []string
}

// NewClassifier builds a classifier with the given override table and
// boilerplate phrases.
func NewClassifier(overrides []Override, boilerplate []string) *Classifier {
	return &Classifier{
		overrides:   overrides,
		boilerplate: boilerplate,
	}
}

// DefaultClassifier uses the built-in override table and boilerplate list.
func DefaultClassifier() *Classifier {
	return NewClassifier(DefaultOverrides, DefaultBoilerplate)
}

// WithBoilerplate returns a copy of c that also drops the given phrases.
func (c *Classifier) WithBoilerplate(extra ...string) *Classifier {
	phrases := make([]string, 0, len(c.boilerplate)+len(extra))
	phrases = append(phrases, c.boilerplate...)
	for _, p := range extra {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	return NewClassifier(c.overrides, phrases)
}

// BuildOutline classifies blocks with the default classifier.
func BuildOutline(blocks []doctree.Block) []doctree.OutlineEntry {
	return DefaultClassifier().Build(blocks)
}

// Thresholds are the size statistics of one document.
type Thresholds struct {
	Min       float64
	Mean      float64
	StdDev    float64
	Floor     float64 // sizes at or below this are never headings
	Threshold float64 // sizes at or above this are headings on size alone
}

// ComputeThresholds derives the size floor and heading threshold from the
// font sizes of blocks. ok is false when blocks is empty.
func ComputeThresholds(blocks []doctree.Block) (t Thresholds, ok bool) {
	if len(blocks) == 0 {
		return Thresholds{}, false
	}

	t.Min = blocks[0].FontSize
	var sum float64
	for _, b := range blocks {
		sum += b.FontSize
		if b.FontSize < t.Min {
			t.Min = b.FontSize
		}
	}
	t.Mean = sum / float64(len(blocks))

	var sq float64
	for _, b := range blocks {
		d := b.FontSize - t.Mean
		sq += d * d
	}
	t.StdDev = math.Sqrt(sq / float64(len(blocks)))

	t.Floor = t.Min + floorFraction*(t.Mean-t.Min)
	t.Threshold = t.Mean + sigmaFactor*t.StdDev
	return t, true
}

type candidate struct {
	block    doctree.Block
	override doctree.Level
}

// Build returns the outline for one document's blocks in reading order.
func (c *Classifier) Build(blocks []doctree.Block) []doctree.OutlineEntry {
	kept := make([]doctree.Block, 0, len(blocks))
	for _, b := range blocks {
		if utf8.RuneCountInString(b.Text) > minTextLen {
			kept = append(kept, b)
		}
	}

	t, ok := ComputeThresholds(kept)
	if !ok {
		return nil
	}

	var cands []candidate
	for _, b := range kept {
		ov := matchOverride(c.overrides, b.Text)
		if b.FontSize <= t.Floor {
			continue
		}
		if b.FontSize >= t.Threshold || ov == 2 {
			cands = append(cands, candidate{block: b, override: ov})
		}
	}
	if len(cands) == 0 {
		return nil
	}

	sizeLevel := rankSizes(cands)

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i].block, cands[j].block
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return a.ID < b.ID
	})

	type seenKey struct {
		text string
		page int
	}
	seen := make(map[seenKey]bool)

	var entries []doctree.OutlineEntry
	for _, cd := range cands {
		text := NormalizeSpace(cd.block.Text)
		if c.isNoise(text) {
			continue
		}
		key := seenKey{text: text, page: cd.block.Page}
		if seen[key] {
			continue
		}
		seen[key] = true

		level := cd.override
		if level == 0 {
			level = sizeLevel[cd.block.FontSize]
		}
		entries = append(entries, doctree.OutlineEntry{
			Level: level,
			Text:  text,
			Page:  cd.block.Page,
		})
	}
	return entries
}

// rankSizes maps each distinct candidate size to its rank, largest first.
func rankSizes(cands []candidate) map[float64]doctree.Level {
	var sizes []float64
	seen := make(map[float64]bool)
	for _, cd := range cands {
		if !seen[cd.block.FontSize] {
			seen[cd.block.FontSize] = true
			sizes = append(sizes, cd.block.FontSize)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	levels := make(map[float64]doctree.Level, len(sizes))
	for i, s := range sizes {
		levels[s] = doctree.Level(i + 1)
	}
	return levels
}

func (c *Classifier) isNoise(text string) bool {
	for _, phrase := range c.boilerplate {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return pageFooterPattern.MatchString(text) || listMarkerPattern.MatchString(text)
}
