package outline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func blk(page, id int, text string, size float64) doctree.Block {
	return doctree.Block{Page: page, ID: id, Text: text, FontSize: size, MaxFontSize: size}
}

// body returns n distinct body-text blocks on page 1 starting at id.
func body(n, id int, size float64) []doctree.Block {
	out := make([]doctree.Block, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, blk(1, id+i, fmt.Sprintf("body paragraph number %d", i), size))
	}
	return out
}

func TestBuildOutline_NumberedPrefixDoesNotBypassSizeGate(t *testing.T) {
	blocks := []doctree.Block{
		blk(1, 0, "Introduction", 24),
		blk(1, 1, "1. Background", 18),
		blk(1, 2, "some body text repeated twice", 12),
		blk(1, 3, "some body text repeated twice", 12),
	}

	th, ok := ComputeThresholds(blocks)
	require.True(t, ok)
	assert.InDelta(t, 16.5, th.Mean, 1e-9)
	assert.InDelta(t, 21.47, th.Threshold, 0.01)
	assert.InDelta(t, 12.9, th.Floor, 1e-9)

	got := BuildOutline(blocks)
	assert.Equal(t, []doctree.OutlineEntry{
		{Level: 1, Text: "Introduction", Page: 1},
	}, got)
}

func TestBuildOutline_ParenthesizedOverrideBypassesThreshold(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(1, 0, "Overview", 24),
		blk(1, 1, "（1）概要説明", 14),
	}, body(4, 2, 12)...)

	got := BuildOutline(blocks)
	assert.Equal(t, []doctree.OutlineEntry{
		{Level: 1, Text: "Overview", Page: 1},
		{Level: 2, Text: "（1）概要説明", Page: 1},
	}, got)
}

func TestBuildOutline_OverrideBelowFloorIsDropped(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(1, 0, "Overview", 24),
		blk(1, 1, "(1) tiny footnote marker", 12),
	}, body(4, 2, 12)...)

	got := BuildOutline(blocks)
	assert.Equal(t, []doctree.OutlineEntry{
		{Level: 1, Text: "Overview", Page: 1},
	}, got)
}

func TestBuildOutline_OverrideLevelReplacesSizeLevel(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(1, 0, "Annual Report", 30),
		blk(1, 1, "3. Results", 24),
	}, body(6, 2, 12)...)

	got := BuildOutline(blocks)
	require.Len(t, got, 2)
	assert.Equal(t, doctree.Level(1), got[0].Level)
	assert.Equal(t, "3. Results", got[1].Text)
	assert.Equal(t, doctree.Level(1), got[1].Level, "numbered override should win over size rank H2")
}

func TestBuildOutline_ReadingOrderNotLevelOrder(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(1, 0, "Section Heading", 20),
		blk(1, 1, "Document Title", 28),
	}, body(8, 2, 12)...)

	got := BuildOutline(blocks)
	assert.Equal(t, []doctree.OutlineEntry{
		{Level: 2, Text: "Section Heading", Page: 1},
		{Level: 1, Text: "Document Title", Page: 1},
	}, got)
}

func TestBuildOutline_SortsByPageThenBlock(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(2, 0, "Second Page Heading", 24),
		blk(1, 5, "Later Heading", 24),
		blk(1, 1, "Earlier Heading", 24),
	}, body(6, 10, 12)...)

	got := BuildOutline(blocks)
	var texts []string
	for _, e := range got {
		texts = append(texts, e.Text)
	}
	assert.Equal(t, []string{"Earlier Heading", "Later Heading", "Second Page Heading"}, texts)
}

func TestBuildOutline_DedupPerPage(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(1, 0, "Chapter One", 24),
		blk(1, 1, "Chapter  One", 24),
		blk(2, 0, "Chapter One", 24),
	}, body(4, 2, 12)...)

	got := BuildOutline(blocks)
	assert.Equal(t, []doctree.OutlineEntry{
		{Level: 1, Text: "Chapter One", Page: 1},
		{Level: 1, Text: "Chapter One", Page: 2},
	}, got)
}

func TestBuildOutline_NoiseFilters(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(1, 0, "Page 3 / 10", 24),
		blk(1, 1, "International Software Testing Qualifications Board", 24),
		blk(1, 2, "Real Heading", 24),
	}, body(4, 3, 12)...)

	got := BuildOutline(blocks)
	assert.Equal(t, []doctree.OutlineEntry{
		{Level: 1, Text: "Real Heading", Page: 1},
	}, got)
}

func TestBuildOutline_PaddedListMarkerDropped(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(1, 0, "  B.  ", 24),
		blk(1, 1, "Real Heading", 24),
	}, body(4, 2, 12)...)

	got := BuildOutline(blocks)
	assert.Equal(t, []doctree.OutlineEntry{
		{Level: 1, Text: "Real Heading", Page: 1},
	}, got)
}

func TestBuildOutline_ExtraBoilerplate(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(1, 0, "ACME Corporation Confidential", 24),
		blk(1, 1, "Real Heading", 24),
	}, body(4, 2, 12)...)

	c := DefaultClassifier().WithBoilerplate("ACME Corporation", "  ")
	got := c.Build(blocks)
	assert.Equal(t, []doctree.OutlineEntry{
		{Level: 1, Text: "Real Heading", Page: 1},
	}, got)

	// The default classifier is left untouched.
	assert.Len(t, BuildOutline(blocks), 2)
}

func TestBuildOutline_EmptyInputs(t *testing.T) {
	tests := []struct {
		name   string
		blocks []doctree.Block
	}{
		{"nil", nil},
		{"all short", []doctree.Block{blk(1, 0, "ab", 30), blk(1, 1, "A.", 12), blk(1, 2, "•", 10)}},
		{"uniform size", []doctree.Block{blk(1, 0, "first line", 12), blk(1, 1, "second line", 12)}},
		{"single block", []doctree.Block{blk(1, 0, "Lonely Heading", 40)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, BuildOutline(tc.blocks))
		})
	}
}

func TestBuildOutline_Deterministic(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(1, 0, "Document Title", 28),
		blk(1, 1, "Section A", 20),
		blk(2, 0, "Section B", 20),
		blk(2, 1, "Subsection B.1", 16.5),
	}, body(10, 2, 11)...)

	first := BuildOutline(blocks)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildOutline(blocks))
	}
}

func TestBuildOutline_AdditiveShiftKeepsCandidates(t *testing.T) {
	base := append([]doctree.Block{
		blk(1, 0, "Document Title", 28),
		blk(1, 1, "Section Heading", 20),
	}, body(8, 2, 12)...)

	shifted := make([]doctree.Block, len(base))
	for i, b := range base {
		b.FontSize += 5
		shifted[i] = b
	}

	assert.Equal(t, BuildOutline(base), BuildOutline(shifted))
}

func TestBuildOutline_ScaledSizesKeepCandidatesAndLevels(t *testing.T) {
	base := append([]doctree.Block{
		blk(1, 0, "Document Title", 28),
		blk(1, 1, "Section Heading", 20),
		blk(2, 0, "（2）詳細", 14),
	}, body(8, 2, 12)...)

	for _, factor := range []float64{0.5, 2, 3.25} {
		scaled := make([]doctree.Block, len(base))
		for i, b := range base {
			b.FontSize *= factor
			b.MaxFontSize *= factor
			scaled[i] = b
		}
		assert.Equal(t, BuildOutline(base), BuildOutline(scaled), "factor %v", factor)
	}
	require.Len(t, BuildOutline(base), 3)
}

func TestBuildOutline_LevelsFollowDescendingSize(t *testing.T) {
	blocks := append([]doctree.Block{
		blk(1, 0, "Alpha Heading", 26),
		blk(1, 1, "Beta Heading", 22),
		blk(1, 2, "Gamma Heading", 26),
		blk(2, 0, "Delta Heading", 24),
	}, body(12, 3, 10)...)

	sizeOf := make(map[string]float64)
	for _, b := range blocks {
		sizeOf[b.Text] = b.FontSize
	}

	got := BuildOutline(blocks)
	require.NotEmpty(t, got)
	levelSize := make(map[doctree.Level]float64)
	for _, e := range got {
		levelSize[e.Level] = sizeOf[e.Text]
	}
	for l := doctree.Level(2); int(l) <= len(levelSize); l++ {
		assert.Greater(t, levelSize[l-1], levelSize[l], "H%d must be set larger than H%d", l-1, l)
	}
	assert.Equal(t, doctree.Level(1), got[0].Level)
}

func TestComputeThresholds_Empty(t *testing.T) {
	_, ok := ComputeThresholds(nil)
	assert.False(t, ok)
}

func TestMatchOverride(t *testing.T) {
	tests := []struct {
		text string
		want doctree.Level
	}{
		{"Part 1. Introduction", 1},
		{"付録1 用語集", 1},
		{"Appendix A", 1},
		{"Appendix B: Glossary", 1},
		{"付録１", 1},
		{"Appendix Overview", 0},
		{"APPENDIX Tables", 0},
		{"1. Background", 1},
		{"１．背景", 1},
		{"12.", 1},
		{"1.2 Scope", 0},
		{"（1）概要", 2},
		{"(2) Details", 2},
		{"実施要領（続き）", 2},
		{"Results (continued)", 2},
		{"Introduction", 0},
		{"Summary of part 1.", 0},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, matchOverride(DefaultOverrides, tc.text))
		})
	}
}
