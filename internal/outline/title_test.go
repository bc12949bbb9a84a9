package outline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func TestInferTitle(t *testing.T) {
	tests := []struct {
		name   string
		blocks []doctree.Block
		want   string
	}{
		{"empty", nil, ""},
		{"largest wins", []doctree.Block{
			blk(1, 0, "subtitle", 14),
			blk(1, 1, "The Real Title", 26),
			blk(1, 2, "body", 11),
		}, "The Real Title"},
		{"tie keeps first", []doctree.Block{
			blk(1, 0, "First Big", 24),
			blk(1, 1, "Second Big", 24),
		}, "First Big"},
		{"later pages ignored", []doctree.Block{
			blk(1, 0, "Cover", 18),
			blk(2, 0, "Huge Chapter", 40),
		}, "Cover"},
		{"no first page", []doctree.Block{
			blk(2, 0, "Only Page Two", 20),
		}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferTitle(tc.blocks))
		})
	}
}

func TestInferTitle_UsesMaxFontSize(t *testing.T) {
	blocks := []doctree.Block{
		{Page: 1, ID: 0, Text: "Mixed Title line", FontSize: 12, MaxFontSize: 30},
		{Page: 1, ID: 1, Text: "Uniform heading", FontSize: 20, MaxFontSize: 20},
	}
	assert.Equal(t, "Mixed Title line", InferTitle(blocks))
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "report", FileStem("dir/report.pdf"))
	assert.Equal(t, "archive.tar", FileStem("archive.tar.gz"))
	assert.Equal(t, "README", FileStem("README"))
	assert.Equal(t, "", FileStem(""))
}

func TestResolveTitle(t *testing.T) {
	blocks := []doctree.Block{blk(1, 0, "Inferred Title", 24)}

	assert.Equal(t, "Metadata Title", resolveTitle("  Metadata \n Title ", blocks, "x.pdf"))
	assert.Equal(t, "Inferred Title", resolveTitle("   ", blocks, "x.pdf"))
	assert.Equal(t, "x", resolveTitle("", nil, "in/x.pdf"))
	assert.Equal(t, "untitled", resolveTitle("", nil, ""))
}

type stubValidator struct {
	err  error
	seen *doctree.Document
}

func (s *stubValidator) Validate(doc *doctree.Document) error {
	s.seen = doc
	return s.err
}

func TestAssemble(t *testing.T) {
	src := &doctree.Source{
		Pages: 1,
		Blocks: []doctree.RawBlock{
			{Page: 1, ID: 0, Spans: []doctree.TextSpan{{Text: "Introduction", FontSize: 24}}},
			{Page: 1, ID: 1, Spans: []doctree.TextSpan{{Text: "1. Background", FontSize: 18}}},
			{Page: 1, ID: 2, Spans: []doctree.TextSpan{{Text: "body text", FontSize: 12}}},
			{Page: 1, ID: 3, Spans: []doctree.TextSpan{{Text: "body text", FontSize: 12}}},
		},
	}

	v := &stubValidator{}
	doc, err := Assemble(src, "sample.pdf", v)
	require.NoError(t, err)
	assert.Equal(t, "Introduction", doc.Title)
	assert.Equal(t, []doctree.OutlineEntry{{Level: 1, Text: "Introduction", Page: 1}}, doc.Outline)
	assert.Same(t, doc, v.seen)
}

func TestAssemble_EmptySourceFallsBackToStem(t *testing.T) {
	doc, err := Assemble(&doctree.Source{}, "inputs/blank.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "blank", doc.Title)
	assert.NotNil(t, doc.Outline)
	assert.Empty(t, doc.Outline)

	doc, err = Assemble(nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "untitled", doc.Title)
}

func TestAssemble_ValidatorError(t *testing.T) {
	sentinel := errors.New("missing title")
	doc, err := Assemble(&doctree.Source{Title: "T"}, "a.pdf", &stubValidator{err: sentinel})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "schema validation")
	assert.Nil(t, doc)
}
