package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		want      string
	}{
		{"nil", nil, ""},
		{"whitespace only", []string{"  ", "\n\t"}, ""},
		{"latin join", []string{"Hello", "world"}, "Hello world"},
		{"latin padded", []string{"Hello ", " world"}, "Hello world"},
		{"collapse inner whitespace", []string{"  spaced\n", "\ttext  here "}, "spaced text here"},
		{"japanese", []string{"日本語", "の", "見出し"}, "日本語の見出し"},
		{"katakana", []string{"テスト", "計画"}, "テスト計画"},
		{"korean", []string{"한국어", "제목"}, "한국어제목"},
		{"mostly latin with one ideograph", []string{"Intro", "日"}, "Intro 日"},
		{"mixed but dense", []string{"第", "1", "章"}, "第1章"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.fragments))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"Hello   world", "日本語 の見出し", " a  b  c "} {
		once := Normalize([]string{in})
		assert.Equal(t, once, Normalize([]string{once}), "input %q", in)
	}
}

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeSpace("\t a \n b   c  "))
	assert.Equal(t, "", NormalizeSpace("   "))
}

func TestBuildBlocks(t *testing.T) {
	src := &doctree.Source{
		Pages: 2,
		Blocks: []doctree.RawBlock{
			{Page: 1, ID: 0, Spans: []doctree.TextSpan{
				{Text: "Big", FontSize: 20},
				{Text: "small text", FontSize: 10},
			}},
			{Page: 1, ID: 1, Spans: []doctree.TextSpan{{Text: "   ", FontSize: 30}}},
			{Page: 2, ID: 0, Spans: []doctree.TextSpan{{Text: "Second page", FontSize: 12}}},
		},
	}

	blocks := BuildBlocks(src)
	require.Len(t, blocks, 2)

	assert.Equal(t, "Big small text", blocks[0].Text)
	assert.InDelta(t, 160.0/13.0, blocks[0].FontSize, 1e-9)
	assert.Equal(t, 20.0, blocks[0].MaxFontSize)
	assert.Equal(t, 1, blocks[0].Page)

	assert.Equal(t, "Second page", blocks[1].Text)
	assert.Equal(t, 2, blocks[1].Page)
	assert.Equal(t, 0, blocks[1].ID)
	assert.Equal(t, 12.0, blocks[1].FontSize)
}

func TestBuildBlocks_Nil(t *testing.T) {
	assert.Nil(t, BuildBlocks(nil))
	assert.Empty(t, BuildBlocks(&doctree.Source{}))
}
