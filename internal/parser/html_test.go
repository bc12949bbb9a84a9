package parser

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestHTMLParser_SizesAndTitle(t *testing.T) {
	input := `<!DOCTYPE html>
<html><head><title>Field Guide</title><style>h1 { color: red }</style></head>
<body>
<nav><a href="/">Home</a></nav>
<h1>Birds</h1>
<p>Common birds of the region.</p>
<h2>Raptors</h2>
<p style="font-size: 20pt">Large print note</p>
<div style="font-size: 2em"><p>Inherited size</p></div>
<script>var x = 1;</script>
</body></html>`

	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "Field Guide" {
		t.Errorf("expected title %q, got %q", "Field Guide", src.Title)
	}

	want := []struct {
		text string
		size float64
	}{
		{"Birds", 32},
		{"Common birds of the region.", 16},
		{"Raptors", 24},
		{"Large print note", 20 * 4.0 / 3.0},
		{"Inherited size", 32},
	}
	if len(src.Blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d", len(want), len(src.Blocks))
	}
	for i, w := range want {
		sp := src.Blocks[i].Spans[0]
		if sp.Text != w.text {
			t.Errorf("block[%d]: expected %q, got %q", i, w.text, sp.Text)
		}
		if diff := sp.FontSize - w.size; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("block[%d]: expected size %v, got %v", i, w.size, sp.FontSize)
		}
	}
}

func TestHTMLParser_Charset(t *testing.T) {
	// "café" encoded as ISO-8859-1.
	input := "<html><head><meta charset=\"iso-8859-1\"></head><body><p>caf\xe9</p></body></html>"
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(input), "latin1.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(src.Blocks))
	}
	if src.Blocks[0].Spans[0].Text != "café" {
		t.Errorf("expected %q, got %q", "café", src.Blocks[0].Spans[0].Text)
	}
}

func TestInlineFontSize(t *testing.T) {
	tests := []struct {
		style string
		want  float64
		ok    bool
	}{
		{"font-size: 18px", 18, true},
		{"color: red; font-size:12pt", 16, true},
		{"font-size: 1.5em", 15, true},
		{"font-size: 2rem", 32, true},
		{"font-size: 150%", 15, true},
		{"font-size: 20", 20, true},
		{"color: red", 0, false},
	}
	for _, tt := range tests {
		n := &html.Node{
			Type: html.ElementNode,
			Data: "p",
			Attr: []html.Attribute{{Key: "style", Val: tt.style}},
		}
		got, ok := inlineFontSize(n, 10)
		if ok != tt.ok || got != tt.want {
			t.Errorf("style=%q: expected (%v,%v), got (%v,%v)", tt.style, tt.want, tt.ok, got, ok)
		}
	}
}
