package parser

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// User agent default sizes, in px.
var htmlTagSizes = map[string]float64{
	"h1": 32,
	"h2": 24,
	"h3": 18.72,
	"h4": 16,
	"h5": 13.28,
	"h6": 10.72,
}

const htmlBodySize = 16

var fontSizePattern = regexp.MustCompile(`(?i)font-size\s*:\s*([0-9]*\.?[0-9]+)\s*(px|pt|em|rem|%)?`)

// HTMLParser handles HTML files.
type HTMLParser struct {
	// ContentType is passed to charset detection; empty means sniff.
	ContentType string
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	utf8Reader, err := charset.NewReader(r, p.ContentType)
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}

	doc, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	b := newBlockBuilder()

	var walk func(n *html.Node, inherited float64)
	walk = func(n *html.Node, inherited float64) {
		size := inherited
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "noscript", "template", "head":
				return
			}
			if s, ok := htmlTagSizes[n.Data]; ok {
				size = s
			}
			if s, ok := inlineFontSize(n, inherited); ok {
				size = s
			}
			if isHTMLBlock(n.Data) {
				b.add(doctree.TextSpan{Text: textContent(n), FontSize: size})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, size)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body, htmlBodySize)
	} else {
		walk(doc, htmlBodySize)
	}

	return b.source(findTitle(doc)), nil
}

func isHTMLBlock(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6",
		"p", "li", "td", "th", "dt", "dd", "blockquote", "pre", "caption", "figcaption":
		return true
	}
	return false
}

// inlineFontSize reads a font-size declaration from the style attribute.
func inlineFontSize(n *html.Node, inherited float64) (float64, bool) {
	for _, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		m := fontSizePattern.FindStringSubmatch(a.Val)
		if m == nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= 0 {
			return 0, false
		}
		switch strings.ToLower(m[2]) {
		case "pt":
			return v * 4 / 3, true
		case "em":
			return v * inherited, true
		case "rem":
			return v * htmlBodySize, true
		case "%":
			return v / 100 * inherited, true
		default:
			return v, true
		}
	}
	return 0, false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
