package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Browser default sizes, in px, for h1 through h6 and body text.
var markdownHeadingSizes = [...]float64{32, 24, 18.72, 16, 13.28, 10.72}

const markdownBodySize = 16

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	title, src := splitFrontMatter(src)

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	b := newBlockBuilder()
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			size := markdownHeadingSizes[len(markdownHeadingSizes)-1]
			if node.Level >= 1 && node.Level <= len(markdownHeadingSizes) {
				size = markdownHeadingSizes[node.Level-1]
			}
			b.add(doctree.TextSpan{Text: extractText(node, src), FontSize: size})
		case *ast.ThematicBreak:
			continue
		default:
			b.add(doctree.TextSpan{Text: extractText(n, src), FontSize: markdownBodySize})
		}
	}
	return b.source(title), nil
}

// splitFrontMatter strips a leading YAML front matter block and returns its
// title field along with the remaining source.
func splitFrontMatter(src []byte) (string, []byte) {
	normalized := bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return "", src
	}
	rest := normalized[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return "", src
	}

	var meta struct {
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return "", src
	}

	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return meta.Title, body
}

// extractText gets the text content of a goldmark AST node. Leaf blocks
// such as code blocks carry raw lines; everything else is rebuilt from its
// inline children.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Value(src))
			if node.HardLineBreak() || node.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		case *ast.RawHTML:
			continue
		default:
			buf.WriteString(extractText(c, src))
			if c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
