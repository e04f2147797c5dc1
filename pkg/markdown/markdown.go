// Package markdown parses GitHub-flavoured Markdown once and exposes the
// resulting tree to the renderers: an HTML rendition, inline runs with their
// emphasis, and the tables found in the document as rectangular grids.
package markdown

import (
	"bytes"
	"strings"

	"github.com/go-faster/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// engine is shared by every Parse call. goldmark keeps no per-document state
// in the parser or renderer, so a single instance serves concurrent requests.
var engine = goldmark.New( //nolint: gochecknoglobals
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

// Document is a parsed Markdown source.
type Document struct {
	root   ast.Node
	source []byte
}

// Parse builds the syntax tree of source. CommonMark accepts any input, so
// parsing never fails.
func Parse(source string) *Document {
	src := []byte(source)

	return &Document{
		root:   engine.Parser().Parse(text.NewReader(src)),
		source: src,
	}
}

// IsBlank reports whether the source holds nothing but whitespace.
func (d *Document) IsBlank() bool {
	return strings.TrimSpace(string(d.source)) == ""
}

// HTML renders the document as XHTML.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := engine.Renderer().Render(&buf, d.source, d.root); err != nil {
		return "", errors.Wrap(err, "could not render html")
	}

	return buf.String(), nil
}

// Blocks returns the top-level block nodes in document order.
func (d *Document) Blocks() []ast.Node {
	var blocks []ast.Node
	for n := d.root.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, n)
	}

	return blocks
}

// Lines returns the raw text of a block that stores its content as lines,
// such as a fenced code block or an HTML block.
func (d *Document) Lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		sb.Write(seg.Value(d.source))
	}

	return sb.String()
}
