package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// Style is a set of inline emphasis flags.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Strike
	Code
)

// Has reports whether all flags of other are set in s.
func (s Style) Has(other Style) bool { return s&other == other }

// Segment is a run of text sharing one style and, optionally, a link target.
type Segment struct {
	Text  string
	Style Style
	Link  string
}

// Plain concatenates the text of segs.
func Plain(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Text)
	}

	return sb.String()
}

var lineBreakTag = regexp.MustCompile(`(?i)^<br\s*/?>$`) //nolint: gochecknoglobals

// Inlines flattens the inline children of n into styled segments. Adjacent
// segments with the same style and link are merged. Inline HTML is dropped
// except for <br>, which becomes a newline.
func (d *Document) Inlines(n ast.Node) []Segment {
	w := inlineWalker{source: d.source}
	w.children(n, 0, "")

	return w.out
}

type inlineWalker struct {
	source []byte
	out    []Segment
}

func (w *inlineWalker) children(n ast.Node, style Style, link string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.node(c, style, link)
	}
}

func (w *inlineWalker) node(n ast.Node, style Style, link string) {
	switch n := n.(type) {
	case *ast.Text:
		w.add(string(n.Segment.Value(w.source)), style, link)
		switch {
		case n.HardLineBreak():
			w.add("\n", style, link)
		case n.SoftLineBreak():
			w.add(" ", style, link)
		}
	case *ast.String:
		w.add(string(n.Value), style, link)
	case *ast.CodeSpan:
		w.children(n, style|Code, link)
	case *ast.Emphasis:
		if n.Level >= 2 {
			style |= Bold
		} else {
			style |= Italic
		}
		w.children(n, style, link)
	case *extast.Strikethrough:
		w.children(n, style|Strike, link)
	case *ast.Link:
		w.children(n, style, string(n.Destination))
	case *ast.AutoLink:
		w.add(string(n.Label(w.source)), style, string(n.URL(w.source)))
	case *ast.RawHTML:
		var sb strings.Builder
		for i := range n.Segments.Len() {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(w.source))
		}
		if lineBreakTag.MatchString(strings.TrimSpace(sb.String())) {
			w.add("\n", style, link)
		}
	case *extast.TaskCheckBox:
		box := "☐ "
		if n.IsChecked {
			box = "☑ "
		}
		w.add(box, 0, "")
	default:
		// images contribute their alt text
		w.children(n, style, link)
	}
}

func (w *inlineWalker) add(text string, style Style, link string) {
	if text == "" {
		return
	}
	if last := len(w.out) - 1; last >= 0 && w.out[last].Style == style && w.out[last].Link == link {
		w.out[last].Text += text

		return
	}
	w.out = append(w.out, Segment{Text: text, Style: style, Link: link})
}
