// Package docx writes Markdown documents as Word (.docx) files.
package docx

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"mdconvert/pkg/domain"
	"mdconvert/pkg/markdown"

	"github.com/fumiama/go-docx"
	"github.com/go-faster/errors"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// Mode selects how the Markdown body is laid out in the document.
type Mode string

const (
	// ModeStructured maps headings, lists, code, quotes and tables to their
	// Word counterparts.
	ModeStructured Mode = "structured"
	// ModeHTML writes the rendered HTML verbatim into a single paragraph.
	ModeHTML Mode = "html"
)

// ParseMode returns the mode named by s, defaulting to ModeStructured.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStructured:
		return ModeStructured, nil
	case ModeHTML:
		return ModeHTML, nil
	default:
		return "", errors.Errorf("unknown docx body mode %q", s)
	}
}

// DefaultTitle is the heading written at the top of every document.
const DefaultTitle = "Markdown转换文档"

// Sizes are in half-points, distances in twips.
const (
	titleSize  = "40"
	bodySize   = "24"
	margin     = 720
	indentStep = 420
	pageWidth  = 11906
	pageHeight = 16838
	monoFont   = "Consolas"
	greyColor  = "808080"
	codeFill   = "F2F2F2"
	headerFill = "D9D9D9"
	rule       = "────────────────────────────────────────"
)

var headingSizes = [...]string{"36", "32", "28", "26", "25", "24"} //nolint: gochecknoglobals

// Options configures a Renderer.
type Options struct {
	Mode  Mode
	Title string
}

// Renderer writes .docx files. It is safe for concurrent use.
type Renderer struct {
	mode  Mode
	title string
}

// New creates a Renderer, filling unset options with defaults.
func New(opts Options) *Renderer {
	if opts.Mode == "" {
		opts.Mode = ModeStructured
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	return &Renderer{mode: opts.Mode, title: opts.Title}
}

// Format implements render.Renderer.
func (r *Renderer) Format() domain.Format { return domain.FormatDOCX }

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, doc *markdown.Document) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph().Justification("center")
	title.AddText(r.title).Bold().Size(titleSize)

	switch {
	case doc.IsBlank():
		// title only
	case r.mode == ModeHTML:
		html, err := doc.HTML()
		if err != nil {
			return nil, err
		}
		w.AddParagraph().AddText(html).Size(bodySize)
	default:
		b := &builder{w: w, doc: doc}
		for _, n := range doc.Blocks() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			b.block(n, 0, false)
		}
	}

	w.Document.Body.Items = append(w.Document.Body.Items, &docx.SectPr{
		PgSz: &docx.PgSz{W: pageWidth, H: pageHeight},
		PgMar: &docx.PgMar{
			Top:    margin,
			Left:   margin,
			Bottom: margin,
			Right:  margin,
			Header: margin,
			Footer: margin,
		},
	})

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "could not write docx")
	}

	return buf.Bytes(), nil
}

type runStyle struct {
	size   string
	bold   bool
	italic bool
	color  string
}

var bodyStyle = runStyle{size: bodySize} //nolint: gochecknoglobals

type builder struct {
	w   *docx.Docx
	doc *markdown.Document
}

func (b *builder) block(n ast.Node, depth int, quoted bool) {
	rs := bodyStyle
	if quoted {
		rs.italic = true
		rs.color = greyColor
	}

	switch n := n.(type) {
	case *ast.Heading:
		level := min(max(n.Level, 1), len(headingSizes))
		p := b.paragraph(depth)
		b.inline(p, n, runStyle{size: headingSizes[level-1], bold: true, color: rs.color})
	case *ast.Paragraph, *ast.TextBlock:
		b.inline(b.paragraph(depth), n, rs)
	case *ast.List:
		b.list(n, depth, quoted)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		p := b.paragraph(depth)
		p.Properties.Shade = &docx.Shade{Val: "clear", Color: "auto", Fill: codeFill}
		r := p.AddText(strings.TrimRight(b.doc.Lines(n), "\n")).
			Size(bodySize).
			Font(monoFont, monoFont, monoFont, "default")
		preserveSpace(r)
	case *ast.Blockquote:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			b.block(c, depth+1, true)
		}
	case *ast.ThematicBreak:
		b.paragraph(depth).AddText(rule).Size(bodySize).Color(greyColor)
	case *extast.Table:
		b.table(b.doc.Table(n))
	case *ast.HTMLBlock:
		// raw html has no Word equivalent
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			b.block(c, depth, quoted)
		}
	}
}

func (b *builder) list(l *ast.List, depth int, quoted bool) {
	rs := bodyStyle
	if quoted {
		rs.italic = true
		rs.color = greyColor
	}

	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		if isTask(item) {
			marker = ""
		}

		wrote := false
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				p := b.paragraph(depth + 1)
				if !wrote && marker != "" {
					b.run(p, marker, rs)
				}
				b.inline(p, c, rs)
			default:
				if !wrote {
					b.run(b.paragraph(depth+1), marker, rs)
				}
				b.block(c, depth+1, quoted)
			}
			wrote = true
		}
		if !wrote {
			b.run(b.paragraph(depth+1), marker, rs)
		}
	}
}

func isTask(item ast.Node) bool {
	first := item.FirstChild()
	if first == nil {
		return false
	}
	_, ok := first.FirstChild().(*extast.TaskCheckBox)

	return ok
}

func (b *builder) table(t markdown.Table) {
	if t.Width() == 0 || len(t.Rows) == 0 {
		return
	}

	tbl := b.w.AddTable(len(t.Rows), t.Width(), 0, nil)
	for i, row := range t.Rows {
		for j, cell := range row {
			c := tbl.TableRows[i].TableCells[j]
			p := c.AddParagraph()
			if jc := justification(t.Alignments[j]); jc != "" {
				p.Justification(jc)
			}
			rs := bodyStyle
			if i == 0 {
				rs.bold = true
				c.Shade("clear", "auto", headerFill)
			}
			for _, seg := range cell {
				b.segment(p, seg, rs)
			}
		}
	}

	// adjacent tables merge in Word unless a paragraph separates them
	b.w.AddParagraph()
}

func justification(a markdown.Alignment) string {
	switch a {
	case markdown.AlignCenter:
		return "center"
	case markdown.AlignRight:
		return "end"
	case markdown.AlignLeft:
		return "start"
	default:
		return ""
	}
}

func (b *builder) paragraph(depth int) *docx.Paragraph {
	p := b.w.AddParagraph()
	p.Properties = &docx.ParagraphProperties{}
	if depth > 0 {
		p.Properties.Ind = &docx.Ind{Left: depth * indentStep}
	}

	return p
}

func (b *builder) inline(p *docx.Paragraph, n ast.Node, rs runStyle) {
	for _, seg := range b.doc.Inlines(n) {
		b.segment(p, seg, rs)
	}
}

func (b *builder) segment(p *docx.Paragraph, seg markdown.Segment, rs runStyle) {
	if seg.Link != "" && !strings.Contains(seg.Text, "\n") {
		h := p.AddLink(seg.Text, seg.Link)
		h.Run.Size(rs.size)

		return
	}

	r := b.run(p, seg.Text, rs)
	if seg.Style.Has(markdown.Bold) {
		r.Bold()
	}
	if seg.Style.Has(markdown.Italic) && !rs.italic {
		r.Italic()
	}
	if seg.Style.Has(markdown.Strike) {
		r.Strike(true)
	}
	if seg.Style.Has(markdown.Code) {
		r.Font(monoFont, monoFont, monoFont, "default").Shade("clear", "auto", codeFill)
	}
}

func (b *builder) run(p *docx.Paragraph, text string, rs runStyle) *docx.Run {
	r := p.AddText(text).Size(rs.size)
	preserveSpace(r)
	if rs.bold {
		r.Bold()
	}
	if rs.italic {
		r.Italic()
	}
	if rs.color != "" {
		r.Color(rs.color)
	}

	return r
}

// preserveSpace keeps Word from trimming the edges of each text node.
func preserveSpace(r *docx.Run) {
	for _, c := range r.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
}
