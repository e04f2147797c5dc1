package xlsx

import (
	"context"
	"strconv"
	"strings"

	"mdconvert/pkg/markdown"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// renderReport writes the whole document top to bottom on one sheet. Text
// rows are merged across the report span; tables keep one column per cell.
func (r *Renderer) renderReport(ctx context.Context, f *excelize.File, doc *markdown.Document) error {
	name := r.sheet
	if err := f.SetSheetName(defaultSheet, name); err != nil {
		return errors.Wrap(err, "could not rename sheet")
	}

	span := reportSpan
	for _, t := range doc.Tables() {
		span = max(span, len(t.Header()))
	}
	last, err := excelize.ColumnNumberToName(span)
	if err != nil {
		return err
	}

	w := &reportWriter{f: f, st: newStyles(f), doc: doc, sheet: name, lastCol: last, row: 1}
	for _, n := range doc.Blocks() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.block(n); err != nil {
			return errors.Wrapf(err, "could not write sheet %q", name)
		}
	}

	if err := r.setWidths(f, name, w.widths); err != nil {
		return errors.Wrapf(err, "could not write sheet %q", name)
	}

	return nil
}

type reportWriter struct {
	f       *excelize.File
	st      *styles
	doc     *markdown.Document
	sheet   string
	lastCol string
	row     int
	widths  []int
}

func (w *reportWriter) block(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Heading:
		base := &excelize.Font{Bold: true}
		if n.Level == 1 {
			base.Size = titleSize
		}

		return w.text(w.doc.Inlines(n), base, true)
	case *ast.Paragraph, *ast.TextBlock:
		return w.text(w.doc.Inlines(n), nil, false)
	case *ast.List:
		return w.list(n)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return w.code(strings.TrimRight(w.doc.Lines(n), "\n"))
	case *extast.Table:
		t := w.doc.Table(n)
		widths, err := writeTable(w.f, w.st, w.sheet, w.row, t, w.widths)
		if err != nil {
			return err
		}
		w.widths = widths
		w.row += len(t.Rows)
	case *ast.ThematicBreak, *ast.HTMLBlock:
		// no cell equivalent
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if err := w.block(c); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *reportWriter) list(l *ast.List) error {
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}

		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				segs := w.doc.Inlines(c)
				if marker != "" && !isTask(c) {
					segs = append([]markdown.Segment{{Text: marker}}, segs...)
				}
				if err := w.text(segs, nil, false); err != nil {
					return err
				}
			default:
				if err := w.block(c); err != nil {
					return err
				}
			}
			marker = ""
		}
	}

	return nil
}

func isTask(n ast.Node) bool {
	_, ok := n.FirstChild().(*extast.TaskCheckBox)

	return ok
}

// text writes segments as one merged, wrapped row. Rich text is used when
// force is set or any segment carries emphasis.
func (w *reportWriter) text(segs []markdown.Segment, base *excelize.Font, force bool) error {
	segs = trimSegments(segs)
	cell := w.cell()

	var err error
	if len(segs) > 0 && (force || markdown.Cell(segs).Styled()) {
		err = w.f.SetCellRichText(w.sheet, cell, richText(segs, base))
	} else {
		err = w.f.SetCellStr(w.sheet, cell, markdown.Plain(segs))
	}
	if err != nil {
		return err
	}

	return w.merge(cell, styleKey{kind: rowPlain, wrap: true})
}

func (w *reportWriter) code(src string) error {
	cell := w.cell()
	if err := w.f.SetCellStr(w.sheet, cell, src); err != nil {
		return err
	}

	return w.merge(cell, styleKey{kind: rowCode, wrap: true})
}

func (w *reportWriter) cell() string {
	return "A" + strconv.Itoa(w.row)
}

// merge spans the current row across the report columns, styles it and
// advances to the next row.
func (w *reportWriter) merge(cell string, k styleKey) error {
	end := w.lastCol + strconv.Itoa(w.row)
	if err := w.f.MergeCell(w.sheet, cell, end); err != nil {
		return err
	}
	if err := w.st.apply(w.sheet, cell, end, k); err != nil {
		return err
	}
	w.row++

	return nil
}
