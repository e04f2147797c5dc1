// Package xlsx writes Markdown documents as Excel (.xlsx) workbooks, either
// one sheet per table or the whole document as a single report sheet.
package xlsx

import (
	"context"
	"strconv"
	"strings"

	"mdconvert/pkg/domain"
	"mdconvert/pkg/markdown"
	"mdconvert/pkg/render"

	"github.com/go-faster/errors"
	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

const (
	// DefaultSheetName names the sheet holding the first table.
	DefaultSheetName = "Markdown内容"
	// DefaultMaxColumnWidth caps autosized columns, in characters.
	DefaultMaxColumnWidth = 45

	columnPadding = 2
	defaultSheet  = "Sheet1"
	monoFont      = "Consolas"
	codeFont      = "Courier New"
	titleSize     = 14
	// report rows span at least A:C
	reportSpan = 3

	// POI indexed colours DARK_BLUE, GREY_25_PERCENT and LIGHT_YELLOW.
	headerColor = "000080"
	headerFill  = "C0C0C0"
	stripeFill  = "FFFF99"
)

// Layout selects what part of the document ends up in the workbook.
type Layout string

const (
	// LayoutTables writes every table to its own sheet and nothing else.
	LayoutTables Layout = "tables"
	// LayoutReport writes the whole document to one sheet: headings,
	// paragraphs and code as merged rows with the tables in between.
	LayoutReport Layout = "report"
)

// ParseLayout returns the layout named by s, defaulting to LayoutTables.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutTables:
		return LayoutTables, nil
	case LayoutReport:
		return LayoutReport, nil
	default:
		return "", errors.Errorf("unknown xlsx layout %q", s)
	}
}

// Options configures a Renderer.
type Options struct {
	Layout         Layout
	SheetName      string
	MaxColumnWidth float64
}

// Renderer writes .xlsx workbooks. It is safe for concurrent use.
type Renderer struct {
	layout   Layout
	sheet    string
	maxWidth float64
}

// New creates a Renderer, filling unset options with defaults.
func New(opts Options) *Renderer {
	if opts.Layout == "" {
		opts.Layout = LayoutTables
	}
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}
	if opts.MaxColumnWidth <= 0 {
		opts.MaxColumnWidth = DefaultMaxColumnWidth
	}

	return &Renderer{layout: opts.Layout, sheet: opts.SheetName, maxWidth: opts.MaxColumnWidth}
}

// Format implements render.Renderer.
func (r *Renderer) Format() domain.Format { return domain.FormatXLSX }

// SheetName returns the name of the sheet holding the table at index i.
func (r *Renderer) SheetName(i int) string {
	if i == 0 {
		return r.sheet
	}

	return r.sheet + " (" + strconv.Itoa(i+1) + ")"
}

// Render implements render.Renderer. In the tables layout it fails with
// render.ErrNoTables when doc has no tables.
func (r *Renderer) Render(ctx context.Context, doc *markdown.Document) ([]byte, error) {
	tables := doc.Tables()
	if r.layout == LayoutTables && len(tables) == 0 {
		return nil, render.ErrNoTables
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	var err error
	if r.layout == LayoutReport {
		err = r.renderReport(ctx, f, doc)
	} else {
		err = r.renderTables(ctx, f, tables)
	}
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "could not write xlsx")
	}

	return buf.Bytes(), nil
}

func (r *Renderer) renderTables(ctx context.Context, f *excelize.File, tables []markdown.Table) error {
	st := newStyles(f)
	for i, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := r.SheetName(i)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return errors.Wrap(err, "could not rename sheet")
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "could not create sheet %q", name)
		}

		widths, err := writeTable(f, st, name, 1, t, nil)
		if err == nil {
			err = r.setWidths(f, name, widths)
		}
		if err == nil {
			err = f.SetPanes(name, &excelize.Panes{
				Freeze:      true,
				YSplit:      1,
				TopLeftCell: "A2",
				ActivePane:  "bottomLeft",
			})
		}
		if err != nil {
			return errors.Wrapf(err, "could not write sheet %q", name)
		}
	}

	return nil
}

// writeTable writes t with its header at row top and returns widths grown
// to cover the display width of every column.
func writeTable(f *excelize.File, st *styles, sheet string, top int, t markdown.Table, widths []int) ([]int, error) {
	for len(widths) < t.Width() {
		widths = append(widths, 0)
	}

	if err := writeRow(f, st, sheet, top, t.Header(), rowHeader, widths); err != nil {
		return nil, err
	}
	for i, row := range t.Body() {
		kind := rowPlain
		if i%2 == 1 {
			kind = rowStripe
		}
		if err := writeRow(f, st, sheet, top+1+i, row, kind, widths); err != nil {
			return nil, err
		}
	}

	return widths, nil
}

func writeRow(f *excelize.File, st *styles, sheet string, rowNum int, row []markdown.Cell, kind rowKind, widths []int) error {
	for j, cell := range row {
		name, err := excelize.CoordinatesToCellName(j+1, rowNum)
		if err != nil {
			return err
		}
		text := cell.Text()
		widths[j] = max(widths[j], displayWidth(text))

		if cell.Styled() {
			err = f.SetCellRichText(sheet, name, richText(trimSegments(cell), headerFont(kind == rowHeader)))
		} else {
			err = f.SetCellStr(sheet, name, text)
		}
		if err != nil {
			return err
		}

		if err := st.apply(sheet, name, name, styleKey{kind: kind, wrap: strings.Contains(text, "\n")}); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) setWidths(f *excelize.File, sheet string, widths []int) error {
	for j, w := range widths {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, min(float64(w+columnPadding), r.maxWidth)); err != nil {
			return err
		}
	}

	return nil
}

// displayWidth measures the widest line of s, counting wide runes twice.
func displayWidth(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		w = max(w, runewidth.StringWidth(line))
	}

	return w
}

// headerFont returns the base font of table cells: bold dark blue for the
// header row, nil otherwise.
func headerFont(header bool) *excelize.Font {
	if !header {
		return nil
	}

	return &excelize.Font{Bold: true, Color: headerColor}
}

// richText converts segments to runs on top of base, which may be nil.
func richText(segs []markdown.Segment, base *excelize.Font) []excelize.RichTextRun {
	runs := make([]excelize.RichTextRun, 0, len(segs))
	for _, seg := range segs {
		font := &excelize.Font{}
		if base != nil {
			*font = *base
		}
		font.Bold = font.Bold || seg.Style.Has(markdown.Bold)
		font.Italic = font.Italic || seg.Style.Has(markdown.Italic)
		font.Strike = font.Strike || seg.Style.Has(markdown.Strike)
		if seg.Style.Has(markdown.Code) {
			font.Family = monoFont
		}
		runs = append(runs, excelize.RichTextRun{Text: seg.Text, Font: font})
	}

	return runs
}

// trimSegments drops the whitespace around the content so rich text cells
// match their plain-text rendition.
func trimSegments(in []markdown.Segment) []markdown.Segment {
	segs := make([]markdown.Segment, 0, len(in))
	for _, s := range in {
		if len(segs) == 0 {
			s.Text = strings.TrimLeft(s.Text, " \t\n")
		}
		if s.Text != "" {
			segs = append(segs, s)
		}
	}
	for len(segs) > 0 {
		last := &segs[len(segs)-1]
		last.Text = strings.TrimRight(last.Text, " \t\n")
		if last.Text != "" {
			break
		}
		segs = segs[:len(segs)-1]
	}

	return segs
}
