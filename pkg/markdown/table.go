package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// Alignment is the column alignment declared in a table's delimiter row.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Cell is the inline content of one table cell.
type Cell []Segment

// Text returns the cell's plain text without surrounding whitespace.
func (c Cell) Text() string { return strings.TrimSpace(Plain(c)) }

// Styled reports whether any part of the cell carries emphasis.
func (c Cell) Styled() bool {
	for _, s := range c {
		if s.Style != 0 {
			return true
		}
	}

	return false
}

// Table is a GFM table. Rows[0] is the header row. Every row has exactly
// len(Alignments) cells: short rows are padded with empty cells and extra
// cells are dropped.
type Table struct {
	Alignments []Alignment
	Rows       [][]Cell
}

// Width returns the number of columns.
func (t Table) Width() int { return len(t.Alignments) }

// Header returns the header row.
func (t Table) Header() []Cell {
	if len(t.Rows) == 0 {
		return nil
	}

	return t.Rows[0]
}

// Body returns the data rows.
func (t Table) Body() [][]Cell {
	if len(t.Rows) < 2 {
		return nil
	}

	return t.Rows[1:]
}

// Grid returns the table's plain-text cells.
func (t Table) Grid() Grid {
	g := make(Grid, len(t.Rows))
	for i, row := range t.Rows {
		g[i] = make([]string, len(row))
		for j, c := range row {
			g[i][j] = c.Text()
		}
	}

	return g
}

// Grid is a rectangular matrix of cell texts; the first row is the header.
type Grid [][]string

// Tables returns every table of the document in document order, including
// tables nested in block quotes or list items.
func (d *Document) Tables() []Table {
	var tables []Table
	_ = ast.Walk(d.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		t, ok := n.(*extast.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		tables = append(tables, d.table(t))

		return ast.WalkSkipChildren, nil
	})

	return tables
}

// Grids returns the plain-text grid of every table in the document.
func (d *Document) Grids() []Grid {
	tables := d.Tables()
	grids := make([]Grid, 0, len(tables))
	for _, t := range tables {
		grids = append(grids, t.Grid())
	}

	return grids
}

// ExtractGrid parses source and returns the grid of its first table, or nil
// when it contains none.
func ExtractGrid(source string) Grid {
	grids := Parse(source).Grids()
	if len(grids) == 0 {
		return nil
	}

	return grids[0]
}

// Table converts a table node found by walking Root.
func (d *Document) Table(n *extast.Table) Table { return d.table(n) }

func (d *Document) table(n *extast.Table) Table {
	t := Table{Alignments: make([]Alignment, len(n.Alignments))}
	for i, a := range n.Alignments {
		t.Alignments[i] = alignment(a)
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		switch row.(type) {
		case *extast.TableHeader, *extast.TableRow:
			t.Rows = append(t.Rows, d.row(row, t.Width()))
		}
	}

	return t
}

func (d *Document) row(n ast.Node, width int) []Cell {
	cells := make([]Cell, width)
	i := 0
	for c := n.FirstChild(); c != nil && i < width; c = c.NextSibling() {
		if _, ok := c.(*extast.TableCell); !ok {
			continue
		}
		cells[i] = d.Inlines(c)
		i++
	}

	return cells
}

func alignment(a extast.Alignment) Alignment {
	switch a {
	case extast.AlignLeft:
		return AlignLeft
	case extast.AlignCenter:
		return AlignCenter
	case extast.AlignRight:
		return AlignRight
	default:
		return AlignNone
	}
}
