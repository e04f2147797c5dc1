package markdown_test

import (
	"testing"

	"mdconvert/pkg/markdown"

	"github.com/stretchr/testify/require"
)

func TestExtractGrid(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   markdown.Grid
	}{
		{
			name:   "single table",
			source: "| A | B |\n|---|---|\n| 1 | 2 |\n",
			want:   markdown.Grid{{"A", "B"}, {"1", "2"}},
		},
		{
			name:   "header only",
			source: "| Name | Age |\n|:-----|----:|\n",
			want:   markdown.Grid{{"Name", "Age"}},
		},
		{
			name:   "short rows are padded",
			source: "| A | B | C |\n|---|---|---|\n| 1 |\n",
			want:   markdown.Grid{{"A", "B", "C"}, {"1", "", ""}},
		},
		{
			name:   "long rows are truncated",
			source: "| A | B |\n|---|---|\n| 1 | 2 | 3 | 4 |\n",
			want:   markdown.Grid{{"A", "B"}, {"1", "2"}},
		},
		{
			name:   "emphasis is flattened",
			source: "| **Bold** | `code` |\n|---|---|\n| *x* | ~~y~~ |\n",
			want:   markdown.Grid{{"Bold", "code"}, {"x", "y"}},
		},
		{
			name:   "surrounding prose is ignored",
			source: "# Report\n\nSome text.\n\n| K | V |\n|---|---|\n| a | b |\n\nMore text.\n",
			want:   markdown.Grid{{"K", "V"}, {"a", "b"}},
		},
		{
			name:   "no table",
			source: "# Title\n\njust a paragraph with a | pipe\n",
			want:   nil,
		},
		{
			name:   "empty input",
			source: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, markdown.ExtractGrid(tt.source))
		})
	}
}

func TestGridsIsRepeatable(t *testing.T) {
	doc := markdown.Parse("| A | B |\n|---|---|\n| 1 | 2 |\n")
	require.Equal(t, doc.Grids(), doc.Grids())
}

func TestGridsMultipleTables(t *testing.T) {
	source := "| A |\n|---|\n| 1 |\n\ntext\n\n| X | Y |\n|---|---|\n| 2 | 3 |\n"
	grids := markdown.Parse(source).Grids()
	require.Len(t, grids, 2)
	require.Equal(t, markdown.Grid{{"A"}, {"1"}}, grids[0])
	require.Equal(t, markdown.Grid{{"X", "Y"}, {"2", "3"}}, grids[1])
}

func TestTableNestedInQuote(t *testing.T) {
	tables := markdown.Parse("> | A | B |\n> |---|---|\n> | 1 | 2 |\n").Tables()
	require.Len(t, tables, 1)
	require.Equal(t, markdown.Grid{{"A", "B"}, {"1", "2"}}, tables[0].Grid())
}

func TestTableAlignmentsAndStyles(t *testing.T) {
	tables := markdown.Parse("| L | C | R | N |\n|:--|:-:|--:|---|\n| **b** | *i* | plain | `c` |\n").Tables()
	require.Len(t, tables, 1)

	tbl := tables[0]
	require.Equal(t, []markdown.Alignment{
		markdown.AlignLeft, markdown.AlignCenter, markdown.AlignRight, markdown.AlignNone,
	}, tbl.Alignments)
	require.Equal(t, 4, tbl.Width())
	require.Len(t, tbl.Header(), 4)
	require.Len(t, tbl.Body(), 1)

	row := tbl.Body()[0]
	require.True(t, row[0].Styled())
	require.True(t, row[0][0].Style.Has(markdown.Bold))
	require.True(t, row[1][0].Style.Has(markdown.Italic))
	require.False(t, row[2].Styled())
	require.True(t, row[3][0].Style.Has(markdown.Code))
}
