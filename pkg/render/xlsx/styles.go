package xlsx

import (
	"github.com/xuri/excelize/v2"
)

type rowKind int

const (
	rowPlain rowKind = iota
	rowHeader
	rowStripe
	rowCode
)

type styleKey struct {
	kind rowKind
	wrap bool
}

// styles registers cell styles on first use so each workbook only carries
// the combinations it needs.
type styles struct {
	f   *excelize.File
	ids map[styleKey]int
}

func newStyles(f *excelize.File) *styles {
	return &styles{f: f, ids: make(map[styleKey]int)}
}

func (s *styles) id(k styleKey) (int, error) {
	if id, ok := s.ids[k]; ok {
		return id, nil
	}

	id, err := s.f.NewStyle(k.style())
	if err != nil {
		return 0, err
	}
	s.ids[k] = id

	return id, nil
}

// apply sets the style of k on the range from top-left to bottom-right.
func (s *styles) apply(sheet, topLeft, bottomRight string, k styleKey) error {
	id, err := s.id(k)
	if err != nil {
		return err
	}

	return s.f.SetCellStyle(sheet, topLeft, bottomRight, id)
}

func (k styleKey) style() *excelize.Style {
	st := &excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: k.wrap},
	}

	switch k.kind {
	case rowHeader:
		st.Font = &excelize.Font{Bold: true, Color: headerColor}
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}}
		st.Alignment.Vertical = "center"
		st.Border = []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		}
	case rowStripe:
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{stripeFill}}
	case rowCode:
		st.Font = &excelize.Font{Family: codeFont}
	case rowPlain:
	}

	return st
}
