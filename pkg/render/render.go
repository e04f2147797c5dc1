// Package render defines the contract shared by the Office document writers
// and the errors they report.
package render

import (
	"context"
	"errors"

	"mdconvert/pkg/domain"
	"mdconvert/pkg/markdown"
)

// ErrNoTables is returned by writers that can only represent tables when the
// document contains none.
var ErrNoTables = errors.New("markdown contains no tables")

// Renderer turns a parsed Markdown document into the bytes of one output
// format. Implementations allocate a fresh document per call and hold no
// state between calls.
//
//go:generate mockgen -package mockrender -source=render.go -destination=mock/mockrender.go *
type Renderer interface {
	// Format reports the output format this renderer produces.
	Format() domain.Format
	// Render serializes doc.
	Render(ctx context.Context, doc *markdown.Document) ([]byte, error)
}
