package converter

import (
	"context"

	"mdconvert/pkg/domain"
)

// Converter turns Markdown text into a downloadable Office document.
//
//go:generate mockgen -package mockconverter -source=interface.go -destination=mock/mockconverter.go *
type Converter interface {
	// Convert renders markdown in the format named by the case-insensitive
	// format token. Client mistakes are reported as serrors.ErrBadRequest or
	// serrors.ErrUnprocessable, everything else as serrors.ErrInternal.
	Convert(ctx context.Context, markdown string, format string) (*domain.Artifact, error)
}
