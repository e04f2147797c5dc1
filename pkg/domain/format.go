package domain

import (
	"strings"
)

// Format is an output document format.
type Format string

const (
	// FormatDOCX is a WordprocessingML document.
	FormatDOCX Format = "docx"
	// FormatXLSX is a SpreadsheetML workbook.
	FormatXLSX Format = "xlsx"
)

const (
	// ContentTypeDOCX is the canonical MIME type of .docx files.
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	// ContentTypeXLSX is the canonical MIME type of .xlsx files.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// filenameBase is the stem of every generated file name.
const filenameBase = "converted"

// Formats lists the supported formats in a stable order.
func Formats() []Format {
	return []Format{FormatDOCX, FormatXLSX}
}

// ParseFormat resolves a case-insensitive format token. The second return
// value is false when the token names no supported format.
func ParseFormat(token string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimSpace(token)))
	switch f {
	case FormatDOCX, FormatXLSX:
		return f, true
	default:
		return "", false
	}
}

// Extension returns the file extension without the leading dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatDOCX:
		return ContentTypeDOCX
	case FormatXLSX:
		return ContentTypeXLSX
	default:
		return "application/octet-stream"
	}
}

// Filename returns the attachment name used for f, e.g. "converted.docx".
func (f Format) Filename() string {
	return filenameBase + "." + f.Extension()
}
