package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"regcheck/internal/domain"
)

// Writer is implemented by the CSV and XLSX writers. Callers write the
// header once, stream document batches, then Close.
type Writer interface {
	WriteHeader() error
	WriteDocuments(docs []domain.CompanyDocument) error
	Close() error
}

// NewWriter returns a Writer for format f.
func NewWriter(f Format, w io.Writer) (Writer, error) {
	switch f {
	case FormatCSV:
		return NewCSVWriter(w), nil
	case FormatXLSX:
		return NewXLSXWriter(w)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{format}.
func BuildFilename(name string, f Format) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "documents"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, time.Now().Format("2006-01-02"), f)
}
