// Package export renders company documents as CSV or XLSX for offline review.
package export

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"regcheck/internal/domain"
	"regcheck/internal/validator/company"
)

// Format selects the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query value to a Format. Empty means CSV.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// columns defines the header row.
var columns = []string{
	"Document ID",
	"Company Ref",
	"Document Type",
	"File Name",
	"Verification Status",
	"Verdict",
	"Valid",
	"Manual Review",
	"OCR Failed",
	"Confidence",
	"Extraction Method",
	"OCR Score",
	"Mismatches",
	"Review Status",
	"Reviewer Notes",
	"Verified At",
	"Created At",
}

// Columns returns a copy of the header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// documentToRow converts a single document to a row matching columns.
// Verification columns stay empty until verification has completed.
func documentToRow(doc *domain.CompanyDocument) []string {
	row := make([]string, len(columns))

	row[0] = doc.ID.String()
	row[1] = doc.CompanyRef
	row[2] = string(doc.DocumentType)
	row[3] = doc.FileName
	row[4] = string(doc.VerificationStatus)
	row[13] = string(doc.ReviewStatus)
	row[14] = doc.ReviewerNotes
	row[15] = formatTime(doc.VerifiedAt)
	row[16] = doc.CreatedAt.Format(time.RFC3339)

	if doc.VerificationStatus != domain.VerificationStatusCompleted {
		return row
	}

	row[5] = string(doc.Verdict)
	row[6] = formatBool(doc.IsValid)
	row[7] = formatBool(doc.RequiresManualReview)
	row[8] = formatBool(doc.OCRFailed)
	row[10] = doc.ExtractionMethod
	if doc.OCRConfidence != nil {
		row[11] = strconv.FormatFloat(*doc.OCRConfidence, 'f', 1, 64)
	}

	var result company.ValidationResult
	if len(doc.ValidationResult) == 0 || json.Unmarshal(doc.ValidationResult, &result) != nil {
		return row
	}
	row[9] = string(result.ExtractedData.Confidence)
	row[12] = summarizeMismatches(result.Mismatches)

	return row
}

func summarizeMismatches(ms []company.FieldMismatch) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return strings.Join(parts, "; ")
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
