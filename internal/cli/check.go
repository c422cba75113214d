// Package cli implements the regcheck command: verify a local document file
// against expected company data without the API, database or object storage.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"regcheck/internal/domain"
	"regcheck/internal/port"
	"regcheck/internal/textextract"
	"regcheck/internal/validator"
	"regcheck/internal/validator/company"
)

// Exit codes returned by the regcheck command.
const (
	ExitPassed = 0
	ExitFailed = 1
	ExitError  = 2
)

// CheckInput describes one local verification.
type CheckInput struct {
	Path         string
	DocumentType domain.DocumentType
	Expected     company.ExpectedCompanyData
	// OCRScore overrides the confidence score reported by the extractor.
	// Plain text input given a score is treated as OCR output.
	OCRScore *float64
}

// Checker extracts text from a file and validates it.
type Checker struct {
	extractor port.TextExtractor
	engine    *validator.Engine
}

// NewChecker creates a Checker.
func NewChecker(extractor port.TextExtractor, engine *validator.Engine) *Checker {
	return &Checker{extractor: extractor, engine: engine}
}

// Check reads the file, extracts its text and validates it. Extraction
// failures yield an OCR-failed result rather than an error; only unreadable
// input and unsupported types are errors.
func (c *Checker) Check(ctx context.Context, in CheckInput) (*company.ValidationResult, error) {
	if !domain.ValidDocumentTypes[in.DocumentType] {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedDocumentType, in.DocumentType)
	}
	if s := in.OCRScore; s != nil && (*s < 0 || *s > 100) {
		return nil, domain.ErrInvalidOCRScore
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(in.Path)), ".")
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFileType, ext)
	}

	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Path, err)
	}

	raw, err := c.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   data,
		ContentType: domain.ContentTypeFor(fileType),
	})
	if err != nil {
		method := textextract.FailureMethod(domain.ContentTypeFor(fileType))
		result := company.Validate(company.FailedExtraction(method, err), in.Expected)
		return &result, nil
	}

	if in.OCRScore != nil {
		raw.OCRConfidenceScore = in.OCRScore
		if raw.Method == company.MethodNone {
			raw.Method = company.MethodOCRImage
		}
	}
	return c.engine.Run(in.DocumentType, *raw, in.Expected)
}

// ExitCodeFor maps a result to the command's exit status.
func ExitCodeFor(result *company.ValidationResult) int {
	if result.IsValid && !result.OCRFailed {
		return ExitPassed
	}
	return ExitFailed
}
