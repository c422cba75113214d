package port

import (
	"context"

	"regcheck/internal/validator/company"
)

// ExtractInput carries the document bytes to recover text from.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// TextExtractor recovers raw text from a document file, either from an
// embedded text layer or through OCR.
type TextExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*company.RawDocumentText, error)
}
