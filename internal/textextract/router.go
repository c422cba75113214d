package textextract

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"regcheck/internal/domain"
	"regcheck/internal/port"
	"regcheck/internal/validator/company"
)

const defaultMinTextLength = 10

// Router picks an extraction strategy by content type. PDFs are read from
// their embedded text layer first; when that yields too little text the
// file is sent through OCR, which handles scanned certificates.
type Router struct {
	pdfText       port.TextExtractor
	ocr           port.TextExtractor
	minTextLength int
}

// NewRouter creates a Router. ocr may be nil, in which case images are
// rejected and PDFs without a text layer return whatever the layer held.
func NewRouter(pdfText, ocr port.TextExtractor, minTextLength int) *Router {
	if minTextLength <= 0 {
		minTextLength = defaultMinTextLength
	}
	return &Router{pdfText: pdfText, ocr: ocr, minTextLength: minTextLength}
}

func (r *Router) Extract(ctx context.Context, input port.ExtractInput) (*company.RawDocumentText, error) {
	switch domain.AllowedContentTypes[input.ContentType] {
	case domain.FileTypePDF:
		return r.extractPDF(ctx, input)
	case domain.FileTypeJPG, domain.FileTypePNG:
		if r.ocr == nil {
			return nil, ErrNoOCRProvider
		}
		return r.ocr.Extract(ctx, input)
	case domain.FileTypeTXT:
		if !utf8.Valid(input.FileBytes) {
			return nil, fmt.Errorf("plain text document is not valid UTF-8")
		}
		return &company.RawDocumentText{Text: string(input.FileBytes), Method: company.MethodNone}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, input.ContentType)
	}
}

func (r *Router) extractPDF(ctx context.Context, input port.ExtractInput) (*company.RawDocumentText, error) {
	out, err := r.pdfText.Extract(ctx, input)
	if err == nil && r.usable(out.Text) {
		return out, nil
	}
	if r.ocr == nil {
		return out, err
	}

	if err != nil {
		log.Printf("textextract.Router: text layer failed, falling back to OCR: %v", err)
	} else {
		log.Printf("textextract.Router: text layer has %d chars, falling back to OCR", utf8.RuneCountInString(strings.TrimSpace(out.Text)))
	}
	return r.ocr.Extract(ctx, input)
}

func (r *Router) usable(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= r.minTextLength
}

// FailureMethod is the extraction method a failed extraction is attributed
// to. PDFs end in OCR when their text layer is unusable, so they are
// counted with images.
func FailureMethod(contentType string) company.ExtractionMethod {
	switch domain.AllowedContentTypes[contentType] {
	case domain.FileTypePDF, domain.FileTypeJPG, domain.FileTypePNG:
		return company.MethodOCRImage
	default:
		return company.MethodNone
	}
}
