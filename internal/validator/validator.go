package validator

import (
	"regcheck/internal/domain"
	"regcheck/internal/validator/company"
)

// Extractor locates regulatory fields in the text of one document type.
type Extractor interface {
	Extract(raw company.RawDocumentText) company.ExtractedDocumentData
	DocumentType() domain.DocumentType
}

type extractorFunc struct {
	docType domain.DocumentType
	fn      func(company.RawDocumentText) company.ExtractedDocumentData
}

func (e extractorFunc) Extract(raw company.RawDocumentText) company.ExtractedDocumentData {
	return e.fn(raw)
}

func (e extractorFunc) DocumentType() domain.DocumentType {
	return e.docType
}

// NewExtractor adapts a parse function into an Extractor.
func NewExtractor(docType domain.DocumentType, fn func(company.RawDocumentText) company.ExtractedDocumentData) Extractor {
	return extractorFunc{docType: docType, fn: fn}
}
