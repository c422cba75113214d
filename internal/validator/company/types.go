// Package company extracts regulatory fields from onboarding document text
// and cross-checks them against hand-entered company data.
package company

import "fmt"

// ExtractionMethod identifies how the raw document text was recovered.
type ExtractionMethod string

const (
	MethodPDFText  ExtractionMethod = "pdf_text"
	MethodOCRImage ExtractionMethod = "ocr_image"
	MethodNone     ExtractionMethod = "none"
)

// Confidence is the qualitative extraction confidence bucket.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Field names a comparable regulatory field.
type Field string

const (
	FieldVATNumber          Field = "vatNumber"
	FieldRegistrationNumber Field = "registrationNumber"
	FieldCompanyName        Field = "companyName"
	FieldStreetAddress      Field = "streetAddress"
	FieldCity               Field = "city"
	FieldProvinceState      Field = "provinceState"
	FieldPostalCode         Field = "postalCode"
)

// AllFields lists every comparable field in validation order.
var AllFields = []Field{
	FieldVATNumber,
	FieldRegistrationNumber,
	FieldPostalCode,
	FieldProvinceState,
	FieldCompanyName,
	FieldStreetAddress,
	FieldCity,
}

// RawDocumentText is the output of the external text/OCR extraction service.
// OCRConfidenceScore is only set for MethodOCRImage and lies in [0,100].
type RawDocumentText struct {
	Text               string           `json:"text"`
	Method             ExtractionMethod `json:"extraction_method"`
	OCRConfidenceScore *float64         `json:"ocr_confidence_score,omitempty"`
}

// ExtractedDocumentData holds the fields located in a document. An empty
// string means the field was not found.
type ExtractedDocumentData struct {
	Success            bool             `json:"success"`
	VATNumber          string           `json:"vat_number,omitempty"`
	RegistrationNumber string           `json:"registration_number,omitempty"`
	CompanyName        string           `json:"company_name,omitempty"`
	StreetAddress      string           `json:"street_address,omitempty"`
	City               string           `json:"city,omitempty"`
	ProvinceState      string           `json:"province_state,omitempty"`
	PostalCode         string           `json:"postal_code,omitempty"`
	RawText            string           `json:"raw_text,omitempty"`
	Confidence         Confidence       `json:"confidence"`
	FieldConfidence    Confidence       `json:"field_confidence"`
	ExtractionMethod   ExtractionMethod `json:"extraction_method"`
	Errors             []string         `json:"errors"`
}

// Value returns the extracted value for f.
func (d *ExtractedDocumentData) Value(f Field) string {
	switch f {
	case FieldVATNumber:
		return d.VATNumber
	case FieldRegistrationNumber:
		return d.RegistrationNumber
	case FieldCompanyName:
		return d.CompanyName
	case FieldStreetAddress:
		return d.StreetAddress
	case FieldCity:
		return d.City
	case FieldProvinceState:
		return d.ProvinceState
	case FieldPostalCode:
		return d.PostalCode
	}
	return ""
}

// ExpectedCompanyData is the hand-entered company data. All fields are optional.
type ExpectedCompanyData struct {
	VATNumber          string `json:"vat_number,omitempty" yaml:"vat_number"`
	RegistrationNumber string `json:"registration_number,omitempty" yaml:"registration_number"`
	CompanyName        string `json:"company_name,omitempty" yaml:"company_name"`
	StreetAddress      string `json:"street_address,omitempty" yaml:"street_address"`
	City               string `json:"city,omitempty" yaml:"city"`
	ProvinceState      string `json:"province_state,omitempty" yaml:"province_state"`
	PostalCode         string `json:"postal_code,omitempty" yaml:"postal_code"`
}

// Value returns the expected value for f.
func (e *ExpectedCompanyData) Value(f Field) string {
	switch f {
	case FieldVATNumber:
		return e.VATNumber
	case FieldRegistrationNumber:
		return e.RegistrationNumber
	case FieldCompanyName:
		return e.CompanyName
	case FieldStreetAddress:
		return e.StreetAddress
	case FieldCity:
		return e.City
	case FieldProvinceState:
		return e.ProvinceState
	case FieldPostalCode:
		return e.PostalCode
	}
	return ""
}

// FieldMismatch describes a field whose expected and extracted values disagree.
// Similarity is only set for fuzzy-compared fields.
type FieldMismatch struct {
	Field      Field  `json:"field"`
	Expected   string `json:"expected"`
	Extracted  string `json:"extracted"`
	Similarity *int   `json:"similarity,omitempty"`
}

func (m FieldMismatch) String() string {
	if m.Similarity != nil {
		return fmt.Sprintf("%s: expected %q, document shows %q (%d%% similar)", m.Field, m.Expected, m.Extracted, *m.Similarity)
	}
	return fmt.Sprintf("%s: expected %q, document shows %q", m.Field, m.Expected, m.Extracted)
}

// ValidationResult is the verdict for one document.
type ValidationResult struct {
	IsValid              bool                  `json:"is_valid"`
	Mismatches           []FieldMismatch       `json:"mismatches"`
	ExtractedData        ExtractedDocumentData `json:"extracted_data"`
	RequiresManualReview bool                  `json:"requires_manual_review"`
	OCRFailed            bool                  `json:"ocr_failed"`
}
