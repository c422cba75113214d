package company

import (
	"fmt"
	"strings"
)

// extraction accumulates located fields for a single document. It never
// escapes the parse function that owns it.
type extraction struct {
	data ExtractedDocumentData
}

func newExtraction(raw RawDocumentText) *extraction {
	method := raw.Method
	if method == "" {
		method = MethodNone
	}
	return &extraction{data: ExtractedDocumentData{
		RawText:          raw.Text,
		Confidence:       ConfidenceLow,
		FieldConfidence:  ConfidenceLow,
		ExtractionMethod: method,
		Errors:           []string{},
	}}
}

// set stores value for f, or records the advisory error when it is empty.
func (e *extraction) set(f Field, value string) {
	if value == "" {
		e.data.Errors = append(e.data.Errors, missingFieldErrors[f])
		return
	}
	switch f {
	case FieldVATNumber:
		e.data.VATNumber = value
	case FieldRegistrationNumber:
		e.data.RegistrationNumber = value
	case FieldCompanyName:
		e.data.CompanyName = value
	case FieldStreetAddress:
		e.data.StreetAddress = value
	case FieldCity:
		e.data.City = value
	case FieldProvinceState:
		e.data.ProvinceState = value
	case FieldPostalCode:
		e.data.PostalCode = value
	}
}

func (e *extraction) countFound(fields ...Field) int {
	n := 0
	for _, f := range fields {
		if e.data.Value(f) != "" {
			n++
		}
	}
	return n
}

// finish applies the confidence policy and returns the result by value.
func (e *extraction) finish(fieldConfidence Confidence, raw RawDocumentText) ExtractedDocumentData {
	e.data.FieldConfidence = fieldConfidence
	e.data.Confidence = fieldConfidence
	if raw.Method == MethodOCRImage && raw.OCRConfidenceScore != nil {
		e.data.Confidence = ocrConfidence(*raw.OCRConfidenceScore)
	}
	return e.data
}

// hasUsableText reports whether raw passes the shared pre-check.
func hasUsableText(raw RawDocumentText) bool {
	return len([]rune(strings.TrimSpace(raw.Text))) >= minUsableTextLength
}

func unusableText(raw RawDocumentText) ExtractedDocumentData {
	e := newExtraction(raw)
	e.data.Errors = append(e.data.Errors, noUsableTextError)
	return e.data
}

// ParseVatDocument extracts fields from a VAT/tax certificate.
func ParseVatDocument(raw RawDocumentText) ExtractedDocumentData {
	if !hasUsableText(raw) {
		return unusableText(raw)
	}

	e := newExtraction(raw)
	e.set(FieldVATNumber, vatNumberPattern.FindString(raw.Text))
	e.set(FieldRegistrationNumber, registrationNumberPattern.FindString(raw.Text))
	e.set(FieldCompanyName, extractCompanyName(raw.Text))

	found := e.countFound(FieldVATNumber, FieldRegistrationNumber, FieldCompanyName)
	e.data.Success = found > 0

	conf := ConfidenceLow
	switch {
	case found >= 3:
		conf = ConfidenceHigh
	case found == 2:
		conf = ConfidenceMedium
	}
	return e.finish(conf, raw)
}

// ParseRegistrationDocument extracts fields from a company registration
// certificate, including the registered address.
func ParseRegistrationDocument(raw RawDocumentText) ExtractedDocumentData {
	if !hasUsableText(raw) {
		return unusableText(raw)
	}

	e := newExtraction(raw)
	e.set(FieldRegistrationNumber, registrationNumberPattern.FindString(raw.Text))
	e.set(FieldCompanyName, extractCompanyName(raw.Text))

	addr := extractAddress(raw.Text)
	e.set(FieldStreetAddress, addr.street)
	e.set(FieldCity, addr.city)
	e.set(FieldProvinceState, addr.province)
	e.set(FieldPostalCode, addr.postalCode)

	e.data.Success = e.countFound(FieldRegistrationNumber, FieldCompanyName) > 0

	found := e.countFound(FieldRegistrationNumber, FieldCompanyName,
		FieldStreetAddress, FieldCity, FieldProvinceState, FieldPostalCode)
	conf := ConfidenceLow
	switch {
	case found >= 5:
		conf = ConfidenceHigh
	case found >= 3:
		conf = ConfidenceMedium
	}
	return e.finish(conf, raw)
}

// FailedExtraction builds the unsuccessful result a caller hands to Validate
// when the text extraction service itself failed.
func FailedExtraction(method ExtractionMethod, err error) ExtractedDocumentData {
	if method == "" {
		method = MethodNone
	}
	msg := noUsableTextError
	if err != nil {
		msg = fmt.Sprintf("text extraction failed: %v", err)
	}
	return ExtractedDocumentData{
		Confidence:       ConfidenceLow,
		FieldConfidence:  ConfidenceLow,
		ExtractionMethod: method,
		Errors:           []string{msg},
	}
}

// ocrConfidence maps an OCR engine score in [0,100] to a bucket.
func ocrConfidence(score float64) Confidence {
	switch {
	case score > 80:
		return ConfidenceHigh
	case score > 60:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// extractCompanyName tries the legal-suffix patterns in priority order on
// whitespace-collapsed text, then falls back to a labeled name line.
func extractCompanyName(text string) string {
	flat := collapseWhitespace(text)
	for _, re := range companySuffixPatterns {
		if m := re.FindStringSubmatch(flat); m != nil {
			return cleanName(m[1] + " " + m[2])
		}
	}
	if m := labeledNamePattern.FindStringSubmatch(text); m != nil {
		return cleanName(m[1])
	}
	return ""
}
