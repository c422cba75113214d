package company

import "strings"

// Minimum similarity for fuzzy-compared fields.
const (
	CompanyNameThreshold   = 85
	StreetAddressThreshold = 70
	CityThreshold          = 80
)

type comparison int

const (
	compareIdentifier comparison = iota
	compareUpper
	compareFuzzy
)

type fieldRule struct {
	field     Field
	compare   comparison
	threshold int
}

// fieldRules is evaluated in order; mismatches are reported in this order.
var fieldRules = []fieldRule{
	{field: FieldVATNumber, compare: compareIdentifier},
	{field: FieldRegistrationNumber, compare: compareIdentifier},
	{field: FieldPostalCode, compare: compareIdentifier},
	{field: FieldProvinceState, compare: compareUpper},
	{field: FieldCompanyName, compare: compareFuzzy, threshold: CompanyNameThreshold},
	{field: FieldStreetAddress, compare: compareFuzzy, threshold: StreetAddressThreshold},
	{field: FieldCity, compare: compareFuzzy, threshold: CityThreshold},
}

// ThresholdFor returns the fuzzy-match threshold for f, and false for
// exact-match fields.
func ThresholdFor(f Field) (int, bool) {
	for _, r := range fieldRules {
		if r.field == f && r.compare == compareFuzzy {
			return r.threshold, true
		}
	}
	return 0, false
}

// IsFuzzy reports whether f is compared by similarity rather than equality.
func IsFuzzy(f Field) bool {
	_, ok := ThresholdFor(f)
	return ok
}

// Validate cross-checks extracted fields against the expected company data.
// A field is compared only when both sides carry a value.
func Validate(extracted ExtractedDocumentData, expected ExpectedCompanyData) ValidationResult {
	if !extracted.Success {
		return ValidationResult{
			IsValid:              false,
			Mismatches:           []FieldMismatch{},
			ExtractedData:        extracted,
			RequiresManualReview: true,
			OCRFailed:            true,
		}
	}

	mismatches := []FieldMismatch{}
	for _, rule := range fieldRules {
		want := expected.Value(rule.field)
		got := extracted.Value(rule.field)
		if want == "" || got == "" {
			continue
		}
		if m, ok := compareField(rule, want, got); !ok {
			mismatches = append(mismatches, m)
		}
	}

	return ValidationResult{
		IsValid:              len(mismatches) == 0,
		Mismatches:           mismatches,
		ExtractedData:        extracted,
		RequiresManualReview: extracted.Confidence == ConfidenceLow && len(mismatches) > 0,
		OCRFailed:            false,
	}
}

func compareField(rule fieldRule, expected, extracted string) (FieldMismatch, bool) {
	m := FieldMismatch{Field: rule.field, Expected: expected, Extracted: extracted}
	switch rule.compare {
	case compareIdentifier:
		return m, NormalizeIdentifier(expected) == NormalizeIdentifier(extracted)
	case compareUpper:
		return m, strings.ToUpper(strings.TrimSpace(expected)) == strings.ToUpper(strings.TrimSpace(extracted))
	default:
		sim := SimilarityPercent(expected, extracted)
		m.Similarity = &sim
		return m, sim >= rule.threshold
	}
}
