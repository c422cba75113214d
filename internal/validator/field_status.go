package validator

import (
	"fmt"

	"regcheck/internal/domain"
	"regcheck/internal/validator/company"
)

// FieldStatus represents the computed validation state for a single field.
type FieldStatus struct {
	Status     domain.FieldValidationStatus `json:"status"`
	Similarity *int                         `json:"similarity,omitempty"`
	Threshold  *int                         `json:"threshold,omitempty"`
	Messages   []string                     `json:"messages"`
}

// ComputeFieldStatuses derives a status for every comparable field from the
// expected data and the validation result. A field that matched but came
// from a low-confidence extraction is reported as unsure.
func ComputeFieldStatuses(expected company.ExpectedCompanyData, result company.ValidationResult) map[company.Field]*FieldStatus {
	mismatches := make(map[company.Field]company.FieldMismatch, len(result.Mismatches))
	for _, m := range result.Mismatches {
		mismatches[m.Field] = m
	}

	statuses := make(map[company.Field]*FieldStatus, len(company.AllFields))
	for _, f := range company.AllFields {
		fs := &FieldStatus{Messages: []string{}}
		if th, ok := company.ThresholdFor(f); ok {
			th := th
			fs.Threshold = &th
		}
		statuses[f] = fs

		if result.OCRFailed {
			fs.Status = domain.FieldStatusSkipped
			fs.Messages = append(fs.Messages, "text extraction failed")
			continue
		}

		if m, ok := mismatches[f]; ok {
			fs.Status = domain.FieldStatusInvalid
			fs.Similarity = m.Similarity
			fs.Messages = append(fs.Messages, mismatchMessage(m, fs.Threshold))
			continue
		}

		want := expected.Value(f)
		got := result.ExtractedData.Value(f)
		switch {
		case want == "":
			fs.Status = domain.FieldStatusSkipped
			fs.Messages = append(fs.Messages, "no expected value provided")
			continue
		case got == "":
			fs.Status = domain.FieldStatusSkipped
			fs.Messages = append(fs.Messages, "not found in document")
			continue
		}

		if company.IsFuzzy(f) {
			sim := company.SimilarityPercent(want, got)
			fs.Similarity = &sim
		}
		fs.Status = domain.FieldStatusValid
		if result.ExtractedData.Confidence == company.ConfidenceLow {
			fs.Status = domain.FieldStatusUnsure
			fs.Messages = append(fs.Messages, "matched, but extraction confidence is low")
		}
	}
	return statuses
}

func mismatchMessage(m company.FieldMismatch, threshold *int) string {
	if m.Similarity != nil && threshold != nil {
		return fmt.Sprintf("expected %q, document shows %q (similarity %d%%, needs %d%%)",
			m.Expected, m.Extracted, *m.Similarity, *threshold)
	}
	return fmt.Sprintf("expected %q, document shows %q", m.Expected, m.Extracted)
}
