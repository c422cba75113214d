package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"regcheck/internal/domain"
	"regcheck/internal/port"
	"regcheck/internal/validator/company"
)

// Engine runs field extraction and validation for company documents.
type Engine struct {
	registry *Registry
	docRepo  port.DocumentRepository
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry, docRepo port.DocumentRepository) *Engine {
	return &Engine{
		registry: registry,
		docRepo:  docRepo,
	}
}

// Run extracts fields from raw text and validates them. It touches no
// storage and is safe for concurrent use.
func (e *Engine) Run(docType domain.DocumentType, raw company.RawDocumentText, expected company.ExpectedCompanyData) (*company.ValidationResult, error) {
	ex := e.registry.Get(docType)
	if ex == nil {
		return nil, domain.ErrUnsupportedDocumentType
	}
	result := company.Validate(ex.Extract(raw), expected)
	return &result, nil
}

// Evaluate validates the text stored on doc and applies the outcome to it.
// A non-empty VerificationError means text extraction itself failed, and
// the document is evaluated as an unsuccessful extraction.
func (e *Engine) Evaluate(doc *domain.CompanyDocument) (*company.ValidationResult, error) {
	expected, err := DecodeExpected(doc.ExpectedData)
	if err != nil {
		return nil, err
	}

	if doc.VerificationError != "" {
		return e.EvaluateFailure(doc, errors.New(doc.VerificationError))
	}

	raw := company.RawDocumentText{
		Text:               doc.RawText,
		Method:             company.ExtractionMethod(doc.ExtractionMethod),
		OCRConfidenceScore: doc.OCRConfidence,
	}
	result, err := e.Run(doc.DocumentType, raw, expected)
	if err != nil {
		return nil, err
	}
	if err := Apply(doc, result); err != nil {
		return nil, err
	}
	return result, nil
}

// EvaluateFailure records an extraction-service failure on doc. The engine
// still produces a result, flagged as OCR failed and routed to review.
func (e *Engine) EvaluateFailure(doc *domain.CompanyDocument, cause error) (*company.ValidationResult, error) {
	expected, err := DecodeExpected(doc.ExpectedData)
	if err != nil {
		return nil, err
	}
	if e.registry.Get(doc.DocumentType) == nil {
		return nil, domain.ErrUnsupportedDocumentType
	}

	method := company.ExtractionMethod(doc.ExtractionMethod)
	result := company.Validate(company.FailedExtraction(method, cause), expected)
	doc.VerificationError = cause.Error()
	if err := Apply(doc, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Apply copies a validation result onto a document: JSON snapshots, flags,
// verdict and the review requirement. A review decision already taken is kept.
func Apply(doc *domain.CompanyDocument, result *company.ValidationResult) error {
	extractedJSON, err := json.Marshal(result.ExtractedData)
	if err != nil {
		return fmt.Errorf("marshaling extracted data: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling validation result: %w", err)
	}

	now := time.Now().UTC()
	doc.ExtractedData = extractedJSON
	doc.ValidationResult = resultJSON
	doc.ExtractionMethod = string(result.ExtractedData.ExtractionMethod)
	doc.IsValid = result.IsValid
	doc.RequiresManualReview = result.RequiresManualReview
	doc.OCRFailed = result.OCRFailed
	doc.Verdict = domain.VerdictFor(result.IsValid, result.RequiresManualReview, result.OCRFailed)
	doc.VerificationStatus = domain.VerificationStatusCompleted
	doc.RetryAfter = nil
	doc.VerifiedAt = &now

	switch doc.ReviewStatus {
	case domain.ReviewStatusApproved, domain.ReviewStatusRejected:
	default:
		if result.RequiresManualReview {
			doc.ReviewStatus = domain.ReviewStatusPending
		} else {
			doc.ReviewStatus = domain.ReviewStatusNotRequired
		}
	}
	return nil
}

// ValidateDocument re-validates a stored document from its persisted raw
// text and saves the outcome.
func (e *Engine) ValidateDocument(ctx context.Context, tenantID, docID uuid.UUID) (*company.ValidationResult, error) {
	doc, err := e.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	result, err := e.Evaluate(doc)
	if err != nil {
		return nil, fmt.Errorf("evaluating document: %w", err)
	}

	if err := e.docRepo.UpdateVerification(ctx, doc); err != nil {
		return nil, fmt.Errorf("updating verification: %w", err)
	}

	log.Printf("validator.Engine: document %s validated, verdict=%s, confidence=%s, mismatches=%d",
		docID, doc.Verdict, result.ExtractedData.Confidence, len(result.Mismatches))
	return result, nil
}

// GetValidation loads the stored validation result and computes field statuses for a document.
func (e *Engine) GetValidation(ctx context.Context, tenantID, docID uuid.UUID) (*ValidationResponse, error) {
	doc, err := e.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	if doc.VerificationStatus != domain.VerificationStatusCompleted || len(doc.ValidationResult) == 0 {
		return nil, domain.ErrDocumentNotVerified
	}

	var result company.ValidationResult
	if err := json.Unmarshal(doc.ValidationResult, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling validation result: %w", err)
	}
	expected, err := DecodeExpected(doc.ExpectedData)
	if err != nil {
		return nil, err
	}

	mismatches := result.Mismatches
	if mismatches == nil {
		mismatches = []company.FieldMismatch{}
	}
	errs := result.ExtractedData.Errors
	if errs == nil {
		errs = []string{}
	}

	return &ValidationResponse{
		DocumentID:           docID,
		DocumentType:         doc.DocumentType,
		Verdict:              doc.Verdict,
		IsValid:              result.IsValid,
		RequiresManualReview: result.RequiresManualReview,
		OCRFailed:            result.OCRFailed,
		Confidence:           result.ExtractedData.Confidence,
		FieldConfidence:      result.ExtractedData.FieldConfidence,
		ExtractionMethod:     result.ExtractedData.ExtractionMethod,
		OCRConfidenceScore:   doc.OCRConfidence,
		ReviewStatus:         doc.ReviewStatus,
		Mismatches:           mismatches,
		FieldStatuses:        ComputeFieldStatuses(expected, result),
		Errors:               errs,
		VerifiedAt:           doc.VerifiedAt,
	}, nil
}

// DecodeExpected parses the stored expected-data JSON. Empty input yields
// an empty ExpectedCompanyData.
func DecodeExpected(raw json.RawMessage) (company.ExpectedCompanyData, error) {
	var expected company.ExpectedCompanyData
	if len(raw) == 0 || string(raw) == "null" {
		return expected, nil
	}
	if err := json.Unmarshal(raw, &expected); err != nil {
		return expected, fmt.Errorf("%w: %v", domain.ErrInvalidExpectedData, err)
	}
	return expected, nil
}

// ValidationResponse is the API response for GET /documents/:id/verification.
type ValidationResponse struct {
	DocumentID           uuid.UUID                      `json:"document_id"`
	DocumentType         domain.DocumentType            `json:"document_type"`
	Verdict              domain.Verdict                 `json:"verdict"`
	IsValid              bool                           `json:"is_valid"`
	RequiresManualReview bool                           `json:"requires_manual_review"`
	OCRFailed            bool                           `json:"ocr_failed"`
	Confidence           company.Confidence             `json:"confidence"`
	FieldConfidence      company.Confidence             `json:"field_confidence"`
	ExtractionMethod     company.ExtractionMethod       `json:"extraction_method"`
	OCRConfidenceScore   *float64                       `json:"ocr_confidence_score,omitempty"`
	ReviewStatus         domain.ReviewStatus            `json:"review_status"`
	Mismatches           []company.FieldMismatch        `json:"mismatches"`
	FieldStatuses        map[company.Field]*FieldStatus `json:"field_statuses"`
	Errors               []string                       `json:"errors"`
	VerifiedAt           *time.Time                     `json:"verified_at"`
}
