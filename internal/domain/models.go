package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated user belonging to a tenant.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CompanyDocument is an uploaded onboarding document together with the
// company data typed in by hand and the outcome of verifying one against
// the other.
type CompanyDocument struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	TenantID     uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	CompanyRef   string          `db:"company_ref" json:"company_ref"`
	DocumentType DocumentType    `db:"document_type" json:"document_type"`
	FileName     string          `db:"file_name" json:"file_name"`
	ContentType  string          `db:"content_type" json:"content_type"`
	FileSize     int64           `db:"file_size" json:"file_size"`
	S3Bucket     string          `db:"s3_bucket" json:"-"`
	S3Key        string          `db:"s3_key" json:"-"`
	ExpectedData json.RawMessage `db:"expected_data" json:"expected_data"`

	ExtractionMethod string          `db:"extraction_method" json:"extraction_method"`
	OCRConfidence    *float64        `db:"ocr_confidence" json:"ocr_confidence"`
	RawText          string          `db:"raw_text" json:"-"`
	ExtractedData    json.RawMessage `db:"extracted_data" json:"extracted_data"`
	ValidationResult json.RawMessage `db:"validation_result" json:"validation_result"`

	Verdict              Verdict `db:"verdict" json:"verdict"`
	IsValid              bool    `db:"is_valid" json:"is_valid"`
	RequiresManualReview bool    `db:"requires_manual_review" json:"requires_manual_review"`
	OCRFailed            bool    `db:"ocr_failed" json:"ocr_failed"`

	VerificationStatus VerificationStatus `db:"verification_status" json:"verification_status"`
	VerificationError  string             `db:"verification_error" json:"verification_error"`
	Attempts           int                `db:"attempts" json:"attempts"`
	RetryAfter         *time.Time         `db:"retry_after" json:"retry_after,omitempty"`
	VerifiedAt         *time.Time         `db:"verified_at" json:"verified_at"`

	ReviewStatus  ReviewStatus `db:"review_status" json:"review_status"`
	ReviewedBy    *uuid.UUID   `db:"reviewed_by" json:"reviewed_by"`
	ReviewedAt    *time.Time   `db:"reviewed_at" json:"reviewed_at"`
	ReviewerNotes string       `db:"reviewer_notes" json:"reviewer_notes"`

	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentAuditEntry is one immutable event in a document's history.
type DocumentAuditEntry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	TenantID   uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	DocumentID uuid.UUID       `db:"document_id" json:"document_id"`
	UserID     *uuid.UUID      `db:"user_id" json:"user_id"`
	Action     AuditAction     `db:"action" json:"action"`
	Changes    json.RawMessage `db:"changes" json:"changes"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// DocumentFilter narrows a document listing. Empty fields do not filter.
type DocumentFilter struct {
	Verdict            Verdict
	ReviewStatus       ReviewStatus
	VerificationStatus VerificationStatus
	DocumentType       DocumentType
	CompanyRef         string
}

// DocumentStats aggregates document counts for a dashboard.
type DocumentStats struct {
	TotalDocuments         int `db:"total_documents" json:"total_documents"`
	VerificationPending    int `db:"verification_pending" json:"verification_pending"`
	VerificationQueued     int `db:"verification_queued" json:"verification_queued"`
	VerificationProcessing int `db:"verification_processing" json:"verification_processing"`
	VerificationCompleted  int `db:"verification_completed" json:"verification_completed"`
	VerificationFailed     int `db:"verification_failed" json:"verification_failed"`
	VerdictPassed          int `db:"verdict_passed" json:"verdict_passed"`
	VerdictFailed          int `db:"verdict_failed" json:"verdict_failed"`
	VerdictManualReview    int `db:"verdict_manual_review" json:"verdict_manual_review"`
	VerdictOCRFailed       int `db:"verdict_ocr_failed" json:"verdict_ocr_failed"`
	ReviewPending          int `db:"review_pending" json:"review_pending"`
	ReviewApproved         int `db:"review_approved" json:"review_approved"`
	ReviewRejected         int `db:"review_rejected" json:"review_rejected"`
}
