package domain

// DocumentType identifies which regulatory certificate was uploaded.
type DocumentType string

const (
	DocumentTypeVAT          DocumentType = "vat"
	DocumentTypeRegistration DocumentType = "registration"
)

// ValidDocumentTypes lists the document types the engine can extract.
var ValidDocumentTypes = map[DocumentType]bool{
	DocumentTypeVAT:          true,
	DocumentTypeRegistration: true,
}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
	FileTypeTXT FileType = "txt"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"text/plain":      FileTypeTXT,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"txt":  FileTypeTXT,
}

// ContentTypeFor returns the canonical MIME type for a FileType.
func ContentTypeFor(ft FileType) string {
	for ct, t := range AllowedContentTypes {
		if t == ft {
			return ct
		}
	}
	return "application/octet-stream"
}

// UserRole defines what a user may do within a tenant.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleReviewer UserRole = "reviewer"
	RoleMember   UserRole = "member"
)

// ValidUserRoles lists the roles a user may be created with.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:    true,
	RoleReviewer: true,
	RoleMember:   true,
}

// VerificationStatus tracks a document through text extraction and validation.
type VerificationStatus string

const (
	VerificationStatusPending    VerificationStatus = "pending"
	VerificationStatusQueued     VerificationStatus = "queued"
	VerificationStatusProcessing VerificationStatus = "processing"
	VerificationStatusCompleted  VerificationStatus = "completed"
	VerificationStatusFailed     VerificationStatus = "failed"
)

// Verdict is the onboarding routing label derived from the validation flags.
type Verdict string

const (
	VerdictPassed       Verdict = "passed"
	VerdictFailed       Verdict = "failed"
	VerdictManualReview Verdict = "manual_review"
	VerdictOCRFailed    Verdict = "ocr_failed"
)

// VerdictFor maps validation flags to a verdict. OCR failure takes precedence.
func VerdictFor(isValid, requiresManualReview, ocrFailed bool) Verdict {
	switch {
	case ocrFailed:
		return VerdictOCRFailed
	case isValid:
		return VerdictPassed
	case requiresManualReview:
		return VerdictManualReview
	default:
		return VerdictFailed
	}
}

// ReviewStatus records the human decision on a document that needed review.
type ReviewStatus string

const (
	ReviewStatusNotRequired ReviewStatus = "not_required"
	ReviewStatusPending     ReviewStatus = "pending"
	ReviewStatusApproved    ReviewStatus = "approved"
	ReviewStatusRejected    ReviewStatus = "rejected"
)

// AuditAction names an event in a document's audit trail.
type AuditAction string

const (
	AuditDocumentCreated       AuditAction = "document.created"
	AuditVerificationQueued    AuditAction = "verification.queued"
	AuditVerificationCompleted AuditAction = "verification.completed"
	AuditVerificationFailed    AuditAction = "verification.failed"
	AuditVerificationRetried   AuditAction = "verification.retried"
	AuditDocumentReviewed      AuditAction = "document.reviewed"
)

// FieldValidationStatus is the per-field outcome shown to reviewers.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusInvalid FieldValidationStatus = "invalid"
	FieldStatusSkipped FieldValidationStatus = "skipped"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
)
