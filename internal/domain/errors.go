package domain

import "errors"

var (
	ErrNotFound                = errors.New("resource not found")
	ErrDocumentNotFound        = errors.New("document not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrDuplicateEmail          = errors.New("email already exists")
	ErrInvalidRole             = errors.New("invalid user role")
	ErrUserInactive            = errors.New("user is inactive")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrUnsupportedDocumentType = errors.New("unsupported document type")
	ErrFileTooLarge            = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed            = errors.New("file upload to storage failed")
	ErrInvalidExpectedData     = errors.New("expected company data is not valid JSON")
	ErrDocumentNotVerified     = errors.New("document verification has not completed")
	ErrDocumentProcessing      = errors.New("document verification is already in progress")
	ErrReviewNotRequired       = errors.New("document does not require manual review")
	ErrInvalidReviewStatus     = errors.New("review status must be approved or rejected")
	ErrInvalidExtractionMethod = errors.New("unknown extraction method")
	ErrInvalidOCRScore         = errors.New("ocr confidence score must be between 0 and 100")
)
