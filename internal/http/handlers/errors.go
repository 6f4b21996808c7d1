package handlers

// Stable error codes returned in ErrorResponse.Code. Clients branch on these,
// not on messages.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeInternal     = "internal_error"

	ErrCodeValidation       = "validation_failed"
	ErrCodeInvalidID        = "invalid_id"
	ErrCodeMissingFields    = "missing_credentials"
	ErrCodeAuthMisconfig    = "auth_misconfigured"
	ErrCodeFileTooLarge     = "file_too_large"
	ErrCodeNotImage         = "not_an_image"
	ErrCodeUploadFailed     = "upload_failed"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeUpdateFailed     = "update_failed"
	ErrCodeDeleteFailed     = "delete_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
