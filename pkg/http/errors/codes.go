package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// Upload/ingestion errors
	ErrCodeFileTooLarge    = "file_too_large"
	ErrCodeUnsupportedType = "unsupported_file_type"
	ErrCodeEmptyDocument   = "empty_document"
	ErrCodeTooManyFiles    = "too_many_files"
	ErrCodeUploadFailed    = "upload_failed"

	// Pipeline errors
	ErrCodeExtractionFailed = "extraction_failed"
	ErrCodeDetectionFailed  = "detection_failed"
	ErrCodeMergeFailed      = "merge_failed"
	ErrCodeUnknownStrategy  = "unknown_merge_strategy"
	ErrCodeBatchFailed      = "batch_failed"
	ErrCodeInvalidBatchID   = "invalid_batch_id"
	ErrCodeInvalidQuizID    = "invalid_quiz_id"

	// Export errors
	ErrCodeExportFailed  = "export_failed"
	ErrCodeUnknownFormat = "unknown_export_format"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
