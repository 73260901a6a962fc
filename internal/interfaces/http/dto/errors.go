package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeStoreFault is used when the data store rejects an operation
	ErrCodeStoreFault = "ERR_STORE_FAULT"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeReferenceNotFound is used when a referenced resource does not exist
	ErrCodeReferenceNotFound = "ERR_REFERENCE_NOT_FOUND"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:    http.StatusInternalServerError,
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeStoreFault: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFormat: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// A missing reference in the request body is a semantic problem with
	// an otherwise well-formed request, not a lookup miss on the URL
	ErrCodeReferenceNotFound: http.StatusUnprocessableEntity,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Input errors
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain-layer error codes to wire-level codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"REFERENCE_NOT_FOUND":  ErrCodeReferenceNotFound,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"STORE_FAULT":          ErrCodeStoreFault,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire format
// If the code is already in the wire format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
