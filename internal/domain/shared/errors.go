package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrReferenceNotFound   = NewDomainError("REFERENCE_NOT_FOUND", "Referenced resource does not exist")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrStoreFault          = NewDomainError("STORE_FAULT", "Persistent store operation failed")
)

// NewValidationError creates a validation error with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError("VALIDATION_ERROR", message)
}

// NewDuplicateError creates a duplicate-key error with a specific message
func NewDuplicateError(message string) *DomainError {
	return NewDomainError("ALREADY_EXISTS", message)
}

// NewReferenceError creates a missing-reference error with a specific message
func NewReferenceError(message string) *DomainError {
	return NewDomainError("REFERENCE_NOT_FOUND", message)
}
