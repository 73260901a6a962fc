package ingest

import (
	"fmt"
)

// Ingestion error codes
const (
	ErrCodeIngestEmptyBatch    = "ERR_INGEST_EMPTY_BATCH"
	ErrCodeIngestValidation    = "ERR_INGEST_VALIDATION"
	ErrCodeIngestDuplicate     = "ERR_INGEST_DUPLICATE"
	ErrCodeIngestBatchTooLarge = "ERR_INGEST_BATCH_TOO_LARGE"
)

// RecordError describes why a single candidate was rejected. Index is
// the candidate's position in the submitted batch, -1 for batch-level
// entries.
type RecordError struct {
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e RecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("record %d, field '%s': %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("record %d: %s", e.Index, e.Message)
}

// NewRecordError creates a new RecordError
func NewRecordError(index int, field, code, message string) RecordError {
	return RecordError{
		Index:   index,
		Field:   field,
		Code:    code,
		Message: message,
	}
}

// ErrorCollection accumulates per-record errors in submission order.
// Collection stops at maxErrors but counting continues, so callers can
// tell how many rejections a truncated result actually represents.
type ErrorCollection struct {
	errors     []RecordError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates an ErrorCollection with a collection limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 1000
	}
	return &ErrorCollection{
		errors:    make([]RecordError, 0),
		maxErrors: maxErrors,
	}
}

// Add appends an error to the collection
func (ec *ErrorCollection) Add(err RecordError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddDuplicate records a duplicate-email rejection
func (ec *ErrorCollection) AddDuplicate(index int, email string) {
	ec.Add(NewRecordError(index, "email", ErrCodeIngestDuplicate,
		fmt.Sprintf("Email '%s' already exists", email)))
}

// AddCreateFailure records a rejection raised while creating a candidate
func (ec *ErrorCollection) AddCreateFailure(index int, email string, cause error) {
	ec.Add(NewRecordError(index, "", ErrCodeIngestValidation,
		fmt.Sprintf("Error creating %s: %v", email, cause)))
}

// Errors returns the collected errors in submission order
func (ec *ErrorCollection) Errors() []RecordError {
	return ec.errors
}

// TotalCount returns the number of rejections, including any not
// collected because of the limit
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if any candidate was rejected
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were dropped by the limit
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}
