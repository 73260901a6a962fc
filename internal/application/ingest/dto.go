package ingest

import (
	appartner "github.com/opencrm/backend/internal/application/partner"
)

// CustomerCandidate is one proposed customer in a bulk batch
type CustomerCandidate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BulkCustomerRequest represents a bulk customer creation request
type BulkCustomerRequest struct {
	Customers []CustomerCandidate `json:"customers"`
}

// BulkIngestResult is the outcome of one bulk call. Successes keep the
// submission order of the candidates they came from, and so do Errors;
// every candidate lands in exactly one of the two.
type BulkIngestResult struct {
	Successes   []appartner.CustomerResponse `json:"successes"`
	Errors      []RecordError                `json:"errors"`
	TotalErrors int                          `json:"total_errors"`
	Truncated   bool                         `json:"truncated,omitempty"`
}
