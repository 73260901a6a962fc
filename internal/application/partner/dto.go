package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/opencrm/backend/internal/domain/partner"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"required,email,max=254"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=254"`
	Phone *string `json:"phone" binding:"omitempty,max=20"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
