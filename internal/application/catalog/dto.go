package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencrm/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name  string          `json:"name" binding:"required,min=1,max=200"`
	Price decimal.Decimal `json:"price" binding:"required"`
	Stock *int            `json:"stock"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name  *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
