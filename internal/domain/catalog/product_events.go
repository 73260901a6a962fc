package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencrm/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated = "ProductCreated"
	EventTypeProductUpdated = "ProductUpdated"
	EventTypeProductDeleted = "ProductDeleted"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		Price:           product.Price,
		Stock:           product.Stock,
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		Price:           product.Price,
		Stock:           product.Stock,
	}
}

// ProductDeletedEvent is published when a product is deleted
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(product *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
	}
}
