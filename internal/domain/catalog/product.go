package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opencrm/backend/internal/domain/shared"
)

// MaxProductNameLength is the maximum product name length
const MaxProductNameLength = 200

// Product is the product aggregate root
type Product struct {
	shared.BaseAggregateRoot
	Name  string
	Price decimal.Decimal
	Stock int
}

// NewProduct creates a new product aggregate
func NewProduct(name string, price decimal.Decimal, stock int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, shared.NewValidationError("Stock must not be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Price:             price,
		Stock:             stock,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))
	return product, nil
}

// UpdateName changes the product name
func (p *Product) UpdateName(name string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// ChangePrice changes the product price
func (p *Product) ChangePrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	p.Price = price
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// SetStock replaces the stock level
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewValidationError("Stock must not be negative")
	}
	p.Stock = stock
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// AdjustStock applies a relative stock delta
func (p *Product) AdjustStock(delta int) error {
	if p.Stock+delta < 0 {
		return shared.NewValidationError("Stock must not be negative")
	}
	p.Stock += delta
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Product name is required")
	}
	if len(name) > MaxProductNameLength {
		return shared.NewValidationError("Product name must not exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Price must be greater than zero")
	}
	return nil
}
