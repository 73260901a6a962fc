package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencrm/backend/internal/domain/shared"
)

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	shared.Repository[Order]

	// FindByCustomer returns the orders placed by a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountByCustomer counts the orders placed by a customer
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}
