package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencrm/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	shared.Repository[Product]

	// FindByIDs returns the products matching the given ids. Missing
	// ids are simply absent from the result; callers decide whether
	// that is an error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
}
