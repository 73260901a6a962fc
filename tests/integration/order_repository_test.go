package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencrm/backend/internal/domain/catalog"
	"github.com/opencrm/backend/internal/domain/partner"
	"github.com/opencrm/backend/internal/domain/shared"
	"github.com/opencrm/backend/internal/domain/trade"
	"github.com/opencrm/backend/internal/infrastructure/persistence"
)

type orderFixtures struct {
	customer *partner.Customer
	products []*catalog.Product
}

// seedOrderFixtures stores a customer and two products so orders can
// satisfy their foreign keys.
func seedOrderFixtures(t *testing.T, testDB *TestDB) orderFixtures {
	t.Helper()
	ctx := context.Background()

	customerRepo := persistence.NewGormCustomerRepository(testDB.DB)
	productRepo := persistence.NewGormProductRepository(testDB.DB)

	customer, err := partner.NewCustomer("Order Customer", uuid.NewString()+"@example.com", "")
	require.NoError(t, err)
	require.NoError(t, customerRepo.Save(ctx, customer))

	widget, err := catalog.NewProduct("Widget", decimal.NewFromFloat(19.99), 100)
	require.NoError(t, err)
	require.NoError(t, productRepo.Save(ctx, widget))

	gadget, err := catalog.NewProduct("Gadget", decimal.NewFromFloat(5.01), 50)
	require.NoError(t, err)
	require.NoError(t, productRepo.Save(ctx, gadget))

	return orderFixtures{customer: customer, products: []*catalog.Product{widget, gadget}}
}

func newOrderForFixtures(t *testing.T, fx orderFixtures) *trade.Order {
	t.Helper()

	lines := make([]trade.OrderLine, 0, len(fx.products))
	for _, p := range fx.products {
		line, err := trade.NewOrderLine(p.ID, p.Name, p.Price)
		require.NoError(t, err)
		lines = append(lines, *line)
	}

	order, err := trade.NewOrder(fx.customer.ID, lines, time.Now())
	require.NoError(t, err)
	return order
}

// TestOrderRepository_Integration exercises GormOrderRepository against
// a real PostgreSQL database.
func TestOrderRepository_Integration(t *testing.T) {
	testDB := NewTestDB(t)
	repo := persistence.NewGormOrderRepository(testDB.DB)
	ctx := context.Background()

	fx := seedOrderFixtures(t, testDB)

	t.Run("Save and FindByID loads lines", func(t *testing.T) {
		order := newOrderForFixtures(t, fx)
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, fx.customer.ID, found.CustomerID)
		assert.Equal(t, trade.OrderStatusPending, found.Status)
		require.Len(t, found.Lines, 2)
		// total is the sum of the snapshotted unit prices
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromFloat(25.00)),
			"expected 25.00, got %s", found.TotalAmount)

		for _, line := range found.Lines {
			assert.Equal(t, order.ID, line.OrderID)
			assert.NotEmpty(t, line.ProductName)
		}
	})

	t.Run("FindByID missing order", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindByCustomer and CountByCustomer", func(t *testing.T) {
		other := seedOrderFixtures(t, testDB)

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Save(ctx, newOrderForFixtures(t, other)))
		}

		orders, err := repo.FindByCustomer(ctx, other.customer.ID, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, orders, 3)
		for _, o := range orders {
			assert.Equal(t, other.customer.ID, o.CustomerID)
			assert.Len(t, o.Lines, 2)
		}

		count, err := repo.CountByCustomer(ctx, other.customer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		count, err = repo.CountByCustomer(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("FindAll filters by status", func(t *testing.T) {
		statusFx := seedOrderFixtures(t, testDB)

		pending := newOrderForFixtures(t, statusFx)
		require.NoError(t, repo.Save(ctx, pending))

		cancelled := newOrderForFixtures(t, statusFx)
		require.NoError(t, cancelled.Cancel())
		require.NoError(t, repo.Save(ctx, cancelled))

		filter := shared.Filter{
			Filters: map[string]interface{}{
				"customer_id": statusFx.customer.ID,
				"status":      string(trade.OrderStatusCancelled),
			},
		}

		found, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, cancelled.ID, found[0].ID)

		// Count honors the same status filter, so pagination totals
		// match the listed rows
		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Save persists status transitions", func(t *testing.T) {
		order := newOrderForFixtures(t, fx)
		require.NoError(t, repo.Save(ctx, order))

		require.NoError(t, order.Cancel())
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusCancelled, found.Status)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("Delete cascades to lines", func(t *testing.T) {
		order := newOrderForFixtures(t, fx)
		require.NoError(t, repo.Save(ctx, order))

		require.NoError(t, repo.Delete(ctx, order.ID))

		_, err := repo.FindByID(ctx, order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var lineCount int64
		require.NoError(t, testDB.DB.Table("order_lines").
			Where("order_id = ?", order.ID).
			Count(&lineCount).Error)
		assert.Equal(t, int64(0), lineCount)
	})
}
