package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opencrm/backend/internal/domain/catalog"
	"github.com/opencrm/backend/internal/domain/partner"
	"github.com/opencrm/backend/internal/domain/shared"
	"github.com/opencrm/backend/internal/domain/trade"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) FindExistingEmails(ctx context.Context, emails []string) ([]string, error) {
	args := m.Called(ctx, emails)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newService(orderRepo *MockOrderRepository, customerRepo *MockCustomerRepository, productRepo *MockProductRepository) *OrderService {
	return NewOrderService(orderRepo, customerRepo, productRepo, nil)
}

func createTestCustomer() *partner.Customer {
	customer, _ := partner.NewCustomer("Jane Roe", "jane@example.com", "")
	return customer
}

func createTestProducts() []catalog.Product {
	a, _ := catalog.NewProduct("Widget", decimal.NewFromFloat(10.50), 5)
	b, _ := catalog.NewProduct("Gadget", decimal.NewFromFloat(4.25), 3)
	return []catalog.Product{*a, *b}
}

func TestOrderService_Create_Success(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	productRepo := new(MockProductRepository)
	service := newService(orderRepo, customerRepo, productRepo)

	ctx := context.Background()
	customer := createTestCustomer()
	products := createTestProducts()
	ids := []uuid.UUID{products[0].ID, products[1].ID}

	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	productRepo.On("FindByIDs", ctx, ids).Return(products, nil)
	orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)

	result, err := service.Create(ctx, CreateOrderRequest{
		CustomerID: customer.ID,
		ProductIDs: ids,
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, customer.ID, result.CustomerID)
	assert.Len(t, result.Lines, 2)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromFloat(14.75)))
	assert.Equal(t, "pending", result.Status)
	assert.False(t, result.OrderDate.IsZero())
	orderRepo.AssertExpectations(t)
	customerRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestOrderService_Create_DuplicateProductMakesTwoLines(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	productRepo := new(MockProductRepository)
	service := newService(orderRepo, customerRepo, productRepo)

	ctx := context.Background()
	customer := createTestCustomer()
	products := createTestProducts()
	ids := []uuid.UUID{products[0].ID, products[0].ID}

	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	// the lookup is de-duplicated even when the request repeats an id
	productRepo.On("FindByIDs", ctx, []uuid.UUID{products[0].ID}).Return(products[:1], nil)
	orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)

	result, err := service.Create(ctx, CreateOrderRequest{
		CustomerID: customer.ID,
		ProductIDs: ids,
	})

	require.NoError(t, err)
	assert.Len(t, result.Lines, 2)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromFloat(21.00)))
	productRepo.AssertExpectations(t)
}

func TestOrderService_Create_EmptyProductList(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	productRepo := new(MockProductRepository)
	service := newService(orderRepo, customerRepo, productRepo)

	ctx := context.Background()

	result, err := service.Create(ctx, CreateOrderRequest{
		CustomerID: uuid.New(),
		ProductIDs: nil,
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	assert.Equal(t, "At least one product must be selected.", domainErr.Message)
	customerRepo.AssertNotCalled(t, "FindByID")
}

func TestOrderService_Create_CustomerDoesNotExist(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	productRepo := new(MockProductRepository)
	service := newService(orderRepo, customerRepo, productRepo)

	ctx := context.Background()
	customerID := uuid.MustParse("44444444-4444-4444-4444-444444444444")

	customerRepo.On("FindByID", ctx, customerID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, CreateOrderRequest{
		CustomerID: customerID,
		ProductIDs: []uuid.UUID{uuid.New()},
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REFERENCE_NOT_FOUND", domainErr.Code)
	assert.Equal(t, "Customer ID 44444444-4444-4444-4444-444444444444 does not exist", domainErr.Message)
	productRepo.AssertNotCalled(t, "FindByIDs")
}

func TestOrderService_Create_ProductDoesNotExist(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	productRepo := new(MockProductRepository)
	service := newService(orderRepo, customerRepo, productRepo)

	ctx := context.Background()
	customer := createTestCustomer()
	products := createTestProducts()
	missingID := uuid.MustParse("55555555-5555-5555-5555-555555555555")
	ids := []uuid.UUID{products[0].ID, missingID}

	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	productRepo.On("FindByIDs", ctx, ids).Return(products[:1], nil)

	result, err := service.Create(ctx, CreateOrderRequest{
		CustomerID: customer.ID,
		ProductIDs: ids,
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REFERENCE_NOT_FOUND", domainErr.Code)
	assert.Equal(t, "Product ID 55555555-5555-5555-5555-555555555555 does not exist", domainErr.Message)
	orderRepo.AssertNotCalled(t, "Save")
}

func TestOrderService_Create_UsesProvidedOrderDate(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	productRepo := new(MockProductRepository)
	service := newService(orderRepo, customerRepo, productRepo)

	ctx := context.Background()
	customer := createTestCustomer()
	products := createTestProducts()
	orderDate := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	productRepo.On("FindByIDs", ctx, []uuid.UUID{products[0].ID}).Return(products[:1], nil)
	orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)

	result, err := service.Create(ctx, CreateOrderRequest{
		CustomerID: customer.ID,
		ProductIDs: []uuid.UUID{products[0].ID},
		OrderDate:  &orderDate,
	})

	require.NoError(t, err)
	assert.True(t, orderDate.Equal(result.OrderDate))
}

func TestOrderService_List_ByCustomer(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	productRepo := new(MockProductRepository)
	service := newService(orderRepo, customerRepo, productRepo)

	ctx := context.Background()
	customer := createTestCustomer()
	products := createTestProducts()
	line, _ := trade.NewOrderLine(products[0].ID, products[0].Name, products[0].Price)
	order, _ := trade.NewOrder(customer.ID, []trade.OrderLine{*line}, time.Time{})

	expectedFilter := shared.Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{"customer_id": customer.ID},
	}

	orderRepo.On("FindAll", ctx, expectedFilter).Return([]trade.Order{*order}, nil)
	orderRepo.On("Count", ctx, expectedFilter).Return(int64(1), nil)

	result, total, err := service.List(ctx, OrderListFilter{CustomerID: customer.ID.String()})

	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, int64(1), total)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_List_InvalidCustomerID(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	productRepo := new(MockProductRepository)
	service := newService(orderRepo, customerRepo, productRepo)

	_, _, err := service.List(context.Background(), OrderListFilter{CustomerID: "not-a-uuid"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	orderRepo.AssertNotCalled(t, "FindAll")
}

func TestOrderService_Cancel_Success(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	productRepo := new(MockProductRepository)
	service := newService(orderRepo, customerRepo, productRepo)

	ctx := context.Background()
	customer := createTestCustomer()
	products := createTestProducts()
	line, _ := trade.NewOrderLine(products[0].ID, products[0].Name, products[0].Price)
	order, _ := trade.NewOrder(customer.ID, []trade.OrderLine{*line}, time.Time{})
	order.ClearDomainEvents()

	orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	orderRepo.On("Save", ctx, order).Return(nil)

	result, err := service.Cancel(ctx, order.ID)

	require.NoError(t, err)
	assert.Equal(t, "cancelled", result.Status)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_Cancel_AlreadyCancelled(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	productRepo := new(MockProductRepository)
	service := newService(orderRepo, customerRepo, productRepo)

	ctx := context.Background()
	customer := createTestCustomer()
	products := createTestProducts()
	line, _ := trade.NewOrderLine(products[0].ID, products[0].Name, products[0].Price)
	order, _ := trade.NewOrder(customer.ID, []trade.OrderLine{*line}, time.Time{})
	require.NoError(t, order.Cancel())

	orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

	result, err := service.Cancel(ctx, order.ID)

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	orderRepo.AssertNotCalled(t, "Save")
}
