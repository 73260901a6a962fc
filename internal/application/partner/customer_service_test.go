package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opencrm/backend/internal/domain/partner"
	"github.com/opencrm/backend/internal/domain/shared"
)

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

func createTestCustomer() *partner.Customer {
	customer, _ := partner.NewCustomer("Jane Roe", "jane@example.com", "+12025550101")
	return customer
}

func TestCustomerService_Create_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	ctx := context.Background()
	req := CreateCustomerRequest{
		Name:  "Jane Roe",
		Email: "Jane@Example.com",
		Phone: "555-123-4567",
	}

	mockRepo.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.Create(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Jane Roe", result.Name)
	assert.Equal(t, "jane@example.com", result.Email)
	assert.Equal(t, "555-123-4567", result.Phone)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	ctx := context.Background()
	req := CreateCustomerRequest{
		Name:  "Jane Roe",
		Email: "jane@example.com",
	}

	mockRepo.On("ExistsByEmail", ctx, "jane@example.com").Return(true, nil)

	result, err := service.Create(ctx, req)

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	assert.Equal(t, "Email 'jane@example.com' already exists", domainErr.Message)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestCustomerService_Create_InvalidPhone(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	ctx := context.Background()
	req := CreateCustomerRequest{
		Name:  "Jane Roe",
		Email: "jane@example.com",
		Phone: "12",
	}

	mockRepo.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)

	result, err := service.Create(ctx, req)

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	ctx := context.Background()
	customerID := uuid.New()

	mockRepo.On("FindByID", ctx, customerID).Return(nil, shared.ErrNotFound)

	result, err := service.GetByID(ctx, customerID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerService_List_PassesSearch(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	ctx := context.Background()
	customers := []partner.Customer{*createTestCustomer()}

	expectedFilter := shared.Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   "jane",
		Filters:  make(map[string]any),
	}

	mockRepo.On("FindAll", ctx, expectedFilter).Return(customers, nil)
	mockRepo.On("Count", ctx, expectedFilter).Return(int64(1), nil)

	result, total, err := service.List(ctx, CustomerListFilter{Search: "jane"})

	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, int64(1), total)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Update_NameAndPhone(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	ctx := context.Background()
	customer := createTestCustomer()
	newName := "Jane R. Roe"
	newPhone := "555-987-6543"

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("Save", ctx, customer).Return(nil)

	result, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{
		Name:  &newName,
		Phone: &newPhone,
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane R. Roe", result.Name)
	assert.Equal(t, "555-987-6543", result.Phone)
	assert.Equal(t, "jane@example.com", result.Email)
	mockRepo.AssertNotCalled(t, "ExistsByEmail")
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Update_EmailChangeChecksDuplicate(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	ctx := context.Background()
	customer := createTestCustomer()
	newEmail := "taken@example.com"

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

	result, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{Email: &newEmail})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestCustomerService_Update_SameEmailSkipsCheck(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	ctx := context.Background()
	customer := createTestCustomer()
	sameEmail := "JANE@example.com"

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("Save", ctx, customer).Return(nil)

	result, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{Email: &sameEmail})

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", result.Email)
	mockRepo.AssertNotCalled(t, "ExistsByEmail")
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Delete_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	ctx := context.Background()
	customer := createTestCustomer()

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("Delete", ctx, customer.ID).Return(nil)

	err := service.Delete(ctx, customer.ID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	ctx := context.Background()
	customerID := uuid.New()

	mockRepo.On("FindByID", ctx, customerID).Return(nil, shared.ErrNotFound)

	err := service.Delete(ctx, customerID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Delete")
}
