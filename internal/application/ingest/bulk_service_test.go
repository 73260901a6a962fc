package ingest

import (
	"context"
	"errors"
	"fmt"
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

// stubTxManager runs the callback directly without a real transaction
type stubTxManager struct{}

func (stubTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newBulkService(repo *MockCustomerRepository, opts Options) *BulkCustomerService {
	return NewBulkCustomerService(repo, stubTxManager{}, nil, opts, nil)
}

func TestBulkCustomerService_Ingest_EmptyBatch(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newBulkService(repo, Options{})

	result, err := service.Ingest(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, result.Successes)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrCodeIngestEmptyBatch, result.Errors[0].Code)
	assert.Equal(t, "No customers provided", result.Errors[0].Message)
	repo.AssertNotCalled(t, "FindExistingEmails")
	repo.AssertNotCalled(t, "Save")
}

func TestBulkCustomerService_Ingest_AllValid(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newBulkService(repo, Options{})

	ctx := context.Background()
	candidates := []CustomerCandidate{
		{Name: "Alice Adams", Email: "alice@example.com", Phone: "+12025550101"},
		{Name: "Bob Brown", Email: "bob@example.com"},
		{Name: "Carol Clark", Email: "Carol@Example.com", Phone: "555-123-4567"},
	}

	repo.On("FindExistingEmails", mock.Anything,
		[]string{"alice@example.com", "bob@example.com", "carol@example.com"}).
		Return([]string{}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil).Times(3)

	result, err := service.Ingest(ctx, candidates)

	require.NoError(t, err)
	require.Len(t, result.Successes, 3)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "alice@example.com", result.Successes[0].Email)
	assert.Equal(t, "bob@example.com", result.Successes[1].Email)
	assert.Equal(t, "carol@example.com", result.Successes[2].Email)
	assert.Equal(t, len(candidates), len(result.Successes)+result.TotalErrors)
	repo.AssertExpectations(t)
}

func TestBulkCustomerService_Ingest_IntraBatchDuplicate(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newBulkService(repo, Options{})

	ctx := context.Background()
	candidates := []CustomerCandidate{
		{Name: "Alice Adams", Email: "alice@example.com"},
		{Name: "Alice Again", Email: "ALICE@example.com"},
	}

	repo.On("FindExistingEmails", mock.Anything, []string{"alice@example.com"}).
		Return([]string{}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil).Once()

	result, err := service.Ingest(ctx, candidates)

	require.NoError(t, err)
	require.Len(t, result.Successes, 1)
	assert.Equal(t, "Alice Adams", result.Successes[0].Name)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, ErrCodeIngestDuplicate, result.Errors[0].Code)
	assert.Equal(t, "Email 'alice@example.com' already exists", result.Errors[0].Message)
	assert.Equal(t, len(candidates), len(result.Successes)+result.TotalErrors)
	repo.AssertExpectations(t)
}

func TestBulkCustomerService_Ingest_ResubmittedBatchAllDuplicates(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newBulkService(repo, Options{})

	ctx := context.Background()
	candidates := []CustomerCandidate{
		{Name: "Alice Adams", Email: "alice@example.com"},
		{Name: "Bob Brown", Email: "bob@example.com"},
	}

	repo.On("FindExistingEmails", mock.Anything,
		[]string{"alice@example.com", "bob@example.com"}).
		Return([]string{"alice@example.com", "bob@example.com"}, nil)

	result, err := service.Ingest(ctx, candidates)

	require.NoError(t, err)
	assert.Empty(t, result.Successes)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 0, result.Errors[0].Index)
	assert.Equal(t, 1, result.Errors[1].Index)
	for _, recordErr := range result.Errors {
		assert.Equal(t, ErrCodeIngestDuplicate, recordErr.Code)
	}
	assert.Equal(t, len(candidates), len(result.Successes)+result.TotalErrors)
	repo.AssertNotCalled(t, "Save")
}

func TestBulkCustomerService_Ingest_InvalidCandidateContinues(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newBulkService(repo, Options{})

	ctx := context.Background()
	candidates := []CustomerCandidate{
		{Name: "Alice Adams", Email: "not-an-email"},
		{Name: "", Email: "bob@example.com"},
		{Name: "Carol Clark", Email: "carol@example.com", Phone: "12"},
		{Name: "Dave Dunn", Email: "dave@example.com"},
	}

	repo.On("FindExistingEmails", mock.Anything, mock.Anything).Return([]string{}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil).Once()

	result, err := service.Ingest(ctx, candidates)

	require.NoError(t, err)
	require.Len(t, result.Successes, 1)
	assert.Equal(t, "dave@example.com", result.Successes[0].Email)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, 0, result.Errors[0].Index)
	assert.Equal(t, "Error creating not-an-email: Invalid email format", result.Errors[0].Message)
	assert.Equal(t, 1, result.Errors[1].Index)
	assert.Equal(t, "Error creating bob@example.com: Customer name is required", result.Errors[1].Message)
	assert.Equal(t, 2, result.Errors[2].Index)
	assert.Equal(t, "Error creating carol@example.com: Invalid phone number format", result.Errors[2].Message)
	assert.Equal(t, len(candidates), len(result.Successes)+result.TotalErrors)
	repo.AssertExpectations(t)
}

func TestBulkCustomerService_Ingest_StoreFaultAbortsBatch(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newBulkService(repo, Options{})

	ctx := context.Background()
	candidates := []CustomerCandidate{
		{Name: "Alice Adams", Email: "alice@example.com"},
		{Name: "Bob Brown", Email: "bob@example.com"},
	}

	repo.On("FindExistingEmails", mock.Anything, mock.Anything).Return([]string{}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil).Once()
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).
		Return(errors.New("connection reset")).Once()

	result, err := service.Ingest(ctx, candidates)

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STORE_FAULT", domainErr.Code)
}

func TestBulkCustomerService_Ingest_BatchTooLarge(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newBulkService(repo, Options{MaxBatchSize: 2})

	candidates := []CustomerCandidate{
		{Name: "A", Email: "a@example.com"},
		{Name: "B", Email: "b@example.com"},
		{Name: "C", Email: "c@example.com"},
	}

	result, err := service.Ingest(context.Background(), candidates)

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	repo.AssertNotCalled(t, "FindExistingEmails")
}

func TestBulkCustomerService_Ingest_ErrorLimitKeepsTotal(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newBulkService(repo, Options{MaxErrors: 2})

	candidates := make([]CustomerCandidate, 5)
	for i := range candidates {
		candidates[i] = CustomerCandidate{Name: fmt.Sprintf("User %d", i), Email: "broken"}
	}

	repo.On("FindExistingEmails", mock.Anything, []string{"broken"}).Return([]string{}, nil)

	result, err := service.Ingest(context.Background(), candidates)

	require.NoError(t, err)
	assert.Empty(t, result.Successes)
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, 5, result.TotalErrors)
	assert.True(t, result.Truncated)
	assert.Equal(t, len(candidates), len(result.Successes)+result.TotalErrors)
}
