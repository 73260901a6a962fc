package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencrm/backend/internal/domain/partner"
	"github.com/opencrm/backend/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	eventBus     shared.EventBus
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, eventBus shared.EventBus) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		eventBus:     eventBus,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	email := partner.NormalizeEmail(req.Email)

	exists, err := s.customerRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError(fmt.Sprintf("Email '%s' already exists", email))
	}

	customer, err := partner.NewCustomer(req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a list of customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update updates a customer
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.UpdateName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := customer.UpdatePhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		email := partner.NormalizeEmail(*req.Email)
		if email != customer.Email {
			exists, err := s.customerRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDuplicateError(fmt.Sprintf("Email '%s' already exists", email))
			}
			if err := customer.ChangeEmail(email); err != nil {
				return nil, err
			}
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := s.customerRepo.Delete(ctx, customerID); err != nil {
		return err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, partner.NewCustomerDeletedEvent(customer))
	}
	return nil
}

func (s *CustomerService) publishEvents(ctx context.Context, customer *partner.Customer) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, customer.GetDomainEvents()...)
	customer.ClearDomainEvents()
}
