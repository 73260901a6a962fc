package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opencrm/backend/internal/domain/catalog"
	"github.com/opencrm/backend/internal/domain/partner"
	"github.com/opencrm/backend/internal/domain/shared"
	"github.com/opencrm/backend/internal/domain/trade"
)

// OrderService handles order-related business operations
type OrderService struct {
	orderRepo    trade.OrderRepository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	eventBus     shared.EventBus
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	eventBus shared.EventBus,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		eventBus:     eventBus,
	}
}

// Create creates a new order. The customer and every referenced product
// must exist; the total is computed from the products' current prices.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.ProductIDs) == 0 {
		return nil, shared.NewValidationError("At least one product must be selected.")
	}

	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewReferenceError(fmt.Sprintf("Customer ID %s does not exist", req.CustomerID))
		}
		return nil, err
	}

	products, err := s.lookupProducts(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]trade.OrderLine, 0, len(req.ProductIDs))
	for _, productID := range req.ProductIDs {
		product := products[productID]
		line, err := trade.NewOrderLine(product.ID, product.Name, product.Price)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}

	var orderDate time.Time
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	order, err := trade.NewOrder(req.CustomerID, lines, orderDate)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves a list of orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
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
		Filters:  make(map[string]any),
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewValidationError("Invalid customer ID format")
		}
		domainFilter.Filters["customer_id"] = customerID
	}
	if filter.Status != "" {
		if !trade.OrderStatus(filter.Status).IsValid() {
			return nil, 0, shared.NewValidationError("Invalid order status")
		}
		domainFilter.Filters["status"] = filter.Status
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// Cancel cancels an order
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// lookupProducts resolves the requested product ids into a snapshot map.
// The lookup is de-duplicated; the first id with no matching product
// fails the whole request.
func (s *OrderService) lookupProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	unique := make([]uuid.UUID, 0, len(productIDs))
	seen := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	found, err := s.productRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	products := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		products[found[i].ID] = &found[i]
	}
	for _, id := range unique {
		if _, ok := products[id]; !ok {
			return nil, shared.NewReferenceError(fmt.Sprintf("Product ID %s does not exist", id))
		}
	}
	return products, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, order.GetDomainEvents()...)
	order.ClearDomainEvents()
}
