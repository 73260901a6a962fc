package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencrm/backend/internal/domain/catalog"
	"github.com/opencrm/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	eventBus    shared.EventBus
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, eventBus shared.EventBus) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		eventBus:    eventBus,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}

	product, err := catalog.NewProduct(req.Name, req.Price, stock)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
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

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.UpdateName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := product.ChangePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, catalog.NewProductDeletedEvent(product))
	}
	return nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, product.GetDomainEvents()...)
	product.ClearDomainEvents()
}
