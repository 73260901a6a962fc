package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opencrm/backend/internal/domain/catalog"
	"github.com/opencrm/backend/internal/domain/shared"
	"github.com/opencrm/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) session(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the products matching the given ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var productModels []models.ProductModel
	if err := r.session(ctx).Where("id IN ?", ids).Find(&productModels).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	query := r.applyFilter(r.session(ctx).Model(&models.ProductModel{}), filter)

	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

// Save persists a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.session(ctx).Save(model).Error
}

// Delete removes a product by ID
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.session(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.session(ctx).Model(&models.ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Interface compliance check
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
