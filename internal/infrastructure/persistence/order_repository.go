package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opencrm/backend/internal/domain/shared"
	"github.com/opencrm/backend/internal/domain/trade"
	"github.com/opencrm/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) session(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds an order by its ID, including its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.session(ctx).Preload("Lines").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(r.session(ctx).Model(&models.OrderModel{}).Preload("Lines"), filter)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]trade.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// FindByCustomer returns the orders placed by a customer
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(
		r.session(ctx).Model(&models.OrderModel{}).Preload("Lines").
			Where("customer_id = ?", customerID),
		filter,
	)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]trade.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Save persists an order and its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.session(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
}

// Delete removes an order by ID
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.session(ctx).Delete(&models.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.session(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCustomer counts the orders placed by a customer
func (r *GormOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.session(ctx).Model(&models.OrderModel{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "order_date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// Interface compliance check
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
