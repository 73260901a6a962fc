package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opencrm/backend/internal/domain/partner"
	"github.com/opencrm/backend/internal/domain/shared"
	"github.com/opencrm/backend/internal/infrastructure/persistence/models"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) session(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a customer by email (case-insensitive)
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	if email == "" {
		return nil, shared.NewValidationError("Email cannot be empty")
	}
	var model models.CustomerModel
	if err := r.session(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyFilter(r.session(ctx).Model(&models.CustomerModel{}), filter)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]partner.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers, nil
}

// Save persists a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.session(ctx).Save(model).Error
}

// Delete removes a customer by ID
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.session(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.session(ctx).Model(&models.CustomerModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks whether a customer with the email exists
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.session(ctx).Model(&models.CustomerModel{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindExistingEmails returns the subset of the given emails already in use
func (r *GormCustomerRepository) FindExistingEmails(ctx context.Context, emails []string) ([]string, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	normalized := make([]string, len(emails))
	for i, email := range emails {
		normalized[i] = strings.ToLower(email)
	}
	var existing []string
	if err := r.session(ctx).Model(&models.CustomerModel{}).
		Where("email IN ?", normalized).
		Pluck("email", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CustomerSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", searchPattern, searchPattern)
	}
	return query
}

// Interface compliance check
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
