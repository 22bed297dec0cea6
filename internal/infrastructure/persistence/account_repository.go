package persistence

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/crm/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements crm.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID, including soft-deleted ones
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Account, error) {
	var model models.AccountModel
	if err := findOne(r.db.WithContext(ctx), &model, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists active accounts matching the filter
func (r *GormAccountRepository) FindAll(ctx context.Context, filter crm.AccountFilter) ([]crm.Account, error) {
	var accountModels []models.AccountModel
	query := accountSort.paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.AccountModel{}), filter), filter.Filter)
	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]crm.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// Count counts active accounts matching the filter
func (r *GormAccountRepository) Count(ctx context.Context, filter crm.AccountFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.AccountModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks active accounts of the tenant, case-insensitively
func (r *GormAccountRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	query := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Scopes(tenant.Scope(tenantID), tenant.Active).
		Where("LOWER(account_name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForTenant counts every account of the tenant, soft-deleted included
func (r *GormAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Scopes(tenant.Scope(tenantID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new account. A clashing account number surfaces as a
// concurrency conflict.
func (r *GormAccountRepository) Create(ctx context.Context, account *crm.Account) error {
	return translateError(r.db.WithContext(ctx).Create(models.AccountModelFromDomain(account)).Error)
}

// SaveWithLock saves an account with optimistic locking (version check)
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *crm.Account) error {
	return updateVersioned(r.db.WithContext(ctx), models.AccountModelFromDomain(account), account.Version-1)
}

func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter crm.AccountFilter) *gorm.DB {
	query = query.Scopes(tenant.OptionalScope(filter.TenantID), tenant.Active)

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(account_name) LIKE ? OR LOWER(account_number) LIKE ? OR LOWER(email) LIKE ? OR LOWER(website) LIKE ?)",
			pattern, pattern, pattern, pattern)
	}
	if filter.AccountType != "" {
		query = query.Where("account_type = ?", filter.AccountType)
	}
	if filter.Industry != "" {
		query = query.Where("LOWER(industry) = ?", strings.ToLower(filter.Industry))
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	return query
}

// Ensure GormAccountRepository implements crm.AccountRepository
var _ crm.AccountRepository = (*GormAccountRepository)(nil)
