package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/crm/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContactRepository implements crm.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact by its ID, including soft-deleted ones
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Contact, error) {
	var model models.ContactModel
	if err := findOne(r.db.WithContext(ctx), &model, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists active contacts matching the filter
func (r *GormContactRepository) FindAll(ctx context.Context, filter crm.ContactFilter) ([]crm.Contact, error) {
	var contactModels []models.ContactModel
	query := contactSort.paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.ContactModel{}), filter), filter.Filter)
	if err := query.Find(&contactModels).Error; err != nil {
		return nil, err
	}

	contacts := make([]crm.Contact, len(contactModels))
	for i, model := range contactModels {
		contacts[i] = *model.ToDomain()
	}
	return contacts, nil
}

// Count counts active contacts matching the filter
func (r *GormContactRepository) Count(ctx context.Context, filter crm.ContactFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContactModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindReportsTo returns the manager of a contact of the tenant
func (r *GormContactRepository) FindReportsTo(ctx context.Context, tenantID, contactID uuid.UUID) (*uuid.UUID, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Select("id", "reports_to_id").
		Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", contactID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ReportsToID, nil
}

// Create inserts a new contact
func (r *GormContactRepository) Create(ctx context.Context, contact *crm.Contact) error {
	return translateError(r.db.WithContext(ctx).Create(models.ContactModelFromDomain(contact)).Error)
}

// SaveWithLock saves a contact with optimistic locking (version check)
func (r *GormContactRepository) SaveWithLock(ctx context.Context, contact *crm.Contact) error {
	return updateVersioned(r.db.WithContext(ctx), models.ContactModelFromDomain(contact), contact.Version-1)
}

func (r *GormContactRepository) applyFilter(query *gorm.DB, filter crm.ContactFilter) *gorm.DB {
	query = query.Scopes(tenant.OptionalScope(filter.TenantID), tenant.Active)

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?)",
			pattern, pattern, pattern, pattern)
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	return query
}

// Ensure GormContactRepository implements crm.ContactRepository
var _ crm.ContactRepository = (*GormContactRepository)(nil)
