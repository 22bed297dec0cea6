package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/crm/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOpportunityRepository implements crm.OpportunityRepository using GORM
type GormOpportunityRepository struct {
	db *gorm.DB
}

// NewGormOpportunityRepository creates a new GormOpportunityRepository
func NewGormOpportunityRepository(db *gorm.DB) *GormOpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

// FindByID finds an opportunity by its ID, including soft-deleted ones
func (r *GormOpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Opportunity, error) {
	var model models.OpportunityModel
	if err := findOne(r.db.WithContext(ctx), &model, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists active opportunities matching the filter
func (r *GormOpportunityRepository) FindAll(ctx context.Context, filter crm.OpportunityFilter) ([]crm.Opportunity, error) {
	var opportunityModels []models.OpportunityModel
	query := opportunitySort.paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.OpportunityModel{}), filter), filter.Filter)
	if err := query.Find(&opportunityModels).Error; err != nil {
		return nil, err
	}

	opportunities := make([]crm.Opportunity, len(opportunityModels))
	for i, model := range opportunityModels {
		opportunities[i] = *model.ToDomain()
	}
	return opportunities, nil
}

// Count counts active opportunities matching the filter
func (r *GormOpportunityRepository) Count(ctx context.Context, filter crm.OpportunityFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.OpportunityModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new opportunity
func (r *GormOpportunityRepository) Create(ctx context.Context, opportunity *crm.Opportunity) error {
	return translateError(r.db.WithContext(ctx).Create(models.OpportunityModelFromDomain(opportunity)).Error)
}

// SaveWithLock saves an opportunity with optimistic locking (version check)
func (r *GormOpportunityRepository) SaveWithLock(ctx context.Context, opportunity *crm.Opportunity) error {
	return updateVersioned(r.db.WithContext(ctx), models.OpportunityModelFromDomain(opportunity), opportunity.Version-1)
}

func (r *GormOpportunityRepository) applyFilter(query *gorm.DB, filter crm.OpportunityFilter) *gorm.DB {
	query = query.Scopes(tenant.OptionalScope(filter.TenantID), tenant.Active)

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(opportunity_name) LIKE ? OR LOWER(next_step) LIKE ?)", pattern, pattern)
	}
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	return query
}

// Ensure GormOpportunityRepository implements crm.OpportunityRepository
var _ crm.OpportunityRepository = (*GormOpportunityRepository)(nil)
