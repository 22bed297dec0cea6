package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/crm/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActivityLogRepository implements crm.ActivityLogRepository using GORM.
// Entries are append-only.
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// FindByID finds an audit entry by its ID
func (r *GormActivityLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.ActivityLog, error) {
	var model models.ActivityLogModel
	if err := findOne(r.db.WithContext(ctx), &model, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists audit entries, newest first by default
func (r *GormActivityLogRepository) FindAll(ctx context.Context, filter crm.ActivityFilter) ([]crm.ActivityLog, error) {
	var entryModels []models.ActivityLogModel
	query := activitySort.paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.ActivityLogModel{}), filter), filter.Filter)
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]crm.ActivityLog, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Count counts audit entries matching the filter
func (r *GormActivityLogRepository) Count(ctx context.Context, filter crm.ActivityFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ActivityLogModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create appends an audit entry
func (r *GormActivityLogRepository) Create(ctx context.Context, entry *crm.ActivityLog) error {
	model, err := models.ActivityLogModelFromDomain(entry)
	if err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

func (r *GormActivityLogRepository) applyFilter(query *gorm.DB, filter crm.ActivityFilter) *gorm.DB {
	query = query.Scopes(tenant.OptionalScope(filter.TenantID))

	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.EventName != "" {
		query = query.Where("event_name = ?", filter.EventName)
	}
	return query
}

// Ensure GormActivityLogRepository implements crm.ActivityLogRepository
var _ crm.ActivityLogRepository = (*GormActivityLogRepository)(nil)
