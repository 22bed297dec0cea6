package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/crm/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLeadRepository implements crm.LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID finds a lead by its ID, including soft-deleted ones
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Lead, error) {
	var model models.LeadModel
	if err := findOne(r.db.WithContext(ctx), &model, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists active leads matching the filter
func (r *GormLeadRepository) FindAll(ctx context.Context, filter crm.LeadFilter) ([]crm.Lead, error) {
	var leadModels []models.LeadModel
	query := leadSort.paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.LeadModel{}), filter), filter.Filter)
	if err := query.Find(&leadModels).Error; err != nil {
		return nil, err
	}

	leads := make([]crm.Lead, len(leadModels))
	for i, model := range leadModels {
		leads[i] = *model.ToDomain()
	}
	return leads, nil
}

// Count counts active leads matching the filter
func (r *GormLeadRepository) Count(ctx context.Context, filter crm.LeadFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeadModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail reports whether another lead of the tenant uses email
func (r *GormLeadRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string, scope crm.EmailScope, excludeID *uuid.UUID) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	query := r.db.WithContext(ctx).
		Model(&models.LeadModel{}).
		Scopes(tenant.Scope(tenantID), tenant.Active).
		Where("LOWER(email) = ?", email)
	if scope != crm.EmailScopeActive {
		query = query.Where("is_converted = ?", false)
	}
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new lead
func (r *GormLeadRepository) Create(ctx context.Context, lead *crm.Lead) error {
	return translateError(r.db.WithContext(ctx).Create(models.LeadModelFromDomain(lead)).Error)
}

// SaveWithLock saves a lead with optimistic locking (version check)
func (r *GormLeadRepository) SaveWithLock(ctx context.Context, lead *crm.Lead) error {
	return updateVersioned(r.db.WithContext(ctx), models.LeadModelFromDomain(lead), lead.Version-1)
}

// SaveConverted writes a lead whose conversion claim already advanced the
// stored version to lead.Version
func (r *GormLeadRepository) SaveConverted(ctx context.Context, lead *crm.Lead) error {
	return updateVersioned(r.db.WithContext(ctx), models.LeadModelFromDomain(lead), lead.Version)
}

// ClaimForConversion flips is_converted from false to true in a single
// conditional UPDATE
func (r *GormLeadRepository) ClaimForConversion(ctx context.Context, tenantID, leadID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.LeadModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ? AND is_converted = ?", leadID, false).
		Updates(map[string]any{
			"is_converted": true,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrAlreadyConverted
	}
	return nil
}

func (r *GormLeadRepository) applyFilter(query *gorm.DB, filter crm.LeadFilter) *gorm.DB {
	query = query.Scopes(tenant.OptionalScope(filter.TenantID), tenant.Active)

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ? OR LOWER(phone) LIKE ?)",
			pattern, pattern, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("lead_status = ?", filter.Status)
	}
	if filter.Source != "" {
		query = query.Where("lead_source = ?", filter.Source)
	}
	if filter.Rating != "" {
		query = query.Where("rating = ?", filter.Rating)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.IsConverted != nil {
		query = query.Where("is_converted = ?", *filter.IsConverted)
	}
	return query
}

// Ensure GormLeadRepository implements crm.LeadRepository
var _ crm.LeadRepository = (*GormLeadRepository)(nil)
