package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/crm/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNoteRepository implements crm.NoteRepository using GORM
type GormNoteRepository struct {
	db *gorm.DB
}

// NewGormNoteRepository creates a new GormNoteRepository
func NewGormNoteRepository(db *gorm.DB) *GormNoteRepository {
	return &GormNoteRepository{db: db}
}

// FindByID finds a note by its ID
func (r *GormNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Note, error) {
	var model models.NoteModel
	if err := findOne(r.db.WithContext(ctx), &model, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists the notes attached to one record
func (r *GormNoteRepository) FindAll(ctx context.Context, filter crm.NoteFilter) ([]crm.Note, error) {
	var noteModels []models.NoteModel
	query := noteSort.paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.NoteModel{}), filter), filter.Filter)
	if err := query.Find(&noteModels).Error; err != nil {
		return nil, err
	}

	notes := make([]crm.Note, len(noteModels))
	for i, model := range noteModels {
		notes[i] = *model.ToDomain()
	}
	return notes, nil
}

// Count counts the notes attached to one record
func (r *GormNoteRepository) Count(ctx context.Context, filter crm.NoteFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.NoteModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new note
func (r *GormNoteRepository) Create(ctx context.Context, note *crm.Note) error {
	return translateError(r.db.WithContext(ctx).Create(models.NoteModelFromDomain(note)).Error)
}

// Delete removes a note
func (r *GormNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.NoteModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormNoteRepository) applyFilter(query *gorm.DB, filter crm.NoteFilter) *gorm.DB {
	query = query.Scopes(tenant.OptionalScope(filter.TenantID)).
		Where("related_type = ? AND related_id = ?", filter.RelatedTo.Type, filter.RelatedTo.ID)

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", pattern, pattern)
	}
	if filter.ViewerID != nil {
		query = query.Where("(is_private = ? OR created_by = ?)", false, *filter.ViewerID)
	}
	return query
}

// Ensure GormNoteRepository implements crm.NoteRepository
var _ crm.NoteRepository = (*GormNoteRepository)(nil)
