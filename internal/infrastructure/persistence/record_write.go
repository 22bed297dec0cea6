package persistence

import (
	"errors"

	"github.com/crm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// immutableColumns are never rewritten by a versioned update
var immutableColumns = []string{"id", "tenant_id", "created_at", "created_by"}

// translateError maps driver errors onto domain errors. It relies on
// gorm.Config.TranslateError so unique violations surface as ErrDuplicatedKey.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrConcurrencyConflict
	default:
		return err
	}
}

// updateVersioned rewrites every mutable column of model when the stored row
// still carries expectedVersion. model must hold its primary key.
func updateVersioned(db *gorm.DB, model any, expectedVersion int) error {
	result := db.Model(model).
		Where("version = ?", expectedVersion).
		Select("*").
		Omit(immutableColumns...).
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// findOne loads the row with id into model
func findOne(db *gorm.DB, model any, id any) error {
	return translateError(db.First(model, "id = ?", id).Error)
}
