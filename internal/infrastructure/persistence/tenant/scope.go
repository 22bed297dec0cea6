// Package tenant provides the GORM scopes that keep CRM queries inside one
// tenant's data.
//
//	db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&leads)
package tenant

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when tenant_id is required but not found
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when tenant_id format is invalid
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// Column is the tenant discriminator shared by every tenant-scoped table
const Column = "tenant_id"

// Scope restricts a query to one tenant
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(Column+" = ?", tenantID)
	}
}

// OptionalScope restricts a query to tenantID when it is set. A nil id is
// the platform operator's cross-tenant view and leaves the query untouched.
func OptionalScope(tenantID *uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == nil {
			return db
		}
		return Scope(*tenantID)(db)
	}
}

// Active keeps soft-deleted records out of a query
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// FromContext reads the tenant id stored in ctx by the request middleware
func FromContext(ctx context.Context) (uuid.UUID, error) {
	raw := logger.GetTenantID(ctx)
	if raw == "" {
		return uuid.Nil, ErrTenantIDRequired
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidTenantID
	}
	return id, nil
}

// ContextScope restricts a query to the tenant found in ctx. A missing or
// malformed id fails the query instead of widening it.
func ContextScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		id, err := FromContext(ctx)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		return Scope(id)(db)
	}
}
