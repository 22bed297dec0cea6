package identity

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantValidator decides whether requests may run inside a tenant
type TenantValidator interface {
	ValidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

// Tenant validation errors
var (
	ErrTenantUnknown   = shared.NewDomainError(shared.CodeForbidden, "Tenant does not exist")
	ErrTenantInactive  = shared.NewDomainError(shared.CodeForbidden, "Tenant is inactive")
	ErrTenantSuspended = shared.NewDomainError(shared.CodeForbidden, "Tenant is suspended")
)

// RepositoryTenantValidator checks tenants against the tenant repository
type RepositoryTenantValidator struct {
	tenants identity.TenantRepository
}

// NewRepositoryTenantValidator creates a RepositoryTenantValidator
func NewRepositoryTenantValidator(tenants identity.TenantRepository) *RepositoryTenantValidator {
	return &RepositoryTenantValidator{tenants: tenants}
}

// ValidateTenant rejects unknown, inactive or suspended tenants
func (v *RepositoryTenantValidator) ValidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := v.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrTenantUnknown
		}
		return err
	}
	return CheckTenant(tenant)
}

// CheckTenant maps a tenant's lifecycle state onto a validation error
func CheckTenant(tenant *identity.Tenant) error {
	switch {
	case !tenant.IsActive:
		return ErrTenantInactive
	case tenant.IsSuspended:
		return ErrTenantSuspended
	}
	return nil
}

var _ TenantValidator = (*RepositoryTenantValidator)(nil)
