package identity

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantFilter narrows tenant listings. Search matches the organization
// name or the slug.
type TenantFilter struct {
	shared.Filter
	PlanType  PlanType
	Suspended *bool
}

// TenantRepository persists tenants. Slugs are stored lowercase and are
// unique across the platform.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	FindAll(ctx context.Context, filter TenantFilter) ([]Tenant, error)
	Count(ctx context.Context, filter TenantFilter) (int64, error)

	// Save inserts or updates; a slug clash is reported as CodeDuplicateName
	Save(ctx context.Context, tenant *Tenant) error
}
