// Package identity holds the tenant administration services used by platform
// operators and the tenant check run on every authenticated request.
package identity

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantService handles tenant management operations. Every operation is
// reserved to platform operators.
type TenantService struct {
	tenantRepo identity.TenantRepository
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *TenantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantService{
		tenantRepo: tenantRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create registers a tenant. Slugs are unique across the platform.
func (s *TenantService) Create(ctx context.Context, actor identity.Actor, req CreateTenantRequest) (*TenantResponse, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}

	tenant, err := identity.NewTenant(req.OrganizationName, req.Slug, req.ContactEmail, identity.PlanType(req.PlanType))
	if err != nil {
		return nil, err
	}
	exists, err := s.tenantRepo.ExistsBySlug(ctx, tenant.Slug)
	if err != nil {
		s.logger.Error("Failed to check tenant slug", zap.String("slug", tenant.Slug), zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeDuplicateName, "A tenant with this slug already exists")
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.publish(ctx, tenant)

	s.logger.Info("Tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug),
		zap.String("actor_id", actor.UserID.String()),
	)
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// GetByID returns a tenant
func (s *TenantService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TenantResponse, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	tenant, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// List returns a page of tenants
func (s *TenantService) List(ctx context.Context, actor identity.Actor, filter TenantListFilter) ([]TenantResponse, int64, error) {
	if err := requireOperator(actor); err != nil {
		return nil, 0, err
	}
	tenantFilter := filter.toFilter()
	tenants, err := s.tenantRepo.FindAll(ctx, tenantFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tenantRepo.Count(ctx, tenantFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]TenantResponse, len(tenants))
	for i := range tenants {
		items[i] = ToTenantResponse(&tenants[i])
	}
	return items, total, nil
}

// Suspend blocks every user of the tenant
func (s *TenantService) Suspend(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TenantResponse, error) {
	return s.transition(ctx, actor, id, "suspended", (*identity.Tenant).Suspend)
}

// Reactivate lifts a suspension
func (s *TenantService) Reactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TenantResponse, error) {
	return s.transition(ctx, actor, id, "reactivated", (*identity.Tenant).Reactivate)
}

func (s *TenantService) transition(ctx context.Context, actor identity.Actor, id uuid.UUID, verb string, apply func(*identity.Tenant) error) (*TenantResponse, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	tenant, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(tenant); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.publish(ctx, tenant)

	s.logger.Info("Tenant "+verb,
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("actor_id", actor.UserID.String()),
	)
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

func (s *TenantService) find(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFound("Tenant")
		}
		return nil, err
	}
	return tenant, nil
}

func (s *TenantService) publish(ctx context.Context, tenant *identity.Tenant) {
	events := tenant.GetDomainEvents()
	tenant.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish tenant events", zap.Error(err))
	}
}

func requireOperator(actor identity.Actor) error {
	if !actor.IsPlatformOperator() {
		return shared.NewDomainError(shared.CodeForbidden, "Only platform operators can manage tenants")
	}
	return nil
}
