package identity

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PlanType is the subscription tier of a tenant
type PlanType string

const (
	PlanFree         PlanType = "free"
	PlanStarter      PlanType = "starter"
	PlanProfessional PlanType = "professional"
	PlanEnterprise   PlanType = "enterprise"
)

// IsValid reports whether p is a known plan
func (p PlanType) IsValid() bool {
	switch p {
	case PlanFree, PlanStarter, PlanProfessional, PlanEnterprise:
		return true
	}
	return false
}

// Tenant is a customer organization and the isolation boundary for all CRM data
type Tenant struct {
	shared.BaseAggregateRoot
	OrganizationName string
	Slug             string
	ContactEmail     string
	PlanType         PlanType
	IsActive         bool
	IsSuspended      bool
}

// NewTenant creates an active tenant. The slug is lowercased.
func NewTenant(organizationName, slug, contactEmail string, plan PlanType) (*Tenant, error) {
	organizationName = strings.TrimSpace(organizationName)
	slug = strings.ToLower(strings.TrimSpace(slug))

	if err := validateOrganizationName(organizationName); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if plan == "" {
		plan = PlanFree
	}
	if !plan.IsValid() {
		return nil, shared.Validation("Invalid plan type")
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrganizationName:  organizationName,
		Slug:              slug,
		ContactEmail:      strings.ToLower(strings.TrimSpace(contactEmail)),
		PlanType:          plan,
		IsActive:          true,
	}
	tenant.AddDomainEvent(NewTenantEvent(EventTypeTenantCreated, tenant))
	return tenant, nil
}

// Rename changes the organization name
func (t *Tenant) Rename(organizationName string) error {
	organizationName = strings.TrimSpace(organizationName)
	if err := validateOrganizationName(organizationName); err != nil {
		return err
	}
	t.OrganizationName = organizationName
	t.touch()
	t.AddDomainEvent(NewTenantEvent(EventTypeTenantUpdated, t))
	return nil
}

// Suspend blocks the tenant's users until reactivated
func (t *Tenant) Suspend() error {
	if t.IsSuspended {
		return shared.NewDomainError(shared.CodeValidation, "Tenant is already suspended")
	}
	t.IsSuspended = true
	t.touch()
	t.AddDomainEvent(NewTenantEvent(EventTypeTenantSuspended, t))
	return nil
}

// Reactivate lifts a suspension and re-enables a deactivated tenant
func (t *Tenant) Reactivate() error {
	if t.IsActive && !t.IsSuspended {
		return shared.NewDomainError(shared.CodeValidation, "Tenant is already active")
	}
	t.IsActive = true
	t.IsSuspended = false
	t.touch()
	t.AddDomainEvent(NewTenantEvent(EventTypeTenantReactivated, t))
	return nil
}

// Deactivate soft deletes the tenant
func (t *Tenant) Deactivate() error {
	if !t.IsActive {
		return shared.NewDomainError(shared.CodeValidation, "Tenant is already inactive")
	}
	t.IsActive = false
	t.touch()
	t.AddDomainEvent(NewTenantEvent(EventTypeTenantDeactivated, t))
	return nil
}

// CanOperate reports whether the tenant's users may use the CRM
func (t *Tenant) CanOperate() bool {
	return t.IsActive && !t.IsSuspended
}

// TenantID returns the tenant's own id, so events can be scoped to it
func (t *Tenant) TenantID() uuid.UUID {
	return t.ID
}

func (t *Tenant) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

func validateOrganizationName(name string) error {
	if name == "" {
		return shared.Validation("Organization name cannot be empty")
	}
	if len(name) > 200 {
		return shared.Validation("Organization name cannot exceed 200 characters")
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return shared.Validation("Slug cannot be empty")
	}
	if len(slug) > 63 {
		return shared.Validation("Slug cannot exceed 63 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return shared.Validation("Slug can only contain lowercase letters, numbers, and hyphens")
		}
	}
	return nil
}
