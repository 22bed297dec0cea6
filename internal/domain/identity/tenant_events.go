package identity

import (
	"github.com/crm/backend/internal/domain/shared"
)

// AggregateTypeTenant names the tenant aggregate in events
const AggregateTypeTenant = "Tenant"

// Event type constants
const (
	EventTypeTenantCreated     = "tenant.created"
	EventTypeTenantUpdated     = "tenant.updated"
	EventTypeTenantSuspended   = "tenant.suspended"
	EventTypeTenantReactivated = "tenant.reactivated"
	EventTypeTenantDeactivated = "tenant.deactivated"
)

// TenantEvent carries a snapshot of the tenant's lifecycle fields
type TenantEvent struct {
	shared.BaseDomainEvent
	OrganizationName string   `json:"organization_name"`
	Slug             string   `json:"slug"`
	PlanType         PlanType `json:"plan_type"`
	IsActive         bool     `json:"is_active"`
	IsSuspended      bool     `json:"is_suspended"`
}

// NewTenantEvent creates a TenantEvent of eventType for tenant
func NewTenantEvent(eventType string, tenant *Tenant) *TenantEvent {
	return &TenantEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(eventType, AggregateTypeTenant, tenant.ID, tenant.ID),
		OrganizationName: tenant.OrganizationName,
		Slug:             tenant.Slug,
		PlanType:         tenant.PlanType,
		IsActive:         tenant.IsActive,
		IsSuspended:      tenant.IsSuspended,
	}
}
