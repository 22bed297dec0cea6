package models

import "github.com/crm/backend/internal/domain/identity"

// TenantModel is the persistence model for the Tenant aggregate
type TenantModel struct {
	VersionedModel
	OrganizationName string            `gorm:"type:varchar(200);not null"`
	Slug             string            `gorm:"type:varchar(63);not null;uniqueIndex"`
	ContactEmail     string            `gorm:"type:varchar(254)"`
	PlanType         identity.PlanType `gorm:"type:varchar(20);not null;default:'free'"`
	IsActive         bool              `gorm:"not null"`
	IsSuspended      bool              `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: m.toAggregate(),
		OrganizationName:  m.OrganizationName,
		Slug:              m.Slug,
		ContactEmail:      m.ContactEmail,
		PlanType:          m.PlanType,
		IsActive:          m.IsActive,
		IsSuspended:       m.IsSuspended,
	}
}

// FromDomain populates the persistence model from a domain Tenant
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.fromAggregate(t.BaseAggregateRoot)
	m.OrganizationName = t.OrganizationName
	m.Slug = t.Slug
	m.ContactEmail = t.ContactEmail
	m.PlanType = t.PlanType
	m.IsActive = t.IsActive
	m.IsSuspended = t.IsSuspended
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}
