package identity

import (
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateTenantRequest registers a new customer organization
type CreateTenantRequest struct {
	OrganizationName string `json:"organizationName" binding:"required,max=200"`
	Slug             string `json:"slug" binding:"required,max=63"`
	ContactEmail     string `json:"contactEmail" binding:"omitempty,email,max=254"`
	PlanType         string `json:"planType" binding:"omitempty,oneof=free starter professional enterprise"`
}

// TenantListFilter holds the tenant list query parameters
type TenantListFilter struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"orderBy" binding:"omitempty,max=50"`
	OrderDir  string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
	Search    string `form:"search" binding:"omitempty,max=100"`
	PlanType  string `form:"planType" binding:"omitempty,oneof=free starter professional enterprise"`
	Suspended *bool  `form:"suspended"`
}

func (f TenantListFilter) toFilter() identity.TenantFilter {
	return identity.TenantFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		}.Normalize(),
		PlanType:  identity.PlanType(f.PlanType),
		Suspended: f.Suspended,
	}
}

// TenantResponse is the wire form of a tenant
type TenantResponse struct {
	ID               uuid.UUID `json:"id"`
	OrganizationName string    `json:"organizationName"`
	Slug             string    `json:"slug"`
	ContactEmail     string    `json:"contactEmail,omitempty"`
	PlanType         string    `json:"planType"`
	IsActive         bool      `json:"isActive"`
	IsSuspended      bool      `json:"isSuspended"`
	Version          int       `json:"version"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ToTenantResponse converts a domain tenant
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:               t.ID,
		OrganizationName: t.OrganizationName,
		Slug:             t.Slug,
		ContactEmail:     t.ContactEmail,
		PlanType:         string(t.PlanType),
		IsActive:         t.IsActive,
		IsSuspended:      t.IsSuspended,
		Version:          t.Version,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
