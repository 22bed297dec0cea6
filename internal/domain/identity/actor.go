package identity

import (
	"strings"

	"github.com/google/uuid"
)

// UserType classifies who is acting
type UserType string

const (
	UserTypeSaaSOwner   UserType = "SAAS_OWNER"
	UserTypeSaaSAdmin   UserType = "SAAS_ADMIN"
	UserTypeTenantAdmin UserType = "TENANT_ADMIN"
	UserTypeTenantUser  UserType = "TENANT_USER"
)

// IsValid reports whether t is a known user type
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeSaaSOwner, UserTypeSaaSAdmin, UserTypeTenantAdmin, UserTypeTenantUser:
		return true
	}
	return false
}

// IsPlatformOperator reports whether t is exempt from tenant scoping
func (t UserType) IsPlatformOperator() bool {
	return t == UserTypeSaaSOwner || t == UserTypeSaaSAdmin
}

// Actor is the authenticated principal performing an operation. TenantID is
// nil for platform operators that are not acting inside a tenant.
type Actor struct {
	UserID      uuid.UUID
	TenantID    *uuid.UUID
	UserType    UserType
	Permissions []string
}

// NewActor creates an actor
func NewActor(userID uuid.UUID, tenantID *uuid.UUID, userType UserType, permissions ...string) Actor {
	return Actor{
		UserID:      userID,
		TenantID:    tenantID,
		UserType:    userType,
		Permissions: permissions,
	}
}

// IsPlatformOperator reports whether the actor may cross tenant boundaries
func (a Actor) IsPlatformOperator() bool {
	return a.UserType.IsPlatformOperator()
}

// HasTenant reports whether the actor is bound to a tenant
func (a Actor) HasTenant() bool {
	return a.TenantID != nil && *a.TenantID != uuid.Nil
}

// HasPermission checks p against the actor's grants. Platform operators hold
// every permission; otherwise an exact match, "resource:*" or "*" grants it.
func (a Actor) HasPermission(p string) bool {
	if a.IsPlatformOperator() {
		return true
	}
	resource, _, _ := strings.Cut(p, ":")
	for _, granted := range a.Permissions {
		if granted == p || granted == "*" || granted == resource+":*" {
			return true
		}
	}
	return false
}

// HasAnyPermission returns true if the actor holds at least one of ps
func (a Actor) HasAnyPermission(ps ...string) bool {
	for _, p := range ps {
		if a.HasPermission(p) {
			return true
		}
	}
	return false
}
