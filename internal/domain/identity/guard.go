package identity

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Guard decides whether an actor may touch a tenant's records. It holds no
// state and performs no I/O.
type Guard struct{}

// NewGuard creates a Guard
func NewGuard() Guard {
	return Guard{}
}

// Authorize checks that actor may read or mutate a record owned by recordTenant.
//
// Platform operators always pass. A tenant actor without a tenant gets
// ErrTenantRequired, and a tenant mismatch gets ErrForbidden.
func (Guard) Authorize(actor Actor, recordTenant uuid.UUID) error {
	if actor.IsPlatformOperator() {
		return nil
	}
	if !actor.HasTenant() {
		return shared.ErrTenantRequired
	}
	if *actor.TenantID != recordTenant {
		return shared.ErrForbidden
	}
	return nil
}

// ResolveTenant picks the tenant a new record is created in. Platform
// operators must name one explicitly; tenant actors always create inside
// their own tenant and may not name another.
func (Guard) ResolveTenant(actor Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if actor.IsPlatformOperator() {
		if requested == nil || *requested == uuid.Nil {
			return uuid.Nil, shared.ErrTenantRequired
		}
		return *requested, nil
	}
	if !actor.HasTenant() {
		return uuid.Nil, shared.ErrTenantRequired
	}
	if requested != nil && *requested != uuid.Nil && *requested != *actor.TenantID {
		return uuid.Nil, shared.ErrForbidden
	}
	return *actor.TenantID, nil
}

// Scope returns the tenant filter for list queries: nil means all tenants.
func (Guard) Scope(actor Actor) (*uuid.UUID, error) {
	if actor.IsPlatformOperator() {
		return nil, nil
	}
	if !actor.HasTenant() {
		return nil, shared.ErrTenantRequired
	}
	id := *actor.TenantID
	return &id, nil
}
