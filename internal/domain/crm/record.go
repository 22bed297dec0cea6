package crm

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Record holds the ownership and lifecycle fields shared by the CRM
// aggregates: leads, accounts, contacts and opportunities.
type Record struct {
	shared.TenantAggregateRoot
	OwnerID        uuid.UUID
	LastModifiedBy *uuid.UUID
	IsActive       bool
}

func newRecord(tenantID, ownerID, createdBy uuid.UUID) Record {
	if ownerID == uuid.Nil {
		ownerID = createdBy
	}
	modifiedBy := createdBy
	return Record{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, createdBy),
		OwnerID:             ownerID,
		LastModifiedBy:      &modifiedBy,
		IsActive:            true,
	}
}

// touch records a modification by actorID and bumps the version
func (r *Record) touch(actorID uuid.UUID) {
	r.UpdatedAt = time.Now()
	r.LastModifiedBy = &actorID
	r.IncrementVersion()
}

func (r *Record) softDelete(actorID uuid.UUID) error {
	if !r.IsActive {
		return shared.Validation("Record is already deleted")
	}
	r.IsActive = false
	r.touch(actorID)
	return nil
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = trim(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ownerChange resolves a requested owner reassignment
func ownerChange(current uuid.UUID, requested *uuid.UUID) (uuid.UUID, bool) {
	if requested == nil || *requested == uuid.Nil || *requested == current {
		return current, false
	}
	return *requested, true
}
