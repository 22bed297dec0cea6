package crm

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
)

// ActivityService reads the audit trail
type ActivityService struct {
	guard      identity.Guard
	activities crm.ActivityLogRepository
}

// NewActivityService creates an ActivityService
func NewActivityService(activities crm.ActivityLogRepository) *ActivityService {
	return &ActivityService{guard: identity.NewGuard(), activities: activities}
}

// List returns audit entries visible to the actor, newest first
func (s *ActivityService) List(ctx context.Context, actor identity.Actor, filter ActivityListFilter) ([]ActivityResponse, int64, error) {
	scope, err := s.guard.Scope(actor)
	if err != nil {
		return nil, 0, err
	}
	entityID, err := parseOptionalID("entityId", filter.EntityID)
	if err != nil {
		return nil, 0, err
	}
	base := filter.toFilter()
	if filter.OrderBy == "" {
		base.OrderBy = "occurred_at"
	}
	domainFilter := crm.ActivityFilter{
		Filter:     base,
		TenantID:   scope,
		EntityType: strings.TrimSpace(filter.EntityType),
		EntityID:   entityID,
		EventName:  strings.TrimSpace(filter.EventName),
	}

	entries, err := s.activities.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.activities.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return mapSlice(entries, ToActivityResponse), total, nil
}
