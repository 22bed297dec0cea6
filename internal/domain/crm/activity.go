package crm

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is one audit trail entry
type ActivityLog struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ActorID    *uuid.UUID
	EventName  string
	EntityType string
	EntityID   uuid.UUID
	Metadata   map[string]any
	OccurredAt time.Time
}

// NewActivityLog builds the audit entry for an event
func NewActivityLog(event ActivityEvent) *ActivityLog {
	var actor *uuid.UUID
	if id := event.Actor(); id != uuid.Nil {
		actor = &id
	}
	metadata := event.ActivityMetadata()
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &ActivityLog{
		ID:         uuid.New(),
		TenantID:   event.TenantID(),
		ActorID:    actor,
		EventName:  event.EventType(),
		EntityType: event.AggregateType(),
		EntityID:   event.AggregateID(),
		Metadata:   metadata,
		OccurredAt: event.OccurredAt(),
	}
}
