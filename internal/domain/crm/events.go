package crm

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type names, also used as ActivityLog entity types
const (
	AggregateTypeLead        = "Lead"
	AggregateTypeAccount     = "Account"
	AggregateTypeContact     = "Contact"
	AggregateTypeOpportunity = "Opportunity"
	AggregateTypeNote        = "Note"
)

// Event type constants
const (
	EventTypeLeadCreated        = "lead.created"
	EventTypeLeadUpdated        = "lead.updated"
	EventTypeLeadDeleted        = "lead.deleted"
	EventTypeLeadConverted      = "lead.converted"
	EventTypeAccountCreated     = "account.created"
	EventTypeAccountUpdated     = "account.updated"
	EventTypeAccountDeleted     = "account.deleted"
	EventTypeContactCreated     = "contact.created"
	EventTypeContactUpdated     = "contact.updated"
	EventTypeContactDeleted     = "contact.deleted"
	EventTypeOpportunityCreated = "opportunity.created"
	EventTypeOpportunityUpdated = "opportunity.updated"
	EventTypeOpportunityDeleted = "opportunity.deleted"
	EventTypeNoteCreated        = "note.created"
	EventTypeNoteDeleted        = "note.deleted"
)

// ActivityEvent is a domain event that ends up in the activity log
type ActivityEvent interface {
	shared.DomainEvent
	Actor() uuid.UUID
	ActivityMetadata() map[string]any
}

// RecordEvent is published for every create, update and delete of a CRM record
type RecordEvent struct {
	shared.BaseDomainEvent
	ActorID  uuid.UUID      `json:"actor_id"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewRecordEvent creates a RecordEvent
func NewRecordEvent(eventType, aggType string, aggID, tenantID, actorID uuid.UUID, metadata map[string]any) *RecordEvent {
	return &RecordEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, aggID, tenantID),
		ActorID:         actorID,
		Metadata:        metadata,
	}
}

// Actor returns the user that caused the event
func (e *RecordEvent) Actor() uuid.UUID { return e.ActorID }

// ActivityMetadata returns the event metadata
func (e *RecordEvent) ActivityMetadata() map[string]any { return e.Metadata }

// LeadConvertedEvent is published exactly once per lead, after the conversion commits
type LeadConvertedEvent struct {
	shared.BaseDomainEvent
	ActorID     uuid.UUID   `json:"actor_id"`
	ConvertedTo ConvertedTo `json:"converted_to"`
}

// NewLeadConvertedEvent creates a LeadConvertedEvent
func NewLeadConvertedEvent(lead *Lead, actorID uuid.UUID) *LeadConvertedEvent {
	return &LeadConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadConverted, AggregateTypeLead, lead.ID, lead.TenantID),
		ActorID:         actorID,
		ConvertedTo:     lead.ConvertedTo,
	}
}

// Actor returns the user that converted the lead
func (e *LeadConvertedEvent) Actor() uuid.UUID { return e.ActorID }

// ActivityMetadata reports which entities the conversion created
func (e *LeadConvertedEvent) ActivityMetadata() map[string]any {
	return map[string]any{
		"accountCreated":     e.ConvertedTo.AccountID != nil,
		"contactCreated":     e.ConvertedTo.ContactID != nil,
		"opportunityCreated": e.ConvertedTo.OpportunityID != nil,
	}
}

var (
	_ ActivityEvent = (*RecordEvent)(nil)
	_ ActivityEvent = (*LeadConvertedEvent)(nil)
)
