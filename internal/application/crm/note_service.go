package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoteService attaches notes to CRM records
type NoteService struct {
	recordService
	notes         crm.NoteRepository
	leads         crm.LeadRepository
	accounts      crm.AccountRepository
	contacts      crm.ContactRepository
	opportunities crm.OpportunityRepository
	activities    crm.ActivityLogRepository
}

// NoteTargets are the repositories a note can point into
type NoteTargets struct {
	Leads         crm.LeadRepository
	Accounts      crm.AccountRepository
	Contacts      crm.ContactRepository
	Opportunities crm.OpportunityRepository
	Activities    crm.ActivityLogRepository
}

// NewNoteService creates a NoteService
func NewNoteService(notes crm.NoteRepository, targets NoteTargets, publisher shared.EventPublisher, logger *zap.Logger) *NoteService {
	return &NoteService{
		recordService: newRecordService(publisher, logger),
		notes:         notes,
		leads:         targets.Leads,
		accounts:      targets.Accounts,
		contacts:      targets.Contacts,
		opportunities: targets.Opportunities,
		activities:    targets.Activities,
	}
}

// Create attaches a note to the record named by the request. The note lives
// in the tenant of that record.
func (s *NoteService) Create(ctx context.Context, actor identity.Actor, req CreateNoteRequest) (*NoteResponse, error) {
	related := crm.RelatedTo{Type: crm.RelatedType(req.RelatedType), ID: req.RelatedID}
	if err := related.Validate(); err != nil {
		return nil, err
	}
	tenantID, err := s.resolveTarget(ctx, actor, related)
	if err != nil {
		return nil, err
	}

	note, err := crm.NewNote(tenantID, actor.UserID, related, req.Title, req.Content, req.IsPrivate)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	s.publish(ctx, note)

	resp := ToNoteResponse(note)
	return &resp, nil
}

// ListFor returns the notes of one record. Other users' private notes are
// hidden from everyone but platform operators.
func (s *NoteService) ListFor(ctx context.Context, actor identity.Actor, filter NoteListFilter) ([]NoteResponse, int64, error) {
	relatedID, err := uuid.Parse(filter.RelatedID)
	if err != nil {
		return nil, 0, shared.Validation("relatedId must be a valid UUID")
	}
	related := crm.RelatedTo{Type: crm.RelatedType(filter.RelatedType), ID: relatedID}
	if err := related.Validate(); err != nil {
		return nil, 0, err
	}
	tenantID, err := s.resolveTarget(ctx, actor, related)
	if err != nil {
		return nil, 0, err
	}

	domainFilter := crm.NoteFilter{
		Filter:    filter.toFilter(),
		TenantID:  &tenantID,
		RelatedTo: related,
	}
	if !actor.IsPlatformOperator() {
		viewer := actor.UserID
		domainFilter.ViewerID = &viewer
	}

	notes, err := s.notes.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.notes.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return mapSlice(notes, ToNoteResponse), total, nil
}

// Delete removes a note. Only its author or a platform operator may do so.
func (s *NoteService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "Note")
	}
	if err := s.guard.Authorize(actor, note.TenantID); err != nil {
		return err
	}
	if !actor.IsPlatformOperator() && !note.IsAuthor(actor.UserID) {
		return shared.NewDomainError(shared.CodeForbidden, "Only the author can delete this note")
	}

	note.MarkDeleted(actor.UserID)
	if err := s.notes.Delete(ctx, note.ID); err != nil {
		return err
	}
	s.publish(ctx, note)
	return nil
}

// resolveTarget finds the record a note points at and returns its tenant
// once the actor is allowed to see it.
func (s *NoteService) resolveTarget(ctx context.Context, actor identity.Actor, related crm.RelatedTo) (uuid.UUID, error) {
	var (
		tenantID uuid.UUID
		active   = true
		entity   = string(related.Type)
	)
	switch related.Type {
	case crm.RelatedTypeLead:
		lead, err := s.leads.FindByID(ctx, related.ID)
		if err != nil {
			return uuid.Nil, notFoundAs(err, entity)
		}
		tenantID, active = lead.TenantID, lead.IsActive
	case crm.RelatedTypeAccount:
		account, err := s.accounts.FindByID(ctx, related.ID)
		if err != nil {
			return uuid.Nil, notFoundAs(err, entity)
		}
		tenantID, active = account.TenantID, account.IsActive
	case crm.RelatedTypeContact:
		contact, err := s.contacts.FindByID(ctx, related.ID)
		if err != nil {
			return uuid.Nil, notFoundAs(err, entity)
		}
		tenantID, active = contact.TenantID, contact.IsActive
	case crm.RelatedTypeOpportunity:
		opp, err := s.opportunities.FindByID(ctx, related.ID)
		if err != nil {
			return uuid.Nil, notFoundAs(err, entity)
		}
		tenantID, active = opp.TenantID, opp.IsActive
	case crm.RelatedTypeActivity:
		entry, err := s.activities.FindByID(ctx, related.ID)
		if err != nil {
			return uuid.Nil, notFoundAs(err, entity)
		}
		tenantID = entry.TenantID
	default:
		return uuid.Nil, shared.Validation("Invalid relatedTo type")
	}

	if err := s.checkRecord(actor, entity, tenantID, active); err != nil {
		return uuid.Nil, err
	}
	return tenantID, nil
}
