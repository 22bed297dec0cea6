package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeadService manages leads
type LeadService struct {
	recordService
	leads      crm.LeadRepository
	emailScope crm.EmailScope
}

// NewLeadService creates a LeadService. emailScope selects which leads count
// as duplicates; an empty scope means active_open.
func NewLeadService(leads crm.LeadRepository, publisher shared.EventPublisher, emailScope crm.EmailScope, logger *zap.Logger) *LeadService {
	if emailScope == "" {
		emailScope = crm.EmailScopeActiveOpen
	}
	return &LeadService{
		recordService: newRecordService(publisher, logger),
		leads:         leads,
		emailScope:    emailScope,
	}
}

// Create creates a lead in the actor's tenant
func (s *LeadService) Create(ctx context.Context, actor identity.Actor, req CreateLeadRequest) (*LeadResponse, error) {
	tenantID, err := s.guard.ResolveTenant(actor, req.TenantID)
	if err != nil {
		return nil, err
	}
	details, err := req.toDetails()
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, tenantID, details.Email, nil); err != nil {
		return nil, err
	}

	lead, err := crm.NewLead(tenantID, ownerOrNil(req.OwnerID), actor.UserID, details)
	if err != nil {
		return nil, err
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	s.publish(ctx, lead)

	resp := ToLeadResponse(lead)
	return &resp, nil
}

// GetByID returns a lead the actor may see
func (s *LeadService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*LeadResponse, error) {
	lead, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToLeadResponse(lead)
	return &resp, nil
}

// List returns a page of active leads visible to the actor
func (s *LeadService) List(ctx context.Context, actor identity.Actor, filter LeadListFilter) ([]LeadResponse, int64, error) {
	scope, err := s.guard.Scope(actor)
	if err != nil {
		return nil, 0, err
	}
	ownerID, err := parseOptionalID("ownerId", filter.OwnerID)
	if err != nil {
		return nil, 0, err
	}
	domainFilter := crm.LeadFilter{
		Filter:      filter.toFilter(),
		TenantID:    scope,
		Status:      crm.LeadStatus(filter.Status),
		Source:      crm.LeadSource(filter.Source),
		Rating:      crm.Rating(filter.Rating),
		OwnerID:     ownerID,
		IsConverted: filter.IsConverted,
	}

	leads, err := s.leads.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.leads.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return mapSlice(leads, ToLeadResponse), total, nil
}

// Update applies a partial update. Converted leads are immutable.
func (s *LeadService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateLeadRequest) (*LeadResponse, error) {
	lead, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if lead.IsConverted {
		return nil, shared.ErrAlreadyConverted
	}
	patch, err := req.toPatch()
	if err != nil {
		return nil, err
	}
	if patch.Email != nil {
		if email := crm.NormalizeEmail(*patch.Email); email != lead.Email {
			if err := s.checkEmail(ctx, lead.TenantID, email, &lead.ID); err != nil {
				return nil, err
			}
		}
	}

	version := lead.Version
	if err := lead.ApplyPatch(patch, actor.UserID); err != nil {
		return nil, err
	}
	if lead.Version != version {
		if err := s.leads.SaveWithLock(ctx, lead); err != nil {
			return nil, err
		}
		s.publish(ctx, lead)
	}

	resp := ToLeadResponse(lead)
	return &resp, nil
}

// Delete soft deletes a lead. Converted leads cannot be deleted.
func (s *LeadService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	lead, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := lead.Delete(actor.UserID); err != nil {
		return err
	}
	if err := s.leads.SaveWithLock(ctx, lead); err != nil {
		return err
	}
	s.publish(ctx, lead)
	return nil
}

func (s *LeadService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*crm.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Lead")
	}
	if err := s.checkRecord(actor, "Lead", lead.TenantID, lead.IsActive); err != nil {
		return nil, err
	}
	return lead, nil
}

// checkEmail rejects an email already used by another lead of the tenant
func (s *LeadService) checkEmail(ctx context.Context, tenantID uuid.UUID, email string, excludeID *uuid.UUID) error {
	email = crm.NormalizeEmail(email)
	if email == "" {
		return nil
	}
	exists, err := s.leads.ExistsByEmail(ctx, tenantID, email, s.emailScope, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.ErrDuplicateEmail
	}
	return nil
}
