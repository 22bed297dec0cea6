package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpportunityService manages opportunities
type OpportunityService struct {
	recordService
	opportunities crm.OpportunityRepository
	accounts      crm.AccountRepository
	contacts      crm.ContactRepository
}

// NewOpportunityService creates an OpportunityService
func NewOpportunityService(
	opportunities crm.OpportunityRepository,
	accounts crm.AccountRepository,
	contacts crm.ContactRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *OpportunityService {
	return &OpportunityService{
		recordService: newRecordService(publisher, logger),
		opportunities: opportunities,
		accounts:      accounts,
		contacts:      contacts,
	}
}

// Create creates an opportunity on an account of the tenant. A contact, when
// given, must belong to that account.
func (s *OpportunityService) Create(ctx context.Context, actor identity.Actor, req CreateOpportunityRequest) (*OpportunityResponse, error) {
	tenantID, err := s.guard.ResolveTenant(actor, req.TenantID)
	if err != nil {
		return nil, err
	}
	details := req.toDetails()
	if err := s.checkReferences(ctx, tenantID, details.AccountID, details.ContactID); err != nil {
		return nil, err
	}

	opp, err := crm.NewOpportunity(tenantID, ownerOrNil(req.OwnerID), actor.UserID, details)
	if err != nil {
		return nil, err
	}
	if err := s.opportunities.Create(ctx, opp); err != nil {
		return nil, err
	}
	s.publish(ctx, opp)

	resp := ToOpportunityResponse(opp)
	return &resp, nil
}

// GetByID returns an opportunity the actor may see
func (s *OpportunityService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OpportunityResponse, error) {
	opp, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToOpportunityResponse(opp)
	return &resp, nil
}

// List returns a page of active opportunities visible to the actor
func (s *OpportunityService) List(ctx context.Context, actor identity.Actor, filter OpportunityListFilter) ([]OpportunityResponse, int64, error) {
	scope, err := s.guard.Scope(actor)
	if err != nil {
		return nil, 0, err
	}
	accountID, err := parseOptionalID("accountId", filter.AccountID)
	if err != nil {
		return nil, 0, err
	}
	ownerID, err := parseOptionalID("ownerId", filter.OwnerID)
	if err != nil {
		return nil, 0, err
	}
	domainFilter := crm.OpportunityFilter{
		Filter:    filter.toFilter(),
		TenantID:  scope,
		Stage:     crm.Stage(filter.Stage),
		AccountID: accountID,
		OwnerID:   ownerID,
	}

	opps, err := s.opportunities.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.opportunities.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return mapSlice(opps, ToOpportunityResponse), total, nil
}

// Update applies a partial update
func (s *OpportunityService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateOpportunityRequest) (*OpportunityResponse, error) {
	opp, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	patch := req.toPatch()

	accountID := opp.AccountID
	if patch.AccountID != nil {
		accountID = *patch.AccountID
	}
	contactID := opp.ContactID
	if patch.ContactID != nil {
		contactID = patch.ContactID
		if *patch.ContactID == uuid.Nil {
			contactID = nil
		}
	}
	if patch.AccountID != nil || patch.ContactID != nil {
		if err := s.checkReferences(ctx, opp.TenantID, accountID, contactID); err != nil {
			return nil, err
		}
	}

	version := opp.Version
	if err := opp.ApplyPatch(patch, actor.UserID); err != nil {
		return nil, err
	}
	if opp.Version != version {
		if err := s.opportunities.SaveWithLock(ctx, opp); err != nil {
			return nil, err
		}
		s.publish(ctx, opp)
	}

	resp := ToOpportunityResponse(opp)
	return &resp, nil
}

// Delete soft deletes an opportunity
func (s *OpportunityService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	opp, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := opp.Delete(actor.UserID); err != nil {
		return err
	}
	if err := s.opportunities.SaveWithLock(ctx, opp); err != nil {
		return err
	}
	s.publish(ctx, opp)
	return nil
}

func (s *OpportunityService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*crm.Opportunity, error) {
	opp, err := s.opportunities.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Opportunity")
	}
	if err := s.checkRecord(actor, "Opportunity", opp.TenantID, opp.IsActive); err != nil {
		return nil, err
	}
	return opp, nil
}

func (s *OpportunityService) checkReferences(ctx context.Context, tenantID, accountID uuid.UUID, contactID *uuid.UUID) error {
	if accountID == uuid.Nil {
		return shared.Validation("accountId is required")
	}
	if _, err := requireAccount(ctx, s.accounts, tenantID, accountID, "accountId"); err != nil {
		return err
	}
	if contactID == nil {
		return nil
	}
	contact, err := requireContact(ctx, s.contacts, tenantID, *contactID, "contactId")
	if err != nil {
		return err
	}
	if contact.AccountID == nil || *contact.AccountID != accountID {
		return shared.Validation("contactId must reference a contact of the opportunity's account")
	}
	return nil
}
