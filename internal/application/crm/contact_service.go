package crm

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactService manages contacts
type ContactService struct {
	recordService
	contacts crm.ContactRepository
	accounts crm.AccountRepository
}

// NewContactService creates a ContactService
func NewContactService(contacts crm.ContactRepository, accounts crm.AccountRepository, publisher shared.EventPublisher, logger *zap.Logger) *ContactService {
	return &ContactService{
		recordService: newRecordService(publisher, logger),
		contacts:      contacts,
		accounts:      accounts,
	}
}

// Create creates a contact. The account and manager, when given, must be
// active records of the same tenant.
func (s *ContactService) Create(ctx context.Context, actor identity.Actor, req CreateContactRequest) (*ContactResponse, error) {
	tenantID, err := s.guard.ResolveTenant(actor, req.TenantID)
	if err != nil {
		return nil, err
	}
	details, err := req.toDetails()
	if err != nil {
		return nil, err
	}
	if details.AccountID != nil {
		if _, err := requireAccount(ctx, s.accounts, tenantID, *details.AccountID, "accountId"); err != nil {
			return nil, err
		}
	}
	if details.ReportsToID != nil {
		if _, err := requireContact(ctx, s.contacts, tenantID, *details.ReportsToID, "reportsToId"); err != nil {
			return nil, err
		}
	}

	contact, err := crm.NewContact(tenantID, ownerOrNil(req.OwnerID), actor.UserID, details)
	if err != nil {
		return nil, err
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	s.publish(ctx, contact)

	resp := ToContactResponse(contact)
	return &resp, nil
}

// GetByID returns a contact the actor may see
func (s *ContactService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ContactResponse, error) {
	contact, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// List returns a page of active contacts visible to the actor
func (s *ContactService) List(ctx context.Context, actor identity.Actor, filter ContactListFilter) ([]ContactResponse, int64, error) {
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
	domainFilter := crm.ContactFilter{
		Filter:    filter.toFilter(),
		TenantID:  scope,
		AccountID: accountID,
		OwnerID:   ownerID,
	}

	contacts, err := s.contacts.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contacts.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return mapSlice(contacts, ToContactResponse), total, nil
}

// Update applies a partial update. A new manager must exist in the tenant
// and must not lead back to the contact.
func (s *ContactService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	contact, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	patch, err := req.toPatch()
	if err != nil {
		return nil, err
	}
	if patch.AccountID != nil && *patch.AccountID != uuid.Nil {
		if _, err := requireAccount(ctx, s.accounts, contact.TenantID, *patch.AccountID, "accountId"); err != nil {
			return nil, err
		}
	}
	if patch.ReportsToID != nil && *patch.ReportsToID != uuid.Nil && *patch.ReportsToID != contact.ID {
		if err := s.checkManager(ctx, contact, *patch.ReportsToID); err != nil {
			return nil, err
		}
	}

	version := contact.Version
	if err := contact.ApplyPatch(patch, actor.UserID); err != nil {
		return nil, err
	}
	if contact.Version != version {
		if err := s.contacts.SaveWithLock(ctx, contact); err != nil {
			return nil, err
		}
		s.publish(ctx, contact)
	}

	resp := ToContactResponse(contact)
	return &resp, nil
}

// Delete soft deletes a contact
func (s *ContactService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	contact, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := contact.Delete(actor.UserID); err != nil {
		return err
	}
	if err := s.contacts.SaveWithLock(ctx, contact); err != nil {
		return err
	}
	s.publish(ctx, contact)
	return nil
}

func (s *ContactService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*crm.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Contact")
	}
	if err := s.checkRecord(actor, "Contact", contact.TenantID, contact.IsActive); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) checkManager(ctx context.Context, contact *crm.Contact, managerID uuid.UUID) error {
	if _, err := requireContact(ctx, s.contacts, contact.TenantID, managerID, "reportsToId"); err != nil {
		return err
	}
	return crm.CheckReportingChain(ctx, contact.ID, managerID, func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
		next, err := s.contacts.FindReportsTo(ctx, contact.TenantID, id)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return next, err
	})
}
