// Package crm holds the application services of the CRM bounded context:
// tenant-guarded CRUD for leads, accounts, contacts, opportunities and notes,
// the audit trail query, and the lead conversion engine.
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

// recordService carries what every CRM service needs: the tenant guard, the
// event publisher and a logger.
type recordService struct {
	guard     identity.Guard
	publisher shared.EventPublisher
	logger    *zap.Logger
}

func newRecordService(publisher shared.EventPublisher, logger *zap.Logger) recordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return recordService{
		guard:     identity.NewGuard(),
		publisher: publisher,
		logger:    logger,
	}
}

// publish sends the pending events of aggregates after their changes were
// persisted. Failures are logged and never returned.
func (s recordService) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	var events []shared.DomainEvent
	for _, agg := range aggregates {
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	s.publishEvents(ctx, events)
}

func (s recordService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.String("first_event", events[0].EventType()),
			zap.Error(err),
		)
	}
}

// checkRecord applies the single-record access rules: inactive records are
// reported as missing, then the guard decides.
func (s recordService) checkRecord(actor identity.Actor, entity string, tenantID uuid.UUID, active bool) error {
	if !active {
		return shared.NotFound(entity)
	}
	return s.guard.Authorize(actor, tenantID)
}

// notFoundAs renames a repository NOT_FOUND after the entity that was looked up
func notFoundAs(err error, entity string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound(entity)
	}
	return err
}

// requireAccount loads an active account of tenantID for use as a reference
// from another record. A missing or foreign account is a validation failure.
func requireAccount(ctx context.Context, accounts crm.AccountRepository, tenantID, accountID uuid.UUID, field string) (*crm.Account, error) {
	account, err := accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.Validation(field + " does not reference an active account of this tenant")
		}
		return nil, err
	}
	if !account.IsActive || account.TenantID != tenantID {
		return nil, shared.Validation(field + " does not reference an active account of this tenant")
	}
	return account, nil
}

// requireContact loads an active contact of tenantID for use as a reference
func requireContact(ctx context.Context, contacts crm.ContactRepository, tenantID, contactID uuid.UUID, field string) (*crm.Contact, error) {
	contact, err := contacts.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.Validation(field + " does not reference an active contact of this tenant")
		}
		return nil, err
	}
	if !contact.IsActive || contact.TenantID != tenantID {
		return nil, shared.Validation(field + " does not reference an active contact of this tenant")
	}
	return contact, nil
}

// nextAccountNumber numbers a tenant's accounts sequentially from 1
func nextAccountNumber(ctx context.Context, accounts crm.AccountRepository, tenantID uuid.UUID, prefix string) (string, error) {
	count, err := accounts.CountForTenant(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return crm.FormatAccountNumber(prefix, count+1), nil
}
