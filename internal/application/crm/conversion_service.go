package crm

import (
	"context"
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/crm/backend/internal/application/crm"

// ConversionLock serialises conversions of the same lead across server
// instances. Acquire returns crm.ErrConversionInProgress when another
// holder owns the lock; the returned release function is always safe to call.
type ConversionLock interface {
	Acquire(ctx context.Context, leadID uuid.UUID) (release func(), err error)
}

// ConversionOptions configures the records a conversion creates
type ConversionOptions struct {
	OpportunityDefaults crm.OpportunityDefaults
	AccountNumberPrefix string
}

// DefaultConversionOptions returns Qualification/50 and the ACC prefix
func DefaultConversionOptions() ConversionOptions {
	return ConversionOptions{
		OpportunityDefaults: crm.DefaultConversionOpportunityDefaults(),
		AccountNumberPrefix: crm.DefaultAccountNumberPrefix,
	}
}

// ConversionService turns a lead into an account, a contact and an
// opportunity in one unit of work.
type ConversionService struct {
	recordService
	leads    crm.LeadRepository
	accounts crm.AccountRepository
	txScope  TransactionScope
	lock     ConversionLock
	options  ConversionOptions
	now      func() time.Time
	tracer   trace.Tracer
}

// NewConversionService creates a ConversionService. leads and accounts are
// used for the read-only checks made before the transaction starts.
func NewConversionService(
	leads crm.LeadRepository,
	accounts crm.AccountRepository,
	txScope TransactionScope,
	publisher shared.EventPublisher,
	options ConversionOptions,
	logger *zap.Logger,
) *ConversionService {
	if options.OpportunityDefaults.Stage == "" {
		options.OpportunityDefaults = crm.DefaultConversionOpportunityDefaults()
	}
	return &ConversionService{
		recordService: newRecordService(publisher, logger),
		leads:         leads,
		accounts:      accounts,
		txScope:       txScope,
		options:       options,
		now:           time.Now,
		tracer:        otel.Tracer(tracerName),
	}
}

// SetLock enables the cross-instance conversion lock
func (s *ConversionService) SetLock(lock ConversionLock) {
	s.lock = lock
}

// conversionPlan is a validated request, resolved against the lead
type conversionPlan struct {
	account     *crm.AccountDetails
	contact     *crm.ContactDetails
	opportunity *crm.OpportunityData
	// existingAccountID is the account referenced when none is created
	existingAccountID *uuid.UUID
	contactAccountID  *uuid.UUID
}

// ConvertLead converts a lead. The lead must exist, be visible to the actor
// and not be converted yet, in that order. Every write happens inside one
// transaction, and events are published only after it commits.
func (s *ConversionService) ConvertLead(ctx context.Context, actor identity.Actor, leadID uuid.UUID, req ConvertLeadRequest) (_ *ConvertLeadResult, err error) {
	ctx, span := s.tracer.Start(ctx, "crm.ConvertLead", trace.WithAttributes(
		attribute.String("crm.lead_id", leadID.String()),
		attribute.String("crm.actor_id", actor.UserID.String()),
	))
	defer func() {
		if err != nil {
			span.SetAttributes(attribute.String("crm.outcome", shared.CodeOf(err)))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String("crm.outcome", "converted"))
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	lead, err := s.leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, notFoundAs(err, "Lead")
	}
	if !lead.IsActive {
		return nil, shared.NotFound("Lead")
	}
	span.SetAttributes(attribute.String("crm.tenant_id", lead.TenantID.String()))
	if err := s.guard.Authorize(actor, lead.TenantID); err != nil {
		return nil, err
	}
	if lead.IsConverted {
		return nil, shared.ErrAlreadyConverted
	}

	plan, err := s.plan(ctx, lead, req)
	if err != nil {
		return nil, err
	}

	if s.lock != nil {
		release, err := s.lock.Acquire(ctx, lead.ID)
		if err != nil {
			if errors.Is(err, crm.ErrConversionInProgress) {
				s.logger.Info("Lead conversion lock contended", zap.String("lead_id", lead.ID.String()))
			}
			return nil, err
		}
		defer release()
	}

	var created struct {
		account     *crm.Account
		contact     *crm.Contact
		opportunity *crm.Opportunity
	}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Leads().ClaimForConversion(ctx, lead.TenantID, lead.ID); err != nil {
			return err
		}

		var converted crm.ConvertedTo
		accountID := plan.existingAccountID
		if plan.account != nil {
			number, err := nextAccountNumber(ctx, repos.Accounts(), lead.TenantID, s.options.AccountNumberPrefix)
			if err != nil {
				return err
			}
			account, err := crm.NewAccount(lead.TenantID, lead.OwnerID, actor.UserID, number, *plan.account)
			if err != nil {
				return err
			}
			if err := repos.Accounts().Create(ctx, account); err != nil {
				return err
			}
			created.account = account
			accountID = &account.ID
			converted.AccountID = &account.ID
		}

		if plan.contact != nil {
			details := *plan.contact
			details.AccountID = plan.contactAccountID
			if created.account != nil {
				details.AccountID = &created.account.ID
			}
			contact, err := crm.NewContact(lead.TenantID, lead.OwnerID, actor.UserID, details)
			if err != nil {
				return err
			}
			if err := repos.Contacts().Create(ctx, contact); err != nil {
				return err
			}
			created.contact = contact
			converted.ContactID = &contact.ID
		}

		if plan.opportunity != nil {
			var contactID *uuid.UUID
			if created.contact != nil {
				contactID = &created.contact.ID
			}
			details, err := crm.BuildOpportunityFromLead(lead, *plan.opportunity, *accountID, contactID, s.options.OpportunityDefaults)
			if err != nil {
				return err
			}
			opp, err := crm.NewOpportunity(lead.TenantID, lead.OwnerID, actor.UserID, details)
			if err != nil {
				return err
			}
			if err := repos.Opportunities().Create(ctx, opp); err != nil {
				return err
			}
			created.opportunity = opp
			converted.OpportunityID = &opp.ID
		}

		if err := lead.MarkConverted(converted, actor.UserID, s.now()); err != nil {
			return err
		}
		return repos.Leads().SaveConverted(ctx, lead)
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		s.logger.Error("Lead conversion failed",
			zap.String("lead_id", lead.ID.String()),
			zap.String("tenant_id", lead.TenantID.String()),
			zap.Error(err),
		)
		return nil, shared.ErrInternal
	}

	// created events first, then exactly one lead.converted
	result := &ConvertLeadResult{}
	var events []shared.DomainEvent
	if created.account != nil {
		events = append(events, created.account.GetDomainEvents()...)
		created.account.ClearDomainEvents()
		resp := ToAccountResponse(created.account)
		result.Account = &resp
	}
	if created.contact != nil {
		events = append(events, created.contact.GetDomainEvents()...)
		created.contact.ClearDomainEvents()
		resp := ToContactResponse(created.contact)
		result.Contact = &resp
	}
	if created.opportunity != nil {
		events = append(events, created.opportunity.GetDomainEvents()...)
		created.opportunity.ClearDomainEvents()
		resp := ToOpportunityResponse(created.opportunity)
		result.Opportunity = &resp
	}
	events = append(events, lead.GetDomainEvents()...)
	lead.ClearDomainEvents()
	s.publishEvents(ctx, events)

	result.Lead = ToLeadResponse(lead)
	s.logger.Info("Lead converted",
		zap.String("lead_id", lead.ID.String()),
		zap.String("tenant_id", lead.TenantID.String()),
		zap.Bool("account_created", result.Account != nil),
		zap.Bool("contact_created", result.Contact != nil),
		zap.Bool("opportunity_created", result.Opportunity != nil),
	)
	return result, nil
}

// plan validates the request before anything is written
func (s *ConversionService) plan(ctx context.Context, lead *crm.Lead, req ConvertLeadRequest) (*conversionPlan, error) {
	plan := &conversionPlan{}

	if req.CreateAccount {
		data, err := req.AccountData.toDomain()
		if err != nil {
			return nil, err
		}
		details := crm.BuildAccountFromLead(lead, data)
		if err := crm.ValidateAccountDetails(details); err != nil {
			return nil, err
		}
		plan.account = &details
	}

	if req.CreateContact {
		data, err := req.ContactData.toDomain()
		if err != nil {
			return nil, err
		}
		details := crm.BuildContactFromLead(lead, data)
		if err := crm.ValidateContactDetails(details); err != nil {
			return nil, err
		}
		if !req.CreateAccount && data.AccountID != nil {
			if _, err := requireAccount(ctx, s.accounts, lead.TenantID, *data.AccountID, "contactData.accountId"); err != nil {
				return nil, err
			}
			plan.contactAccountID = data.AccountID
		}
		plan.contact = &details
	}

	if req.CreateOpportunity {
		data := req.OpportunityData.toDomain()
		accountID := uuid.New()
		if !req.CreateAccount {
			if data.AccountID == nil || *data.AccountID == uuid.Nil {
				return nil, shared.Validation("opportunityData.accountId is required when createAccount is false")
			}
			if _, err := requireAccount(ctx, s.accounts, lead.TenantID, *data.AccountID, "opportunityData.accountId"); err != nil {
				return nil, err
			}
			accountID = *data.AccountID
			plan.existingAccountID = data.AccountID
		}
		// the real account and contact ids are only known inside the transaction
		details, err := crm.BuildOpportunityFromLead(lead, data, accountID, nil, s.options.OpportunityDefaults)
		if err != nil {
			return nil, err
		}
		if err := crm.ValidateOpportunityDetails(details); err != nil {
			return nil, err
		}
		plan.opportunity = &data
	}

	// a contact created next to an opportunity on an existing account joins that account
	if plan.contact != nil && plan.existingAccountID != nil {
		switch {
		case plan.contactAccountID == nil:
			plan.contactAccountID = plan.existingAccountID
		case *plan.contactAccountID != *plan.existingAccountID:
			return nil, shared.Validation("contactData.accountId must match opportunityData.accountId")
		}
	}

	return plan, nil
}
