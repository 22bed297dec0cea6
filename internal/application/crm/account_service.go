package crm

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService manages accounts
type AccountService struct {
	recordService
	accounts     crm.AccountRepository
	numberPrefix string
}

// NewAccountService creates an AccountService. numberPrefix prefixes
// generated account numbers.
func NewAccountService(accounts crm.AccountRepository, publisher shared.EventPublisher, numberPrefix string, logger *zap.Logger) *AccountService {
	return &AccountService{
		recordService: newRecordService(publisher, logger),
		accounts:      accounts,
		numberPrefix:  numberPrefix,
	}
}

// Create creates an account with the tenant's next account number
func (s *AccountService) Create(ctx context.Context, actor identity.Actor, req CreateAccountRequest) (*AccountResponse, error) {
	tenantID, err := s.guard.ResolveTenant(actor, req.TenantID)
	if err != nil {
		return nil, err
	}
	details, err := req.toDetails()
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, tenantID, details.AccountName, nil); err != nil {
		return nil, err
	}
	if details.ParentAccountID != nil {
		if _, err := requireAccount(ctx, s.accounts, tenantID, *details.ParentAccountID, "parentAccountId"); err != nil {
			return nil, err
		}
	}

	number, err := nextAccountNumber(ctx, s.accounts, tenantID, s.numberPrefix)
	if err != nil {
		return nil, err
	}
	account, err := crm.NewAccount(tenantID, ownerOrNil(req.OwnerID), actor.UserID, number, details)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.publish(ctx, account)

	resp := ToAccountResponse(account)
	return &resp, nil
}

// GetByID returns an account the actor may see
func (s *AccountService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// List returns a page of active accounts visible to the actor
func (s *AccountService) List(ctx context.Context, actor identity.Actor, filter AccountListFilter) ([]AccountResponse, int64, error) {
	scope, err := s.guard.Scope(actor)
	if err != nil {
		return nil, 0, err
	}
	ownerID, err := parseOptionalID("ownerId", filter.OwnerID)
	if err != nil {
		return nil, 0, err
	}
	domainFilter := crm.AccountFilter{
		Filter:      filter.toFilter(),
		TenantID:    scope,
		AccountType: crm.AccountType(filter.AccountType),
		Industry:    strings.TrimSpace(filter.Industry),
		OwnerID:     ownerID,
	}

	accounts, err := s.accounts.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accounts.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return mapSlice(accounts, ToAccountResponse), total, nil
}

// Update applies a partial update; a rename is checked for duplicates
func (s *AccountService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	patch, err := req.toPatch()
	if err != nil {
		return nil, err
	}
	if patch.AccountName != nil {
		if name := strings.TrimSpace(*patch.AccountName); !strings.EqualFold(name, account.AccountName) {
			if err := s.checkName(ctx, account.TenantID, name, &account.ID); err != nil {
				return nil, err
			}
		}
	}
	if patch.ParentAccountID != nil && *patch.ParentAccountID != uuid.Nil && *patch.ParentAccountID != account.ID {
		if _, err := requireAccount(ctx, s.accounts, account.TenantID, *patch.ParentAccountID, "parentAccountId"); err != nil {
			return nil, err
		}
	}

	version := account.Version
	if err := account.ApplyPatch(patch, actor.UserID); err != nil {
		return nil, err
	}
	if account.Version != version {
		if err := s.accounts.SaveWithLock(ctx, account); err != nil {
			return nil, err
		}
		s.publish(ctx, account)
	}

	resp := ToAccountResponse(account)
	return &resp, nil
}

// Delete soft deletes an account
func (s *AccountService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	account, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := account.Delete(actor.UserID); err != nil {
		return err
	}
	if err := s.accounts.SaveWithLock(ctx, account); err != nil {
		return err
	}
	s.publish(ctx, account)
	return nil
}

func (s *AccountService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*crm.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Account")
	}
	if err := s.checkRecord(actor, "Account", account.TenantID, account.IsActive); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) checkName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	exists, err := s.accounts.ExistsByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.ErrDuplicateName
	}
	return nil
}
