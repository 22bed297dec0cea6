package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
)

// TransactionScope runs a unit of work against the CRM repositories. All
// repository calls made through repos share one database transaction that
// commits when fn returns nil and rolls back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories a lead conversion writes to
type TransactionalRepositories interface {
	Leads() crm.LeadRepository
	Accounts() crm.AccountRepository
	Contacts() crm.ContactRepository
	Opportunities() crm.OpportunityRepository
}

// NoOpTransactionScope runs the unit of work directly on the given
// repositories, without a transaction. Used by tests.
type NoOpTransactionScope struct {
	leads         crm.LeadRepository
	accounts      crm.AccountRepository
	contacts      crm.ContactRepository
	opportunities crm.OpportunityRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	leads crm.LeadRepository,
	accounts crm.AccountRepository,
	contacts crm.ContactRepository,
	opportunities crm.OpportunityRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		leads:         leads,
		accounts:      accounts,
		contacts:      contacts,
		opportunities: opportunities,
	}
}

// Execute calls fn with the scope itself
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Leads returns the lead repository
func (s *NoOpTransactionScope) Leads() crm.LeadRepository { return s.leads }

// Accounts returns the account repository
func (s *NoOpTransactionScope) Accounts() crm.AccountRepository { return s.accounts }

// Contacts returns the contact repository
func (s *NoOpTransactionScope) Contacts() crm.ContactRepository { return s.contacts }

// Opportunities returns the opportunity repository
func (s *NoOpTransactionScope) Opportunities() crm.OpportunityRepository { return s.opportunities }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
