package persistence

import (
	"context"

	appcrm "github.com/crm/backend/internal/application/crm"
	"github.com/crm/backend/internal/domain/crm"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcrm.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Leads returns the lead repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Leads() crm.LeadRepository {
	return NewGormLeadRepository(r.tx)
}

// Accounts returns the account repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Accounts() crm.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

// Contacts returns the contact repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Contacts() crm.ContactRepository {
	return NewGormContactRepository(r.tx)
}

// Opportunities returns the opportunity repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Opportunities() crm.OpportunityRepository {
	return NewGormOpportunityRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appcrm.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appcrm.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
