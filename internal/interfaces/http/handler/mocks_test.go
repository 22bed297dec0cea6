package handler

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockLeadRepository implements crm.LeadRepository for testing
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAll(ctx context.Context, filter crm.LeadFilter) ([]crm.Lead, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) Count(ctx context.Context, filter crm.LeadFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string, scope crm.EmailScope, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, email, scope, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *crm.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) SaveConverted(ctx context.Context, lead *crm.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) SaveWithLock(ctx context.Context, lead *crm.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) ClaimForConversion(ctx context.Context, tenantID, leadID uuid.UUID) error {
	return m.Called(ctx, tenantID, leadID).Error(0)
}

// MockAccountRepository implements crm.AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter crm.AccountFilter) ([]crm.Account, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]crm.Account), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context, filter crm.AccountFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *crm.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) SaveWithLock(ctx context.Context, account *crm.Account) error {
	return m.Called(ctx, account).Error(0)
}

// MockContactRepository implements crm.ContactRepository for testing
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Contact), args.Error(1)
}

func (m *MockContactRepository) FindAll(ctx context.Context, filter crm.ContactFilter) ([]crm.Contact, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]crm.Contact), args.Error(1)
}

func (m *MockContactRepository) Count(ctx context.Context, filter crm.ContactFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) FindReportsTo(ctx context.Context, tenantID, contactID uuid.UUID) (*uuid.UUID, error) {
	args := m.Called(ctx, tenantID, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uuid.UUID), args.Error(1)
}

func (m *MockContactRepository) Create(ctx context.Context, contact *crm.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockContactRepository) SaveWithLock(ctx context.Context, contact *crm.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

// MockTenantRepository implements identity.TenantRepository for testing
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter identity.TenantFilter) ([]identity.Tenant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Count(ctx context.Context, filter identity.TenantFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}
