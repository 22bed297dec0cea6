package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockLeadRepository is a mock implementation of crm.LeadRepository
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
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveConverted(ctx context.Context, lead *crm.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveWithLock(ctx context.Context, lead *crm.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) ClaimForConversion(ctx context.Context, tenantID, leadID uuid.UUID) error {
	args := m.Called(ctx, tenantID, leadID)
	return args.Error(0)
}

// MockAccountRepository is a mock implementation of crm.AccountRepository
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
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveWithLock(ctx context.Context, account *crm.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockContactRepository is a mock implementation of crm.ContactRepository
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
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) SaveWithLock(ctx context.Context, contact *crm.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

// MockOpportunityRepository is a mock implementation of crm.OpportunityRepository
type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Opportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindAll(ctx context.Context, filter crm.OpportunityFilter) ([]crm.Opportunity, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]crm.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) Count(ctx context.Context, filter crm.OpportunityFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOpportunityRepository) Create(ctx context.Context, opportunity *crm.Opportunity) error {
	args := m.Called(ctx, opportunity)
	return args.Error(0)
}

func (m *MockOpportunityRepository) SaveWithLock(ctx context.Context, opportunity *crm.Opportunity) error {
	args := m.Called(ctx, opportunity)
	return args.Error(0)
}

// MockNoteRepository is a mock implementation of crm.NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Note), args.Error(1)
}

func (m *MockNoteRepository) FindAll(ctx context.Context, filter crm.NoteFilter) ([]crm.Note, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]crm.Note), args.Error(1)
}

func (m *MockNoteRepository) Count(ctx context.Context, filter crm.NoteFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNoteRepository) Create(ctx context.Context, note *crm.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockActivityLogRepository is a mock implementation of crm.ActivityLogRepository
type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.ActivityLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.ActivityLog), args.Error(1)
}

func (m *MockActivityLogRepository) FindAll(ctx context.Context, filter crm.ActivityFilter) ([]crm.ActivityLog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]crm.ActivityLog), args.Error(1)
}

func (m *MockActivityLogRepository) Count(ctx context.Context, filter crm.ActivityFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActivityLogRepository) Create(ctx context.Context, entry *crm.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// recordingPublisher keeps every published event in order
type recordingPublisher struct {
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) types() []string {
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

// MockConversionLock is a mock implementation of ConversionLock
type MockConversionLock struct {
	mock.Mock
	released int
}

func (m *MockConversionLock) Acquire(ctx context.Context, leadID uuid.UUID) (func(), error) {
	args := m.Called(ctx, leadID)
	if err := args.Error(0); err != nil {
		return func() {}, err
	}
	return func() { m.released++ }, nil
}
