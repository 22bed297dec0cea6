package crm

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAccountServiceForTest() (*AccountService, *MockAccountRepository, *recordingPublisher) {
	repo := new(MockAccountRepository)
	publisher := &recordingPublisher{}
	return NewAccountService(repo, publisher, "", zap.NewNop()), repo, publisher
}

func TestAccountService_Create(t *testing.T) {
	t.Run("numbers accounts per tenant", func(t *testing.T) {
		svc, repo, publisher := newAccountServiceForTest()
		tenantID := uuid.New()
		repo.On("ExistsByName", mock.Anything, tenantID, "Acme Corp", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("CountForTenant", mock.Anything, tenantID).Return(int64(11), nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*crm.Account")).Return(nil)

		resp, err := svc.Create(context.Background(), tenantUser(tenantID), CreateAccountRequest{AccountName: " Acme Corp "})
		require.NoError(t, err)
		assert.Equal(t, "ACC-000012", resp.AccountNumber)
		assert.Equal(t, "Acme Corp", resp.AccountName)
		assert.Equal(t, string(crm.AccountTypeProspect), resp.AccountType)
		assert.Equal(t, []string{crm.EventTypeAccountCreated}, publisher.types())
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc, repo, _ := newAccountServiceForTest()
		tenantID := uuid.New()
		repo.On("ExistsByName", mock.Anything, tenantID, "Acme Corp", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(context.Background(), tenantUser(tenantID), CreateAccountRequest{AccountName: "Acme Corp"})
		assert.ErrorIs(t, err, shared.ErrDuplicateName)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("parent must belong to the tenant", func(t *testing.T) {
		svc, repo, _ := newAccountServiceForTest()
		tenantID := uuid.New()
		parent := newTestAccount(t, uuid.New(), "Globex")
		repo.On("ExistsByName", mock.Anything, tenantID, "Acme Corp", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)

		_, err := svc.Create(context.Background(), tenantUser(tenantID), CreateAccountRequest{
			AccountName:     "Acme Corp",
			ParentAccountID: &parent.ID,
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestAccountService_Update(t *testing.T) {
	tenantID := uuid.New()

	t.Run("rename checks duplicates excluding itself", func(t *testing.T) {
		svc, repo, _ := newAccountServiceForTest()
		account := newTestAccount(t, tenantID, "Acme Corp")
		repo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
		repo.On("ExistsByName", mock.Anything, tenantID, "Globex", &account.ID).Return(true, nil)

		_, err := svc.Update(context.Background(), tenantUser(tenantID), account.ID, UpdateAccountRequest{AccountName: ptr("Globex")})
		assert.ErrorIs(t, err, shared.ErrDuplicateName)
	})

	t.Run("case-only rename skips the check", func(t *testing.T) {
		svc, repo, _ := newAccountServiceForTest()
		account := newTestAccount(t, tenantID, "Acme Corp")
		repo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
		repo.On("SaveWithLock", mock.Anything, account).Return(nil)

		resp, err := svc.Update(context.Background(), tenantUser(tenantID), account.ID, UpdateAccountRequest{AccountName: ptr("ACME Corp")})
		require.NoError(t, err)
		assert.Equal(t, "ACME Corp", resp.AccountName)
		repo.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("other tenant", func(t *testing.T) {
		svc, repo, _ := newAccountServiceForTest()
		account := newTestAccount(t, tenantID, "Acme Corp")
		repo.On("FindByID", mock.Anything, account.ID).Return(account, nil)

		_, err := svc.Update(context.Background(), tenantUser(uuid.New()), account.ID, UpdateAccountRequest{Industry: ptr("Retail")})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestAccountService_Delete(t *testing.T) {
	svc, repo, publisher := newAccountServiceForTest()
	tenantID := uuid.New()
	account := newTestAccount(t, tenantID, "Acme Corp")
	repo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
	repo.On("SaveWithLock", mock.Anything, account).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), tenantUser(tenantID), account.ID))
	assert.False(t, account.IsActive)
	assert.Equal(t, []string{crm.EventTypeAccountDeleted}, publisher.types())
}
