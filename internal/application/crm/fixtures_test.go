package crm

import (
	"testing"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func tenantUser(tenantID uuid.UUID) identity.Actor {
	return identity.NewActor(uuid.New(), &tenantID, identity.UserTypeTenantUser, "leads:*", "accounts:*")
}

func operator() identity.Actor {
	return identity.NewActor(uuid.New(), nil, identity.UserTypeSaaSAdmin)
}

func newJaneDoe(t *testing.T, tenantID, ownerID uuid.UUID) *crm.Lead {
	t.Helper()
	addr, err := valueobject.NewAddress("1 Market St", "Springfield", "IL", "USA", "62701")
	require.NoError(t, err)
	lead, err := crm.NewLead(tenantID, ownerID, ownerID, crm.LeadDetails{
		FirstName:  "Jane",
		LastName:   "Doe",
		Email:      "jane@acme.test",
		Phone:      "555-0100",
		Company:    "Acme Corp",
		JobTitle:   "CTO",
		Industry:   "Manufacturing",
		Address:    addr,
		LeadSource: crm.LeadSourceWebsite,
	})
	require.NoError(t, err)
	lead.ClearDomainEvents()
	return lead
}

func newTestAccount(t *testing.T, tenantID uuid.UUID, name string) *crm.Account {
	t.Helper()
	owner := uuid.New()
	account, err := crm.NewAccount(tenantID, owner, owner, "ACC-000001", crm.AccountDetails{AccountName: name})
	require.NoError(t, err)
	account.ClearDomainEvents()
	return account
}

func ptr[T any](v T) *T {
	return &v
}
