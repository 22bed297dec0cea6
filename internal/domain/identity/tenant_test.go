package identity

import (
	"testing"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	t.Run("creates active tenant with lowercase slug", func(t *testing.T) {
		tenant, err := NewTenant("  Acme Corp ", "Acme-Corp", "Ops@Acme.io", "")

		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", tenant.OrganizationName)
		assert.Equal(t, "acme-corp", tenant.Slug)
		assert.Equal(t, "ops@acme.io", tenant.ContactEmail)
		assert.Equal(t, PlanFree, tenant.PlanType)
		assert.True(t, tenant.CanOperate())
		assert.Equal(t, tenant.ID, tenant.TenantID())

		events := tenant.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeTenantCreated, events[0].EventType())
	})

	t.Run("rejects bad slug", func(t *testing.T) {
		_, err := NewTenant("Acme", "acme corp!", "", PlanStarter)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewTenant("", "acme", "", PlanStarter)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects unknown plan", func(t *testing.T) {
		_, err := NewTenant("Acme", "acme", "", PlanType("platinum"))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestTenant_Lifecycle(t *testing.T) {
	tenant, err := NewTenant("Acme", "acme", "", PlanProfessional)
	require.NoError(t, err)
	tenant.ClearDomainEvents()

	require.NoError(t, tenant.Suspend())
	assert.False(t, tenant.CanOperate())
	assert.Error(t, tenant.Suspend())

	require.NoError(t, tenant.Reactivate())
	assert.True(t, tenant.CanOperate())
	assert.Error(t, tenant.Reactivate())

	require.NoError(t, tenant.Deactivate())
	assert.False(t, tenant.CanOperate())
	assert.Error(t, tenant.Deactivate())

	require.NoError(t, tenant.Rename("Acme Holdings"))
	assert.Equal(t, "Acme Holdings", tenant.OrganizationName)

	types := make([]string, 0)
	for _, e := range tenant.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{
		EventTypeTenantSuspended,
		EventTypeTenantReactivated,
		EventTypeTenantDeactivated,
		EventTypeTenantUpdated,
	}, types)
	assert.Equal(t, 5, tenant.GetVersion())
}
