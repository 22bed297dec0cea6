package crm

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestLead(t *testing.T) *Lead {
	t.Helper()
	lead, err := NewLead(uuid.New(), uuid.New(), uuid.New(), LeadDetails{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     " Jane@Acme.COM ",
		Company:   "Acme",
	})
	require.NoError(t, err)
	return lead
}

func TestNewLead(t *testing.T) {
	t.Run("applies defaults and normalizes email", func(t *testing.T) {
		lead := newTestLead(t)

		assert.Equal(t, "jane@acme.com", lead.Email)
		assert.Equal(t, LeadSourceOther, lead.LeadSource)
		assert.Equal(t, LeadStatusNew, lead.LeadStatus)
		assert.Equal(t, RatingWarm, lead.Rating)
		assert.True(t, lead.IsActive)
		assert.False(t, lead.IsConverted)
		assert.Equal(t, 1, lead.Version)
		assert.Equal(t, "Jane Doe", lead.FullName())

		events := lead.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeLeadCreated, events[0].EventType())
	})

	t.Run("owner defaults to creator", func(t *testing.T) {
		creator := uuid.New()
		lead, err := NewLead(uuid.New(), uuid.Nil, creator, LeadDetails{Company: "Acme"})
		require.NoError(t, err)
		assert.Equal(t, creator, lead.OwnerID)
		require.NotNil(t, lead.CreatedBy)
		assert.Equal(t, creator, *lead.CreatedBy)
	})

	tests := []struct {
		name    string
		details LeadDetails
		message string
	}{
		{"requires an identifier", LeadDetails{Phone: "555"}, "At least one of"},
		{"rejects bad email", LeadDetails{Email: "not-an-email"}, "valid email"},
		{"rejects converted status", LeadDetails{Company: "Acme", LeadStatus: LeadStatusConverted}, "Converted"},
		{"rejects unknown source", LeadDetails{Company: "Acme", LeadSource: "Carrier Pigeon"}, "lead source"},
		{"rejects score above 100", LeadDetails{Company: "Acme", LeadScore: 101}, "leadScore"},
		{"rejects negative revenue", LeadDetails{Company: "Acme", AnnualRevenue: decPtr("-1")}, "annualRevenue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLead(uuid.New(), uuid.New(), uuid.New(), tt.details)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestLead_ApplyPatch(t *testing.T) {
	t.Run("updates present fields only", func(t *testing.T) {
		lead := newTestLead(t)
		lead.ClearDomainEvents()
		actor := uuid.New()

		status := LeadStatusQualified
		err := lead.ApplyPatch(LeadPatch{Company: strPtr("Acme Ltd"), LeadStatus: &status}, actor)
		require.NoError(t, err)

		assert.Equal(t, "Acme Ltd", lead.Company)
		assert.Equal(t, "Jane", lead.FirstName)
		assert.Equal(t, LeadStatusQualified, lead.LeadStatus)
		assert.Equal(t, 2, lead.Version)
		assert.Equal(t, actor, *lead.LastModifiedBy)

		events := lead.GetDomainEvents()
		require.Len(t, events, 1)
		ev := events[0].(*RecordEvent)
		assert.Equal(t, EventTypeLeadUpdated, ev.EventType())
		assert.Equal(t, []string{"company", "leadStatus"}, ev.Metadata["fields"])
	})

	t.Run("no-op patch leaves version alone", func(t *testing.T) {
		lead := newTestLead(t)
		require.NoError(t, lead.ApplyPatch(LeadPatch{FirstName: strPtr("Jane")}, uuid.New()))
		assert.Equal(t, 1, lead.Version)
	})

	t.Run("cannot set status to converted", func(t *testing.T) {
		lead := newTestLead(t)
		status := LeadStatusConverted
		err := lead.ApplyPatch(LeadPatch{LeadStatus: &status}, uuid.New())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("cannot clear every identifier", func(t *testing.T) {
		lead := newTestLead(t)
		empty := ""
		err := lead.ApplyPatch(LeadPatch{FirstName: &empty, LastName: &empty, Email: &empty, Company: &empty}, uuid.New())
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Equal(t, "Jane", lead.FirstName)
	})

	t.Run("reassigns owner", func(t *testing.T) {
		lead := newTestLead(t)
		owner := uuid.New()
		require.NoError(t, lead.ApplyPatch(LeadPatch{OwnerID: &owner}, uuid.New()))
		assert.Equal(t, owner, lead.OwnerID)
	})
}

func TestLead_MarkConverted(t *testing.T) {
	lead := newTestLead(t)
	lead.ClearDomainEvents()
	accountID := uuid.New()
	now := time.Now()

	require.NoError(t, lead.MarkConverted(ConvertedTo{AccountID: &accountID}, uuid.New(), now))

	assert.True(t, lead.IsConverted)
	assert.Equal(t, LeadStatusConverted, lead.LeadStatus)
	assert.Equal(t, &now, lead.ConvertedDate)
	assert.Equal(t, &accountID, lead.ConvertedTo.AccountID)
	assert.Equal(t, 2, lead.Version)

	events := lead.GetDomainEvents()
	require.Len(t, events, 1)
	converted, ok := events[0].(*LeadConvertedEvent)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"accountCreated":     true,
		"contactCreated":     false,
		"opportunityCreated": false,
	}, converted.ActivityMetadata())

	t.Run("second conversion is rejected", func(t *testing.T) {
		err := lead.MarkConverted(ConvertedTo{}, uuid.New(), time.Now())
		assert.ErrorIs(t, err, shared.ErrAlreadyConverted)
	})

	t.Run("converted lead is immutable", func(t *testing.T) {
		assert.ErrorIs(t, lead.ApplyPatch(LeadPatch{Company: strPtr("Other")}, uuid.New()), shared.ErrAlreadyConverted)
		assert.ErrorIs(t, lead.Delete(uuid.New()), shared.ErrAlreadyConverted)
		assert.True(t, lead.IsActive)
	})
}

func TestLead_Delete(t *testing.T) {
	lead := newTestLead(t)
	lead.ClearDomainEvents()

	require.NoError(t, lead.Delete(uuid.New()))
	assert.False(t, lead.IsActive)
	assert.Equal(t, EventTypeLeadDeleted, lead.GetDomainEvents()[0].EventType())

	assert.ErrorIs(t, lead.Delete(uuid.New()), shared.ErrValidation)
}
