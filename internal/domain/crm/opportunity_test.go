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

func validOpportunityDetails() OpportunityDetails {
	return OpportunityDetails{
		OpportunityName: "Renewal 2027",
		AccountID:       uuid.New(),
		Amount:          decimal.RequireFromString("1000.50"),
		CloseDate:       time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC),
		Stage:           DefaultOpportunityStage,
		Probability:     DefaultOpportunityProbability,
	}
}

func TestNewOpportunity(t *testing.T) {
	opp, err := NewOpportunity(uuid.New(), uuid.New(), uuid.New(), validOpportunityDetails())
	require.NoError(t, err)

	assert.Equal(t, OpportunityTypeNewBusiness, opp.Type)
	assert.Equal(t, OpportunitySourceOther, opp.LeadSource)
	assert.Equal(t, StageProspecting, opp.Stage)
	assert.Equal(t, 10, opp.Probability)

	tests := []struct {
		name   string
		mutate func(*OpportunityDetails)
	}{
		{"missing name", func(d *OpportunityDetails) { d.OpportunityName = " " }},
		{"missing account", func(d *OpportunityDetails) { d.AccountID = uuid.Nil }},
		{"negative amount", func(d *OpportunityDetails) { d.Amount = decimal.NewFromInt(-5) }},
		{"missing close date", func(d *OpportunityDetails) { d.CloseDate = time.Time{} }},
		{"unknown stage", func(d *OpportunityDetails) { d.Stage = "Dreaming" }},
		{"probability over 100", func(d *OpportunityDetails) { d.Probability = 101 }},
		{"negative probability", func(d *OpportunityDetails) { d.Probability = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validOpportunityDetails()
			tt.mutate(&d)
			_, err := NewOpportunity(uuid.New(), uuid.New(), uuid.New(), d)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestOpportunity_WeightedAmount(t *testing.T) {
	opp, err := NewOpportunity(uuid.New(), uuid.New(), uuid.New(), validOpportunityDetails())
	require.NoError(t, err)

	opp.Amount = decimal.RequireFromString("50000")
	opp.Probability = 50
	assert.True(t, opp.WeightedAmount().Equal(decimal.NewFromInt(25000)))

	opp.Probability = 0
	assert.True(t, opp.WeightedAmount().IsZero())
}

func TestOpportunity_ApplyPatch_RecordsStageChange(t *testing.T) {
	opp, err := NewOpportunity(uuid.New(), uuid.New(), uuid.New(), validOpportunityDetails())
	require.NoError(t, err)
	opp.ClearDomainEvents()

	stage := StageClosedWon
	prob := 100
	require.NoError(t, opp.ApplyPatch(OpportunityPatch{Stage: &stage, Probability: &prob}, uuid.New()))

	ev := opp.GetDomainEvents()[0].(*RecordEvent)
	assert.Equal(t, "Prospecting", ev.Metadata["fromStage"])
	assert.Equal(t, "Closed Won", ev.Metadata["toStage"])
	assert.True(t, opp.Stage.IsClosed())
}
