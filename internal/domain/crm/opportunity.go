package crm

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Defaults for opportunities created outside of a lead conversion
const (
	DefaultOpportunityStage       = StageProspecting
	DefaultOpportunityProbability = 10
)

// OpportunityDetails holds the editable fields of an opportunity
type OpportunityDetails struct {
	OpportunityName string
	AccountID       uuid.UUID
	ContactID       *uuid.UUID
	LeadID          *uuid.UUID
	Amount          decimal.Decimal
	CloseDate       time.Time
	Stage           Stage
	Probability     int
	Type            OpportunityType
	LeadSource      OpportunitySource
	NextStep        string
	Description     string
	Tags            []string
}

// Opportunity is a potential deal with an account
type Opportunity struct {
	Record
	OpportunityDetails
}

// NewOpportunity creates an opportunity. The caller resolves stage and
// probability defaults; only Type and LeadSource are defaulted here.
func NewOpportunity(tenantID, ownerID, createdBy uuid.UUID, details OpportunityDetails) (*Opportunity, error) {
	details = normalizeOpportunityDetails(details)
	if err := validateOpportunityDetails(details); err != nil {
		return nil, err
	}

	opp := &Opportunity{
		Record:             newRecord(tenantID, ownerID, createdBy),
		OpportunityDetails: details,
	}
	metadata := map[string]any{
		"opportunityName": opp.OpportunityName,
		"amount":          opp.Amount.String(),
		"stage":           string(opp.Stage),
	}
	if opp.LeadID != nil {
		metadata["leadId"] = opp.LeadID.String()
	}
	opp.AddDomainEvent(NewRecordEvent(EventTypeOpportunityCreated, AggregateTypeOpportunity, opp.ID, tenantID, createdBy, metadata))
	return opp, nil
}

// WeightedAmount is Amount × Probability / 100
func (o *Opportunity) WeightedAmount() decimal.Decimal {
	return o.Amount.Mul(decimal.NewFromInt(int64(o.Probability))).Div(decimal.NewFromInt(100))
}

// ApplyPatch updates the fields present in p
func (o *Opportunity) ApplyPatch(p OpportunityPatch, actorID uuid.UUID) error {
	previousStage := o.Stage
	details, changed := p.apply(o.OpportunityDetails)
	owner, reassigned := ownerChange(o.OwnerID, p.OwnerID)
	if reassigned {
		changed = append(changed, "owner")
	}
	if len(changed) == 0 {
		return nil
	}
	details = normalizeOpportunityDetails(details)
	if err := validateOpportunityDetails(details); err != nil {
		return err
	}

	o.OpportunityDetails = details
	o.OwnerID = owner
	o.touch(actorID)
	metadata := map[string]any{"fields": changed}
	if previousStage != o.Stage {
		metadata["fromStage"] = string(previousStage)
		metadata["toStage"] = string(o.Stage)
	}
	o.AddDomainEvent(NewRecordEvent(EventTypeOpportunityUpdated, AggregateTypeOpportunity, o.ID, o.TenantID, actorID, metadata))
	return nil
}

// Delete soft deletes the opportunity
func (o *Opportunity) Delete(actorID uuid.UUID) error {
	if err := o.softDelete(actorID); err != nil {
		return err
	}
	o.AddDomainEvent(NewRecordEvent(EventTypeOpportunityDeleted, AggregateTypeOpportunity, o.ID, o.TenantID, actorID, nil))
	return nil
}

func normalizeOpportunityDetails(d OpportunityDetails) OpportunityDetails {
	d.OpportunityName = trim(d.OpportunityName)
	d.NextStep = trim(d.NextStep)
	d.Description = trim(d.Description)
	if d.Type == "" {
		d.Type = OpportunityTypeNewBusiness
	}
	if d.LeadSource == "" {
		d.LeadSource = OpportunitySourceOther
	}
	d.Tags = normalizeTags(d.Tags)
	return d
}

// ValidateOpportunityDetails checks d as NewOpportunity would
func ValidateOpportunityDetails(d OpportunityDetails) error {
	return validateOpportunityDetails(normalizeOpportunityDetails(d))
}

func validateOpportunityDetails(d OpportunityDetails) error {
	if d.OpportunityName == "" {
		return shared.Validation("Opportunity name is required")
	}
	if d.AccountID == uuid.Nil {
		return shared.Validation("Account is required")
	}
	if d.Amount.IsNegative() {
		return shared.Validation("amount cannot be negative")
	}
	if d.CloseDate.IsZero() {
		return shared.Validation("closeDate is required")
	}
	if !d.Stage.IsValid() {
		return shared.Validation("Invalid stage")
	}
	if !d.Type.IsValid() {
		return shared.Validation("Invalid opportunity type")
	}
	if !d.LeadSource.IsValid() {
		return shared.Validation("Invalid opportunity lead source")
	}
	return firstErr(
		validateMaxLength("opportunityName", d.OpportunityName, maxTitleLength),
		validatePercent("probability", d.Probability),
		validateMaxLength("nextStep", d.NextStep, maxTitleLength),
		validateMaxLength("description", d.Description, maxDescriptionLength),
	)
}
