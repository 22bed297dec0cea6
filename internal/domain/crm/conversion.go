package crm

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountData overrides lead fields when a conversion creates an account
type AccountData struct {
	AccountName       string
	AccountType       AccountType
	Industry          string
	Website           string
	Phone             string
	Email             string
	Description       string
	AnnualRevenue     *decimal.Decimal
	NumberOfEmployees *int
	Rating            Rating
	BillingAddress    valueobject.Address
	ShippingAddress   valueobject.Address
}

// ContactData overrides lead fields when a conversion creates a contact.
// AccountID links the contact to an existing account when none is created.
type ContactData struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	MobilePhone    string
	JobTitle       string
	Department     string
	Description    string
	LeadSource     LeadSource
	MailingAddress valueobject.Address
	AccountID      *uuid.UUID
}

// OpportunityData describes the opportunity a conversion creates. AccountID
// names an existing account when the conversion does not create one.
type OpportunityData struct {
	Name        string
	Amount      *decimal.Decimal
	CloseDate   *time.Time
	Stage       Stage
	Probability *int
	Type        OpportunityType
	NextStep    string
	Description string
	AccountID   *uuid.UUID
}

// OpportunityDefaults are applied to converted opportunities
type OpportunityDefaults struct {
	Stage       Stage
	Probability int
}

// DefaultConversionOpportunityDefaults returns Qualification at 50%
func DefaultConversionOpportunityDefaults() OpportunityDefaults {
	return OpportunityDefaults{Stage: StageQualification, Probability: 50}
}

// BuildAccountFromLead maps a lead onto account fields. Each field takes the
// supplied value when present, otherwise the lead's value.
func BuildAccountFromLead(lead *Lead, data AccountData) AccountDetails {
	d := AccountDetails{
		AccountName:       pick(data.AccountName, lead.Company),
		AccountType:       data.AccountType,
		Industry:          pick(data.Industry, lead.Industry),
		Website:           pick(data.Website, lead.Website),
		Phone:             pick(data.Phone, lead.Phone),
		Email:             pick(data.Email, lead.Email),
		Description:       pick(data.Description, lead.Description),
		AnnualRevenue:     data.AnnualRevenue,
		NumberOfEmployees: data.NumberOfEmployees,
		Rating:            data.Rating,
		BillingAddress:    data.BillingAddress.WithFallback(lead.Address),
		ShippingAddress:   data.ShippingAddress,
		Tags:              append([]string(nil), lead.Tags...),
	}
	if d.AnnualRevenue == nil && lead.AnnualRevenue != nil {
		v := *lead.AnnualRevenue
		d.AnnualRevenue = &v
	}
	if d.NumberOfEmployees == nil && lead.NumberOfEmployees != nil {
		v := *lead.NumberOfEmployees
		d.NumberOfEmployees = &v
	}
	if d.Rating == "" {
		d.Rating = lead.Rating
	}
	return d
}

// BuildContactFromLead maps a lead onto contact fields with the same
// per-field fallback as BuildAccountFromLead.
func BuildContactFromLead(lead *Lead, data ContactData) ContactDetails {
	d := ContactDetails{
		FirstName:      pick(data.FirstName, lead.FirstName),
		LastName:       pick(data.LastName, lead.LastName),
		Email:          pick(data.Email, lead.Email),
		Phone:          pick(data.Phone, lead.Phone),
		MobilePhone:    pick(data.MobilePhone, lead.MobilePhone),
		JobTitle:       pick(data.JobTitle, lead.JobTitle),
		Department:     trim(data.Department),
		Description:    trim(data.Description),
		LeadSource:     data.LeadSource,
		MailingAddress: data.MailingAddress.WithFallback(lead.Address),
		EmailOptOut:    lead.EmailOptOut,
		DoNotCall:      lead.DoNotCall,
		Tags:           append([]string(nil), lead.Tags...),
	}
	if d.LeadSource == "" {
		d.LeadSource = lead.LeadSource
	}
	return d
}

// BuildOpportunityFromLead resolves the opportunity of a conversion. The name
// falls back to the lead's company, then its full name; the amount defaults
// to zero and stage/probability to defaults. A close date is required.
func BuildOpportunityFromLead(lead *Lead, data OpportunityData, accountID uuid.UUID, contactID *uuid.UUID, defaults OpportunityDefaults) (OpportunityDetails, error) {
	if data.CloseDate == nil || data.CloseDate.IsZero() {
		return OpportunityDetails{}, shared.Validation("opportunityData.closeDate is required")
	}
	if accountID == uuid.Nil {
		return OpportunityDetails{}, shared.Validation("An account is required to create an opportunity")
	}

	name := pick(data.Name, pick(lead.Company, lead.FullName()))
	amount := decimal.Zero
	if data.Amount != nil {
		amount = *data.Amount
	}
	stage := data.Stage
	if stage == "" {
		stage = defaults.Stage
	}
	probability := defaults.Probability
	if data.Probability != nil {
		probability = *data.Probability
	}
	leadID := lead.ID

	return OpportunityDetails{
		OpportunityName: name,
		AccountID:       accountID,
		ContactID:       contactID,
		LeadID:          &leadID,
		Amount:          amount,
		CloseDate:       *data.CloseDate,
		Stage:           stage,
		Probability:     probability,
		Type:            data.Type,
		LeadSource:      leadSourceToOpportunitySource(lead.LeadSource),
		NextStep:        trim(data.NextStep),
		Description:     trim(data.Description),
	}, nil
}

func leadSourceToOpportunitySource(s LeadSource) OpportunitySource {
	switch s {
	case LeadSourceWebsite:
		return OpportunitySourceWeb
	case LeadSourceColdCall:
		return OpportunitySourcePhoneInquiry
	case LeadSourceReferral, LeadSourcePartner:
		return OpportunitySourcePartnerReferral
	default:
		return OpportunitySourceOther
	}
}

// ErrConversionInProgress is returned when another request holds the
// conversion lock of the same lead
var ErrConversionInProgress = shared.NewDomainError(shared.CodeConcurrencyConflict, "Lead conversion is already in progress")
