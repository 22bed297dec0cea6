package crm

import (
	"github.com/crm/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConvertLeadRequest selects which records a conversion creates. Any field
// left out of the *Data blocks is copied from the lead.
type ConvertLeadRequest struct {
	CreateAccount     bool                    `json:"createAccount"`
	CreateContact     bool                    `json:"createContact"`
	CreateOpportunity bool                    `json:"createOpportunity"`
	AccountData       *ConvertAccountData     `json:"accountData"`
	ContactData       *ConvertContactData     `json:"contactData"`
	OpportunityData   *ConvertOpportunityData `json:"opportunityData"`
}

// ConvertAccountData overrides lead values on the new account
type ConvertAccountData struct {
	AccountName       string           `json:"accountName" binding:"max=200"`
	AccountType       string           `json:"accountType" binding:"omitempty,crmenum=accounttype"`
	Industry          string           `json:"industry" binding:"max=200"`
	Website           string           `json:"website" binding:"max=500"`
	Phone             string           `json:"phone" binding:"max=50"`
	Email             string           `json:"email" binding:"omitempty,email,max=254"`
	Description       string           `json:"description" binding:"max=5000"`
	AnnualRevenue     *decimal.Decimal `json:"annualRevenue"`
	NumberOfEmployees *int             `json:"numberOfEmployees" binding:"omitempty,min=0"`
	Rating            string           `json:"rating" binding:"omitempty,crmenum=rating"`
	BillingAddress    *AddressDTO      `json:"billingAddress"`
	ShippingAddress   *AddressDTO      `json:"shippingAddress"`
}

// ConvertContactData overrides lead values on the new contact. AccountID
// links the contact to an existing account when no account is created.
type ConvertContactData struct {
	FirstName      string      `json:"firstName" binding:"max=100"`
	LastName       string      `json:"lastName" binding:"max=100"`
	Email          string      `json:"email" binding:"omitempty,email,max=254"`
	Phone          string      `json:"phone" binding:"max=50"`
	MobilePhone    string      `json:"mobilePhone" binding:"max=50"`
	JobTitle       string      `json:"jobTitle" binding:"max=200"`
	Department     string      `json:"department" binding:"max=200"`
	Description    string      `json:"description" binding:"max=5000"`
	LeadSource     string      `json:"leadSource" binding:"omitempty,crmenum=leadsource"`
	MailingAddress *AddressDTO `json:"mailingAddress"`
	AccountID      *uuid.UUID  `json:"accountId"`
}

// ConvertOpportunityData describes the new opportunity. AccountID names an
// existing account and is required when no account is created.
type ConvertOpportunityData struct {
	Name        string           `json:"opportunityName" binding:"max=200"`
	Amount      *decimal.Decimal `json:"amount"`
	CloseDate   *Date            `json:"closeDate"`
	Stage       string           `json:"stage" binding:"omitempty,crmenum=stage"`
	Probability *int             `json:"probability" binding:"omitempty,min=0,max=100"`
	Type        string           `json:"type" binding:"omitempty,crmenum=opportunitytype"`
	NextStep    string           `json:"nextStep" binding:"max=200"`
	Description string           `json:"description" binding:"max=5000"`
	AccountID   *uuid.UUID       `json:"accountId"`
}

func (d *ConvertAccountData) toDomain() (crm.AccountData, error) {
	if d == nil {
		return crm.AccountData{}, nil
	}
	billing, err := d.BillingAddress.toValueObject()
	if err != nil {
		return crm.AccountData{}, err
	}
	shipping, err := d.ShippingAddress.toValueObject()
	if err != nil {
		return crm.AccountData{}, err
	}
	return crm.AccountData{
		AccountName:       d.AccountName,
		AccountType:       crm.AccountType(d.AccountType),
		Industry:          d.Industry,
		Website:           d.Website,
		Phone:             d.Phone,
		Email:             d.Email,
		Description:       d.Description,
		AnnualRevenue:     d.AnnualRevenue,
		NumberOfEmployees: d.NumberOfEmployees,
		Rating:            crm.Rating(d.Rating),
		BillingAddress:    billing,
		ShippingAddress:   shipping,
	}, nil
}

func (d *ConvertContactData) toDomain() (crm.ContactData, error) {
	if d == nil {
		return crm.ContactData{}, nil
	}
	addr, err := d.MailingAddress.toValueObject()
	if err != nil {
		return crm.ContactData{}, err
	}
	return crm.ContactData{
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		Phone:          d.Phone,
		MobilePhone:    d.MobilePhone,
		JobTitle:       d.JobTitle,
		Department:     d.Department,
		Description:    d.Description,
		LeadSource:     crm.LeadSource(d.LeadSource),
		MailingAddress: addr,
		AccountID:      d.AccountID,
	}, nil
}

func (d *ConvertOpportunityData) toDomain() crm.OpportunityData {
	if d == nil {
		return crm.OpportunityData{}
	}
	return crm.OpportunityData{
		Name:        d.Name,
		Amount:      d.Amount,
		CloseDate:   d.CloseDate.timePtr(),
		Stage:       crm.Stage(d.Stage),
		Probability: d.Probability,
		Type:        crm.OpportunityType(d.Type),
		NextStep:    d.NextStep,
		Description: d.Description,
		AccountID:   d.AccountID,
	}
}

// ConvertLeadResult is the converted lead plus the records the conversion
// created. Records that were not requested are nil.
type ConvertLeadResult struct {
	Lead        LeadResponse         `json:"lead"`
	Account     *AccountResponse     `json:"account"`
	Contact     *ContactResponse     `json:"contact"`
	Opportunity *OpportunityResponse `json:"opportunity"`
}
