package crm

import (
	"slices"
	"time"

	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Patches carry only the fields a caller wants to change; nil means "leave
// as is". For optional references a uuid.Nil value clears the reference.

// LeadPatch is a partial update of a lead
type LeadPatch struct {
	FirstName         *string
	LastName          *string
	Email             *string
	Phone             *string
	MobilePhone       *string
	Company           *string
	JobTitle          *string
	Website           *string
	Industry          *string
	Description       *string
	Address           *valueobject.Address
	LeadSource        *LeadSource
	LeadStatus        *LeadStatus
	Rating            *Rating
	LeadScore         *int
	AnnualRevenue     *decimal.Decimal
	NumberOfEmployees *int
	EmailOptOut       *bool
	DoNotCall         *bool
	Tags              *[]string
	OwnerID           *uuid.UUID
}

func (p LeadPatch) apply(d LeadDetails) (LeadDetails, []string) {
	var c changes
	setString(&d.FirstName, p.FirstName, "firstName", &c)
	setString(&d.LastName, p.LastName, "lastName", &c)
	setEmail(&d.Email, p.Email, "email", &c)
	setString(&d.Phone, p.Phone, "phone", &c)
	setString(&d.MobilePhone, p.MobilePhone, "mobilePhone", &c)
	setString(&d.Company, p.Company, "company", &c)
	setString(&d.JobTitle, p.JobTitle, "jobTitle", &c)
	setString(&d.Website, p.Website, "website", &c)
	setString(&d.Industry, p.Industry, "industry", &c)
	setString(&d.Description, p.Description, "description", &c)
	setAddress(&d.Address, p.Address, "address", &c)
	set(&d.LeadSource, p.LeadSource, "leadSource", &c)
	set(&d.LeadStatus, p.LeadStatus, "leadStatus", &c)
	set(&d.Rating, p.Rating, "rating", &c)
	set(&d.LeadScore, p.LeadScore, "leadScore", &c)
	setDecimal(&d.AnnualRevenue, p.AnnualRevenue, "annualRevenue", &c)
	setIntPtr(&d.NumberOfEmployees, p.NumberOfEmployees, "numberOfEmployees", &c)
	set(&d.EmailOptOut, p.EmailOptOut, "emailOptOut", &c)
	set(&d.DoNotCall, p.DoNotCall, "doNotCall", &c)
	setTags(&d.Tags, p.Tags, &c)
	return d, c
}

// AccountPatch is a partial update of an account
type AccountPatch struct {
	AccountName       *string
	AccountType       *AccountType
	Industry          *string
	Website           *string
	Phone             *string
	Email             *string
	Description       *string
	AnnualRevenue     *decimal.Decimal
	NumberOfEmployees *int
	Rating            *Rating
	BillingAddress    *valueobject.Address
	ShippingAddress   *valueobject.Address
	ParentAccountID   *uuid.UUID
	Tags              *[]string
	OwnerID           *uuid.UUID
}

func (p AccountPatch) apply(d AccountDetails) (AccountDetails, []string) {
	var c changes
	setString(&d.AccountName, p.AccountName, "accountName", &c)
	set(&d.AccountType, p.AccountType, "accountType", &c)
	setString(&d.Industry, p.Industry, "industry", &c)
	setString(&d.Website, p.Website, "website", &c)
	setString(&d.Phone, p.Phone, "phone", &c)
	setEmail(&d.Email, p.Email, "email", &c)
	setString(&d.Description, p.Description, "description", &c)
	setDecimal(&d.AnnualRevenue, p.AnnualRevenue, "annualRevenue", &c)
	setIntPtr(&d.NumberOfEmployees, p.NumberOfEmployees, "numberOfEmployees", &c)
	set(&d.Rating, p.Rating, "rating", &c)
	setAddress(&d.BillingAddress, p.BillingAddress, "billingAddress", &c)
	setAddress(&d.ShippingAddress, p.ShippingAddress, "shippingAddress", &c)
	setRef(&d.ParentAccountID, p.ParentAccountID, "parentAccount", &c)
	setTags(&d.Tags, p.Tags, &c)
	return d, c
}

// ContactPatch is a partial update of a contact
type ContactPatch struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	MobilePhone    *string
	JobTitle       *string
	Department     *string
	Description    *string
	AccountID      *uuid.UUID
	ReportsToID    *uuid.UUID
	MailingAddress *valueobject.Address
	LeadSource     *LeadSource
	EmailOptOut    *bool
	DoNotCall      *bool
	Tags           *[]string
	OwnerID        *uuid.UUID
}

func (p ContactPatch) apply(d ContactDetails) (ContactDetails, []string) {
	var c changes
	setString(&d.FirstName, p.FirstName, "firstName", &c)
	setString(&d.LastName, p.LastName, "lastName", &c)
	setEmail(&d.Email, p.Email, "email", &c)
	setString(&d.Phone, p.Phone, "phone", &c)
	setString(&d.MobilePhone, p.MobilePhone, "mobilePhone", &c)
	setString(&d.JobTitle, p.JobTitle, "jobTitle", &c)
	setString(&d.Department, p.Department, "department", &c)
	setString(&d.Description, p.Description, "description", &c)
	setRef(&d.AccountID, p.AccountID, "account", &c)
	setRef(&d.ReportsToID, p.ReportsToID, "reportsTo", &c)
	setAddress(&d.MailingAddress, p.MailingAddress, "mailingAddress", &c)
	set(&d.LeadSource, p.LeadSource, "leadSource", &c)
	set(&d.EmailOptOut, p.EmailOptOut, "emailOptOut", &c)
	set(&d.DoNotCall, p.DoNotCall, "doNotCall", &c)
	setTags(&d.Tags, p.Tags, &c)
	return d, c
}

// OpportunityPatch is a partial update of an opportunity
type OpportunityPatch struct {
	OpportunityName *string
	AccountID       *uuid.UUID
	ContactID       *uuid.UUID
	Amount          *decimal.Decimal
	CloseDate       *time.Time
	Stage           *Stage
	Probability     *int
	Type            *OpportunityType
	LeadSource      *OpportunitySource
	NextStep        *string
	Description     *string
	Tags            *[]string
	OwnerID         *uuid.UUID
}

func (p OpportunityPatch) apply(d OpportunityDetails) (OpportunityDetails, []string) {
	var c changes
	setString(&d.OpportunityName, p.OpportunityName, "opportunityName", &c)
	if p.AccountID != nil && *p.AccountID != d.AccountID {
		d.AccountID = *p.AccountID
		c = append(c, "account")
	}
	setRef(&d.ContactID, p.ContactID, "contact", &c)
	if p.Amount != nil && !p.Amount.Equal(d.Amount) {
		d.Amount = *p.Amount
		c = append(c, "amount")
	}
	if p.CloseDate != nil && !p.CloseDate.Equal(d.CloseDate) {
		d.CloseDate = *p.CloseDate
		c = append(c, "closeDate")
	}
	set(&d.Stage, p.Stage, "stage", &c)
	set(&d.Probability, p.Probability, "probability", &c)
	set(&d.Type, p.Type, "type", &c)
	set(&d.LeadSource, p.LeadSource, "leadSource", &c)
	setString(&d.NextStep, p.NextStep, "nextStep", &c)
	setString(&d.Description, p.Description, "description", &c)
	setTags(&d.Tags, p.Tags, &c)
	return d, c
}

type changes = []string

func set[T comparable](dst *T, v *T, name string, c *changes) {
	if v == nil || *dst == *v {
		return
	}
	*dst = *v
	*c = append(*c, name)
}

func setString(dst *string, v *string, name string, c *changes) {
	if v == nil {
		return
	}
	s := trim(*v)
	set(dst, &s, name, c)
}

func setEmail(dst *string, v *string, name string, c *changes) {
	if v == nil {
		return
	}
	s := NormalizeEmail(*v)
	set(dst, &s, name, c)
}

func setAddress(dst *valueobject.Address, v *valueobject.Address, name string, c *changes) {
	if v == nil || dst.Equals(*v) {
		return
	}
	*dst = *v
	*c = append(*c, name)
}

func setDecimal(dst **decimal.Decimal, v *decimal.Decimal, name string, c *changes) {
	if v == nil || (*dst != nil && (*dst).Equal(*v)) {
		return
	}
	val := *v
	*dst = &val
	*c = append(*c, name)
}

func setIntPtr(dst **int, v *int, name string, c *changes) {
	if v == nil || (*dst != nil && **dst == *v) {
		return
	}
	val := *v
	*dst = &val
	*c = append(*c, name)
}

// setRef updates an optional reference; uuid.Nil clears it
func setRef(dst **uuid.UUID, v *uuid.UUID, name string, c *changes) {
	if v == nil {
		return
	}
	if *v == uuid.Nil {
		if *dst != nil {
			*dst = nil
			*c = append(*c, name)
		}
		return
	}
	if *dst != nil && **dst == *v {
		return
	}
	id := *v
	*dst = &id
	*c = append(*c, name)
}

func setTags(dst *[]string, v *[]string, c *changes) {
	if v == nil {
		return
	}
	tags := normalizeTags(*v)
	if slices.Equal(*dst, tags) {
		return
	}
	*dst = tags
	*c = append(*c, "tags")
}
