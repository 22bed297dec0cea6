package crm

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dateLayout is the calendar date format accepted for close dates
const dateLayout = "2006-01-02"

// Date is a calendar date that also accepts full RFC 3339 timestamps
type Date struct {
	time.Time
}

// UnmarshalJSON accepts "2006-01-02" or RFC 3339
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return shared.Validation("date must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return shared.Validation("date must be formatted as YYYY-MM-DD")
	}
	d.Time = t.UTC()
	return nil
}

// MarshalJSON renders the date as YYYY-MM-DD
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) timePtr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// AddressDTO is the wire form of an address
type AddressDTO struct {
	Street  string `json:"street" binding:"max=200"`
	City    string `json:"city" binding:"max=200"`
	State   string `json:"state" binding:"max=200"`
	Country string `json:"country" binding:"max=200"`
	ZipCode string `json:"zipCode" binding:"max=200"`
}

func (a *AddressDTO) toValueObject() (valueobject.Address, error) {
	if a == nil {
		return valueobject.EmptyAddress(), nil
	}
	addr, err := valueobject.NewAddress(a.Street, a.City, a.State, a.Country, a.ZipCode)
	if err != nil {
		return valueobject.Address{}, shared.Validation(err.Error())
	}
	return addr, nil
}

func toAddressDTO(a valueobject.Address) AddressDTO {
	return AddressDTO{
		Street:  a.Street(),
		City:    a.City(),
		State:   a.State(),
		Country: a.Country(),
		ZipCode: a.ZipCode(),
	}
}

func addressPatch(a *AddressDTO) (*valueobject.Address, error) {
	if a == nil {
		return nil, nil
	}
	addr, err := a.toValueObject()
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// ListQuery carries the paging and search parameters common to list endpoints
type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"orderBy" binding:"omitempty,max=50"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"omitempty,max=200"`
}

func (q ListQuery) toFilter() shared.Filter {
	return shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   strings.TrimSpace(q.Search),
	}.Normalize()
}

// RecordMeta is the ownership block included in every record response
type RecordMeta struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenantId"`
	OwnerID        uuid.UUID  `json:"ownerId"`
	CreatedBy      *uuid.UUID `json:"createdBy,omitempty"`
	LastModifiedBy *uuid.UUID `json:"lastModifiedBy,omitempty"`
	IsActive       bool       `json:"isActive"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func toRecordMeta(r *crm.Record) RecordMeta {
	return RecordMeta{
		ID:             r.ID,
		TenantID:       r.TenantID,
		OwnerID:        r.OwnerID,
		CreatedBy:      r.CreatedBy,
		LastModifiedBy: r.LastModifiedBy,
		IsActive:       r.IsActive,
		Version:        r.Version,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func ownerOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func tagsOrNil(tags []string) *[]string {
	if tags == nil {
		return nil
	}
	return &tags
}

// ---------------------------------------------------------------------------
// Lead
// ---------------------------------------------------------------------------

// CreateLeadRequest creates a lead. TenantID is only honoured for platform operators.
type CreateLeadRequest struct {
	TenantID          *uuid.UUID       `json:"tenantId"`
	OwnerID           *uuid.UUID       `json:"ownerId"`
	FirstName         string           `json:"firstName" binding:"max=100"`
	LastName          string           `json:"lastName" binding:"max=100"`
	Email             string           `json:"email" binding:"omitempty,email,max=254"`
	Phone             string           `json:"phone" binding:"max=50"`
	MobilePhone       string           `json:"mobilePhone" binding:"max=50"`
	Company           string           `json:"company" binding:"max=200"`
	JobTitle          string           `json:"jobTitle" binding:"max=200"`
	Website           string           `json:"website" binding:"max=500"`
	Industry          string           `json:"industry" binding:"max=200"`
	Description       string           `json:"description" binding:"max=5000"`
	Address           *AddressDTO      `json:"address"`
	LeadSource        string           `json:"leadSource" binding:"omitempty,crmenum=leadsource"`
	LeadStatus        string           `json:"leadStatus" binding:"omitempty,crmenum=leadstatus"`
	Rating            string           `json:"rating" binding:"omitempty,crmenum=rating"`
	LeadScore         int              `json:"leadScore" binding:"min=0,max=100"`
	AnnualRevenue     *decimal.Decimal `json:"annualRevenue"`
	NumberOfEmployees *int             `json:"numberOfEmployees" binding:"omitempty,min=0"`
	EmailOptOut       bool             `json:"emailOptOut"`
	DoNotCall         bool             `json:"doNotCall"`
	Tags              []string         `json:"tags" binding:"omitempty,max=50,dive,max=50"`
}

func (r CreateLeadRequest) toDetails() (crm.LeadDetails, error) {
	addr, err := r.Address.toValueObject()
	if err != nil {
		return crm.LeadDetails{}, err
	}
	return crm.LeadDetails{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		Phone:             r.Phone,
		MobilePhone:       r.MobilePhone,
		Company:           r.Company,
		JobTitle:          r.JobTitle,
		Website:           r.Website,
		Industry:          r.Industry,
		Description:       r.Description,
		Address:           addr,
		LeadSource:        crm.LeadSource(r.LeadSource),
		LeadStatus:        crm.LeadStatus(r.LeadStatus),
		Rating:            crm.Rating(r.Rating),
		LeadScore:         r.LeadScore,
		AnnualRevenue:     r.AnnualRevenue,
		NumberOfEmployees: r.NumberOfEmployees,
		EmailOptOut:       r.EmailOptOut,
		DoNotCall:         r.DoNotCall,
		Tags:              r.Tags,
	}, nil
}

// UpdateLeadRequest changes the fields that are present
type UpdateLeadRequest struct {
	OwnerID           *uuid.UUID       `json:"ownerId"`
	FirstName         *string          `json:"firstName" binding:"omitempty,max=100"`
	LastName          *string          `json:"lastName" binding:"omitempty,max=100"`
	Email             *string          `json:"email" binding:"omitempty,max=254"`
	Phone             *string          `json:"phone" binding:"omitempty,max=50"`
	MobilePhone       *string          `json:"mobilePhone" binding:"omitempty,max=50"`
	Company           *string          `json:"company" binding:"omitempty,max=200"`
	JobTitle          *string          `json:"jobTitle" binding:"omitempty,max=200"`
	Website           *string          `json:"website" binding:"omitempty,max=500"`
	Industry          *string          `json:"industry" binding:"omitempty,max=200"`
	Description       *string          `json:"description" binding:"omitempty,max=5000"`
	Address           *AddressDTO      `json:"address"`
	LeadSource        *string          `json:"leadSource" binding:"omitempty,crmenum=leadsource"`
	LeadStatus        *string          `json:"leadStatus" binding:"omitempty,crmenum=leadstatus"`
	Rating            *string          `json:"rating" binding:"omitempty,crmenum=rating"`
	LeadScore         *int             `json:"leadScore" binding:"omitempty,min=0,max=100"`
	AnnualRevenue     *decimal.Decimal `json:"annualRevenue"`
	NumberOfEmployees *int             `json:"numberOfEmployees" binding:"omitempty,min=0"`
	EmailOptOut       *bool            `json:"emailOptOut"`
	DoNotCall         *bool            `json:"doNotCall"`
	Tags              []string         `json:"tags" binding:"omitempty,max=50,dive,max=50"`
}

func (r UpdateLeadRequest) toPatch() (crm.LeadPatch, error) {
	addr, err := addressPatch(r.Address)
	if err != nil {
		return crm.LeadPatch{}, err
	}
	return crm.LeadPatch{
		OwnerID:           r.OwnerID,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		Phone:             r.Phone,
		MobilePhone:       r.MobilePhone,
		Company:           r.Company,
		JobTitle:          r.JobTitle,
		Website:           r.Website,
		Industry:          r.Industry,
		Description:       r.Description,
		Address:           addr,
		LeadSource:        enumPtr[crm.LeadSource](r.LeadSource),
		LeadStatus:        enumPtr[crm.LeadStatus](r.LeadStatus),
		Rating:            enumPtr[crm.Rating](r.Rating),
		LeadScore:         r.LeadScore,
		AnnualRevenue:     r.AnnualRevenue,
		NumberOfEmployees: r.NumberOfEmployees,
		EmailOptOut:       r.EmailOptOut,
		DoNotCall:         r.DoNotCall,
		Tags:              tagsOrNil(r.Tags),
	}, nil
}

func enumPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}

// LeadListFilter holds the lead list query parameters
type LeadListFilter struct {
	ListQuery
	Status      string `form:"status" binding:"omitempty,crmenum=leadstatus"`
	Source      string `form:"source" binding:"omitempty,crmenum=leadsource"`
	Rating      string `form:"rating" binding:"omitempty,crmenum=rating"`
	OwnerID     string `form:"ownerId" binding:"omitempty,uuid"`
	IsConverted *bool  `form:"isConverted"`
}

// LeadResponse is the wire form of a lead
type LeadResponse struct {
	RecordMeta
	FirstName         string           `json:"firstName"`
	LastName          string           `json:"lastName"`
	FullName          string           `json:"fullName"`
	Email             string           `json:"email"`
	Phone             string           `json:"phone"`
	MobilePhone       string           `json:"mobilePhone"`
	Company           string           `json:"company"`
	JobTitle          string           `json:"jobTitle"`
	Website           string           `json:"website"`
	Industry          string           `json:"industry"`
	Description       string           `json:"description"`
	Address           AddressDTO       `json:"address"`
	LeadSource        string           `json:"leadSource"`
	LeadStatus        string           `json:"leadStatus"`
	Rating            string           `json:"rating"`
	LeadScore         int              `json:"leadScore"`
	AnnualRevenue     *decimal.Decimal `json:"annualRevenue"`
	NumberOfEmployees *int             `json:"numberOfEmployees"`
	EmailOptOut       bool             `json:"emailOptOut"`
	DoNotCall         bool             `json:"doNotCall"`
	Tags              []string         `json:"tags"`
	IsConverted       bool             `json:"isConverted"`
	ConvertedDate     *time.Time       `json:"convertedDate"`
	ConvertedTo       crm.ConvertedTo  `json:"convertedTo"`
}

// ToLeadResponse converts a domain lead
func ToLeadResponse(l *crm.Lead) LeadResponse {
	return LeadResponse{
		RecordMeta:        toRecordMeta(&l.Record),
		FirstName:         l.FirstName,
		LastName:          l.LastName,
		FullName:          l.FullName(),
		Email:             l.Email,
		Phone:             l.Phone,
		MobilePhone:       l.MobilePhone,
		Company:           l.Company,
		JobTitle:          l.JobTitle,
		Website:           l.Website,
		Industry:          l.Industry,
		Description:       l.Description,
		Address:           toAddressDTO(l.Address),
		LeadSource:        string(l.LeadSource),
		LeadStatus:        string(l.LeadStatus),
		Rating:            string(l.Rating),
		LeadScore:         l.LeadScore,
		AnnualRevenue:     l.AnnualRevenue,
		NumberOfEmployees: l.NumberOfEmployees,
		EmailOptOut:       l.EmailOptOut,
		DoNotCall:         l.DoNotCall,
		Tags:              l.Tags,
		IsConverted:       l.IsConverted,
		ConvertedDate:     l.ConvertedDate,
		ConvertedTo:       l.ConvertedTo,
	}
}

// ---------------------------------------------------------------------------
// Account
// ---------------------------------------------------------------------------

// CreateAccountRequest creates an account
type CreateAccountRequest struct {
	TenantID          *uuid.UUID       `json:"tenantId"`
	OwnerID           *uuid.UUID       `json:"ownerId"`
	AccountName       string           `json:"accountName" binding:"required,max=200"`
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
	ParentAccountID   *uuid.UUID       `json:"parentAccountId"`
	Tags              []string         `json:"tags" binding:"omitempty,max=50,dive,max=50"`
}

func (r CreateAccountRequest) toDetails() (crm.AccountDetails, error) {
	billing, err := r.BillingAddress.toValueObject()
	if err != nil {
		return crm.AccountDetails{}, err
	}
	shipping, err := r.ShippingAddress.toValueObject()
	if err != nil {
		return crm.AccountDetails{}, err
	}
	return crm.AccountDetails{
		AccountName:       r.AccountName,
		AccountType:       crm.AccountType(r.AccountType),
		Industry:          r.Industry,
		Website:           r.Website,
		Phone:             r.Phone,
		Email:             r.Email,
		Description:       r.Description,
		AnnualRevenue:     r.AnnualRevenue,
		NumberOfEmployees: r.NumberOfEmployees,
		Rating:            crm.Rating(r.Rating),
		BillingAddress:    billing,
		ShippingAddress:   shipping,
		ParentAccountID:   r.ParentAccountID,
		Tags:              r.Tags,
	}, nil
}

// UpdateAccountRequest changes the fields that are present. A nil UUID
// parentAccountId detaches the account from its parent.
type UpdateAccountRequest struct {
	OwnerID           *uuid.UUID       `json:"ownerId"`
	AccountName       *string          `json:"accountName" binding:"omitempty,min=1,max=200"`
	AccountType       *string          `json:"accountType" binding:"omitempty,crmenum=accounttype"`
	Industry          *string          `json:"industry" binding:"omitempty,max=200"`
	Website           *string          `json:"website" binding:"omitempty,max=500"`
	Phone             *string          `json:"phone" binding:"omitempty,max=50"`
	Email             *string          `json:"email" binding:"omitempty,max=254"`
	Description       *string          `json:"description" binding:"omitempty,max=5000"`
	AnnualRevenue     *decimal.Decimal `json:"annualRevenue"`
	NumberOfEmployees *int             `json:"numberOfEmployees" binding:"omitempty,min=0"`
	Rating            *string          `json:"rating" binding:"omitempty,crmenum=rating"`
	BillingAddress    *AddressDTO      `json:"billingAddress"`
	ShippingAddress   *AddressDTO      `json:"shippingAddress"`
	ParentAccountID   *uuid.UUID       `json:"parentAccountId"`
	Tags              []string         `json:"tags" binding:"omitempty,max=50,dive,max=50"`
}

func (r UpdateAccountRequest) toPatch() (crm.AccountPatch, error) {
	billing, err := addressPatch(r.BillingAddress)
	if err != nil {
		return crm.AccountPatch{}, err
	}
	shipping, err := addressPatch(r.ShippingAddress)
	if err != nil {
		return crm.AccountPatch{}, err
	}
	return crm.AccountPatch{
		OwnerID:           r.OwnerID,
		AccountName:       r.AccountName,
		AccountType:       enumPtr[crm.AccountType](r.AccountType),
		Industry:          r.Industry,
		Website:           r.Website,
		Phone:             r.Phone,
		Email:             r.Email,
		Description:       r.Description,
		AnnualRevenue:     r.AnnualRevenue,
		NumberOfEmployees: r.NumberOfEmployees,
		Rating:            enumPtr[crm.Rating](r.Rating),
		BillingAddress:    billing,
		ShippingAddress:   shipping,
		ParentAccountID:   r.ParentAccountID,
		Tags:              tagsOrNil(r.Tags),
	}, nil
}

// AccountListFilter holds the account list query parameters
type AccountListFilter struct {
	ListQuery
	AccountType string `form:"accountType" binding:"omitempty,crmenum=accounttype"`
	Industry    string `form:"industry" binding:"omitempty,max=200"`
	OwnerID     string `form:"ownerId" binding:"omitempty,uuid"`
}

// AccountResponse is the wire form of an account
type AccountResponse struct {
	RecordMeta
	AccountNumber     string           `json:"accountNumber"`
	AccountName       string           `json:"accountName"`
	AccountType       string           `json:"accountType"`
	Industry          string           `json:"industry"`
	Website           string           `json:"website"`
	Phone             string           `json:"phone"`
	Email             string           `json:"email"`
	Description       string           `json:"description"`
	AnnualRevenue     *decimal.Decimal `json:"annualRevenue"`
	NumberOfEmployees *int             `json:"numberOfEmployees"`
	Rating            string           `json:"rating"`
	BillingAddress    AddressDTO       `json:"billingAddress"`
	ShippingAddress   AddressDTO       `json:"shippingAddress"`
	ParentAccountID   *uuid.UUID       `json:"parentAccountId"`
	Tags              []string         `json:"tags"`
}

// ToAccountResponse converts a domain account
func ToAccountResponse(a *crm.Account) AccountResponse {
	return AccountResponse{
		RecordMeta:        toRecordMeta(&a.Record),
		AccountNumber:     a.AccountNumber,
		AccountName:       a.AccountName,
		AccountType:       string(a.AccountType),
		Industry:          a.Industry,
		Website:           a.Website,
		Phone:             a.Phone,
		Email:             a.Email,
		Description:       a.Description,
		AnnualRevenue:     a.AnnualRevenue,
		NumberOfEmployees: a.NumberOfEmployees,
		Rating:            string(a.Rating),
		BillingAddress:    toAddressDTO(a.BillingAddress),
		ShippingAddress:   toAddressDTO(a.ShippingAddress),
		ParentAccountID:   a.ParentAccountID,
		Tags:              a.Tags,
	}
}

// ---------------------------------------------------------------------------
// Contact
// ---------------------------------------------------------------------------

// CreateContactRequest creates a contact
type CreateContactRequest struct {
	TenantID       *uuid.UUID  `json:"tenantId"`
	OwnerID        *uuid.UUID  `json:"ownerId"`
	FirstName      string      `json:"firstName" binding:"required,max=100"`
	LastName       string      `json:"lastName" binding:"required,max=100"`
	Email          string      `json:"email" binding:"omitempty,email,max=254"`
	Phone          string      `json:"phone" binding:"max=50"`
	MobilePhone    string      `json:"mobilePhone" binding:"max=50"`
	JobTitle       string      `json:"jobTitle" binding:"max=200"`
	Department     string      `json:"department" binding:"max=200"`
	Description    string      `json:"description" binding:"max=5000"`
	AccountID      *uuid.UUID  `json:"accountId"`
	ReportsToID    *uuid.UUID  `json:"reportsToId"`
	MailingAddress *AddressDTO `json:"mailingAddress"`
	LeadSource     string      `json:"leadSource" binding:"omitempty,crmenum=leadsource"`
	EmailOptOut    bool        `json:"emailOptOut"`
	DoNotCall      bool        `json:"doNotCall"`
	Tags           []string    `json:"tags" binding:"omitempty,max=50,dive,max=50"`
}

func (r CreateContactRequest) toDetails() (crm.ContactDetails, error) {
	addr, err := r.MailingAddress.toValueObject()
	if err != nil {
		return crm.ContactDetails{}, err
	}
	return crm.ContactDetails{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		MobilePhone:    r.MobilePhone,
		JobTitle:       r.JobTitle,
		Department:     r.Department,
		Description:    r.Description,
		AccountID:      r.AccountID,
		ReportsToID:    r.ReportsToID,
		MailingAddress: addr,
		LeadSource:     crm.LeadSource(r.LeadSource),
		EmailOptOut:    r.EmailOptOut,
		DoNotCall:      r.DoNotCall,
		Tags:           r.Tags,
	}, nil
}

// UpdateContactRequest changes the fields that are present. A nil UUID
// accountId or reportsToId clears the reference.
type UpdateContactRequest struct {
	OwnerID        *uuid.UUID  `json:"ownerId"`
	FirstName      *string     `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName       *string     `json:"lastName" binding:"omitempty,min=1,max=100"`
	Email          *string     `json:"email" binding:"omitempty,max=254"`
	Phone          *string     `json:"phone" binding:"omitempty,max=50"`
	MobilePhone    *string     `json:"mobilePhone" binding:"omitempty,max=50"`
	JobTitle       *string     `json:"jobTitle" binding:"omitempty,max=200"`
	Department     *string     `json:"department" binding:"omitempty,max=200"`
	Description    *string     `json:"description" binding:"omitempty,max=5000"`
	AccountID      *uuid.UUID  `json:"accountId"`
	ReportsToID    *uuid.UUID  `json:"reportsToId"`
	MailingAddress *AddressDTO `json:"mailingAddress"`
	LeadSource     *string     `json:"leadSource" binding:"omitempty,crmenum=leadsource"`
	EmailOptOut    *bool       `json:"emailOptOut"`
	DoNotCall      *bool       `json:"doNotCall"`
	Tags           []string    `json:"tags" binding:"omitempty,max=50,dive,max=50"`
}

func (r UpdateContactRequest) toPatch() (crm.ContactPatch, error) {
	addr, err := addressPatch(r.MailingAddress)
	if err != nil {
		return crm.ContactPatch{}, err
	}
	return crm.ContactPatch{
		OwnerID:        r.OwnerID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		MobilePhone:    r.MobilePhone,
		JobTitle:       r.JobTitle,
		Department:     r.Department,
		Description:    r.Description,
		AccountID:      r.AccountID,
		ReportsToID:    r.ReportsToID,
		MailingAddress: addr,
		LeadSource:     enumPtr[crm.LeadSource](r.LeadSource),
		EmailOptOut:    r.EmailOptOut,
		DoNotCall:      r.DoNotCall,
		Tags:           tagsOrNil(r.Tags),
	}, nil
}

// ContactListFilter holds the contact list query parameters
type ContactListFilter struct {
	ListQuery
	AccountID string `form:"accountId" binding:"omitempty,uuid"`
	OwnerID   string `form:"ownerId" binding:"omitempty,uuid"`
}

// ContactResponse is the wire form of a contact
type ContactResponse struct {
	RecordMeta
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	FullName       string     `json:"fullName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	MobilePhone    string     `json:"mobilePhone"`
	JobTitle       string     `json:"jobTitle"`
	Department     string     `json:"department"`
	Description    string     `json:"description"`
	AccountID      *uuid.UUID `json:"accountId"`
	ReportsToID    *uuid.UUID `json:"reportsToId"`
	MailingAddress AddressDTO `json:"mailingAddress"`
	LeadSource     string     `json:"leadSource"`
	EmailOptOut    bool       `json:"emailOptOut"`
	DoNotCall      bool       `json:"doNotCall"`
	Tags           []string   `json:"tags"`
}

// ToContactResponse converts a domain contact
func ToContactResponse(c *crm.Contact) ContactResponse {
	return ContactResponse{
		RecordMeta:     toRecordMeta(&c.Record),
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		FullName:       c.FullName(),
		Email:          c.Email,
		Phone:          c.Phone,
		MobilePhone:    c.MobilePhone,
		JobTitle:       c.JobTitle,
		Department:     c.Department,
		Description:    c.Description,
		AccountID:      c.AccountID,
		ReportsToID:    c.ReportsToID,
		MailingAddress: toAddressDTO(c.MailingAddress),
		LeadSource:     string(c.LeadSource),
		EmailOptOut:    c.EmailOptOut,
		DoNotCall:      c.DoNotCall,
		Tags:           c.Tags,
	}
}

// ---------------------------------------------------------------------------
// Opportunity
// ---------------------------------------------------------------------------

// CreateOpportunityRequest creates an opportunity
type CreateOpportunityRequest struct {
	TenantID        *uuid.UUID       `json:"tenantId"`
	OwnerID         *uuid.UUID       `json:"ownerId"`
	OpportunityName string           `json:"opportunityName" binding:"required,max=200"`
	AccountID       uuid.UUID        `json:"accountId" binding:"required"`
	ContactID       *uuid.UUID       `json:"contactId"`
	Amount          *decimal.Decimal `json:"amount"`
	CloseDate       *Date            `json:"closeDate" binding:"required"`
	Stage           string           `json:"stage" binding:"omitempty,crmenum=stage"`
	Probability     *int             `json:"probability" binding:"omitempty,min=0,max=100"`
	Type            string           `json:"type" binding:"omitempty,crmenum=opportunitytype"`
	LeadSource      string           `json:"leadSource" binding:"omitempty,crmenum=opportunitysource"`
	NextStep        string           `json:"nextStep" binding:"max=200"`
	Description     string           `json:"description" binding:"max=5000"`
	Tags            []string         `json:"tags" binding:"omitempty,max=50,dive,max=50"`
}

func (r CreateOpportunityRequest) toDetails() crm.OpportunityDetails {
	amount := decimal.Zero
	if r.Amount != nil {
		amount = *r.Amount
	}
	stage := crm.Stage(r.Stage)
	if stage == "" {
		stage = crm.DefaultOpportunityStage
	}
	probability := crm.DefaultOpportunityProbability
	if r.Probability != nil {
		probability = *r.Probability
	}
	var closeDate time.Time
	if t := r.CloseDate.timePtr(); t != nil {
		closeDate = *t
	}
	return crm.OpportunityDetails{
		OpportunityName: r.OpportunityName,
		AccountID:       r.AccountID,
		ContactID:       r.ContactID,
		Amount:          amount,
		CloseDate:       closeDate,
		Stage:           stage,
		Probability:     probability,
		Type:            crm.OpportunityType(r.Type),
		LeadSource:      crm.OpportunitySource(r.LeadSource),
		NextStep:        r.NextStep,
		Description:     r.Description,
		Tags:            r.Tags,
	}
}

// UpdateOpportunityRequest changes the fields that are present
type UpdateOpportunityRequest struct {
	OwnerID         *uuid.UUID       `json:"ownerId"`
	OpportunityName *string          `json:"opportunityName" binding:"omitempty,min=1,max=200"`
	AccountID       *uuid.UUID       `json:"accountId"`
	ContactID       *uuid.UUID       `json:"contactId"`
	Amount          *decimal.Decimal `json:"amount"`
	CloseDate       *Date            `json:"closeDate"`
	Stage           *string          `json:"stage" binding:"omitempty,crmenum=stage"`
	Probability     *int             `json:"probability" binding:"omitempty,min=0,max=100"`
	Type            *string          `json:"type" binding:"omitempty,crmenum=opportunitytype"`
	LeadSource      *string          `json:"leadSource" binding:"omitempty,crmenum=opportunitysource"`
	NextStep        *string          `json:"nextStep" binding:"omitempty,max=200"`
	Description     *string          `json:"description" binding:"omitempty,max=5000"`
	Tags            []string         `json:"tags" binding:"omitempty,max=50,dive,max=50"`
}

func (r UpdateOpportunityRequest) toPatch() crm.OpportunityPatch {
	return crm.OpportunityPatch{
		OwnerID:         r.OwnerID,
		OpportunityName: r.OpportunityName,
		AccountID:       r.AccountID,
		ContactID:       r.ContactID,
		Amount:          r.Amount,
		CloseDate:       r.CloseDate.timePtr(),
		Stage:           enumPtr[crm.Stage](r.Stage),
		Probability:     r.Probability,
		Type:            enumPtr[crm.OpportunityType](r.Type),
		LeadSource:      enumPtr[crm.OpportunitySource](r.LeadSource),
		NextStep:        r.NextStep,
		Description:     r.Description,
		Tags:            tagsOrNil(r.Tags),
	}
}

// OpportunityListFilter holds the opportunity list query parameters
type OpportunityListFilter struct {
	ListQuery
	Stage     string `form:"stage" binding:"omitempty,crmenum=stage"`
	AccountID string `form:"accountId" binding:"omitempty,uuid"`
	OwnerID   string `form:"ownerId" binding:"omitempty,uuid"`
}

// OpportunityResponse is the wire form of an opportunity
type OpportunityResponse struct {
	RecordMeta
	OpportunityName string          `json:"opportunityName"`
	AccountID       uuid.UUID       `json:"accountId"`
	ContactID       *uuid.UUID      `json:"contactId"`
	LeadID          *uuid.UUID      `json:"leadId"`
	Amount          decimal.Decimal `json:"amount"`
	WeightedAmount  decimal.Decimal `json:"weightedAmount"`
	CloseDate       Date            `json:"closeDate"`
	Stage           string          `json:"stage"`
	Probability     int             `json:"probability"`
	Type            string          `json:"type"`
	LeadSource      string          `json:"leadSource"`
	NextStep        string          `json:"nextStep"`
	Description     string          `json:"description"`
	Tags            []string        `json:"tags"`
}

// ToOpportunityResponse converts a domain opportunity
func ToOpportunityResponse(o *crm.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		RecordMeta:      toRecordMeta(&o.Record),
		OpportunityName: o.OpportunityName,
		AccountID:       o.AccountID,
		ContactID:       o.ContactID,
		LeadID:          o.LeadID,
		Amount:          o.Amount,
		WeightedAmount:  o.WeightedAmount(),
		CloseDate:       Date{Time: o.CloseDate},
		Stage:           string(o.Stage),
		Probability:     o.Probability,
		Type:            string(o.Type),
		LeadSource:      string(o.LeadSource),
		NextStep:        o.NextStep,
		Description:     o.Description,
		Tags:            o.Tags,
	}
}

// ---------------------------------------------------------------------------
// Note
// ---------------------------------------------------------------------------

// CreateNoteRequest attaches a note to a record
type CreateNoteRequest struct {
	RelatedType string    `json:"relatedType" binding:"required,crmenum=relatedtype"`
	RelatedID   uuid.UUID `json:"relatedId" binding:"required"`
	Title       string    `json:"title" binding:"max=200"`
	Content     string    `json:"content" binding:"required,max=5000"`
	IsPrivate   bool      `json:"isPrivate"`
}

// NoteListFilter selects the notes of one record
type NoteListFilter struct {
	ListQuery
	RelatedType string `form:"relatedType" binding:"required,crmenum=relatedtype"`
	RelatedID   string `form:"relatedId" binding:"required,uuid"`
}

// NoteResponse is the wire form of a note
type NoteResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenantId"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	IsPrivate   bool       `json:"isPrivate"`
	RelatedType string     `json:"relatedType"`
	RelatedID   uuid.UUID  `json:"relatedId"`
	CreatedBy   *uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ToNoteResponse converts a domain note
func ToNoteResponse(n *crm.Note) NoteResponse {
	return NoteResponse{
		ID:          n.ID,
		TenantID:    n.TenantID,
		Title:       n.Title,
		Content:     n.Content,
		IsPrivate:   n.IsPrivate,
		RelatedType: string(n.RelatedTo.Type),
		RelatedID:   n.RelatedTo.ID,
		CreatedBy:   n.CreatedBy,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Activity
// ---------------------------------------------------------------------------

// ActivityListFilter holds the audit trail query parameters
type ActivityListFilter struct {
	ListQuery
	EntityType string `form:"entityType" binding:"omitempty,max=50"`
	EntityID   string `form:"entityId" binding:"omitempty,uuid"`
	EventName  string `form:"eventName" binding:"omitempty,max=100"`
}

// ActivityResponse is the wire form of an audit entry
type ActivityResponse struct {
	ID         uuid.UUID      `json:"id"`
	TenantID   uuid.UUID      `json:"tenantId"`
	ActorID    *uuid.UUID     `json:"actorId"`
	EventName  string         `json:"eventName"`
	EntityType string         `json:"entityType"`
	EntityID   uuid.UUID      `json:"entityId"`
	Metadata   map[string]any `json:"metadata"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// ToActivityResponse converts an audit entry
func ToActivityResponse(a *crm.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         a.ID,
		TenantID:   a.TenantID,
		ActorID:    a.ActorID,
		EventName:  a.EventName,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Metadata:   a.Metadata,
		OccurredAt: a.OccurredAt,
	}
}

// parseOptionalID parses an optional id taken from a query string
func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.Validation(field + " must be a valid UUID")
	}
	return &id, nil
}

func mapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
