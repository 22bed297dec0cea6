package models

import (
	"encoding/json"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressColumns stores an address as prefixed columns of its owner
type AddressColumns struct {
	Street  string `gorm:"type:varchar(200)"`
	City    string `gorm:"type:varchar(200)"`
	State   string `gorm:"type:varchar(200)"`
	Country string `gorm:"type:varchar(200)"`
	ZipCode string `gorm:"type:varchar(200)"`
}

func addressColumns(a valueobject.Address) AddressColumns {
	return AddressColumns{
		Street:  a.Street(),
		City:    a.City(),
		State:   a.State(),
		Country: a.Country(),
		ZipCode: a.ZipCode(),
	}
}

func (c AddressColumns) toDomain() valueobject.Address {
	return valueobject.RestoreAddress(c.Street, c.City, c.State, c.Country, c.ZipCode)
}

func marshalTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalTags(raw string) []string {
	tags := []string{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &tags)
	}
	return tags
}

// RecordModel holds the ownership columns shared by the CRM tables
type RecordModel struct {
	TenantOwnedModel
	OwnerID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	LastModifiedBy *uuid.UUID `gorm:"type:uuid"`
	IsActive       bool       `gorm:"not null;index"`
}

func (m *RecordModel) fromRecord(r crm.Record) {
	m.fromTenantAggregate(r.TenantAggregateRoot)
	m.OwnerID = r.OwnerID
	m.LastModifiedBy = r.LastModifiedBy
	m.IsActive = r.IsActive
}

func (m *RecordModel) toRecord() crm.Record {
	return crm.Record{
		TenantAggregateRoot: m.toTenantAggregate(),
		OwnerID:             m.OwnerID,
		LastModifiedBy:      m.LastModifiedBy,
		IsActive:            m.IsActive,
	}
}

// LeadModel is the persistence model for the Lead aggregate
type LeadModel struct {
	RecordModel
	FirstName              string           `gorm:"type:varchar(100)"`
	LastName               string           `gorm:"type:varchar(100)"`
	Email                  string           `gorm:"type:varchar(254);index"`
	Phone                  string           `gorm:"type:varchar(50)"`
	MobilePhone            string           `gorm:"type:varchar(50)"`
	Company                string           `gorm:"type:varchar(200)"`
	JobTitle               string           `gorm:"type:varchar(200)"`
	Website                string           `gorm:"type:varchar(500)"`
	Industry               string           `gorm:"type:varchar(200)"`
	Description            string           `gorm:"type:text"`
	Address                AddressColumns   `gorm:"embedded;embeddedPrefix:address_"`
	LeadSource             crm.LeadSource   `gorm:"type:varchar(50);not null"`
	LeadStatus             crm.LeadStatus   `gorm:"type:varchar(50);not null;index"`
	Rating                 crm.Rating       `gorm:"type:varchar(20);not null"`
	LeadScore              int              `gorm:"not null;default:0"`
	AnnualRevenue          *decimal.Decimal `gorm:"type:decimal(18,2)"`
	NumberOfEmployees      *int
	EmailOptOut            bool   `gorm:"not null;default:false"`
	DoNotCall              bool   `gorm:"not null;default:false"`
	TagsJSON               string `gorm:"column:tags;type:jsonb;default:'[]'"`
	IsConverted            bool   `gorm:"not null;default:false;index"`
	ConvertedDate          *time.Time
	ConvertedAccountID     *uuid.UUID `gorm:"type:uuid"`
	ConvertedContactID     *uuid.UUID `gorm:"type:uuid"`
	ConvertedOpportunityID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the persistence model to a domain Lead
func (m *LeadModel) ToDomain() *crm.Lead {
	return &crm.Lead{
		Record: m.toRecord(),
		LeadDetails: crm.LeadDetails{
			FirstName:         m.FirstName,
			LastName:          m.LastName,
			Email:             m.Email,
			Phone:             m.Phone,
			MobilePhone:       m.MobilePhone,
			Company:           m.Company,
			JobTitle:          m.JobTitle,
			Website:           m.Website,
			Industry:          m.Industry,
			Description:       m.Description,
			Address:           m.Address.toDomain(),
			LeadSource:        m.LeadSource,
			LeadStatus:        m.LeadStatus,
			Rating:            m.Rating,
			LeadScore:         m.LeadScore,
			AnnualRevenue:     m.AnnualRevenue,
			NumberOfEmployees: m.NumberOfEmployees,
			EmailOptOut:       m.EmailOptOut,
			DoNotCall:         m.DoNotCall,
			Tags:              unmarshalTags(m.TagsJSON),
		},
		IsConverted:   m.IsConverted,
		ConvertedDate: m.ConvertedDate,
		ConvertedTo: crm.ConvertedTo{
			AccountID:     m.ConvertedAccountID,
			ContactID:     m.ConvertedContactID,
			OpportunityID: m.ConvertedOpportunityID,
		},
	}
}

// FromDomain populates the persistence model from a domain Lead
func (m *LeadModel) FromDomain(l *crm.Lead) {
	m.fromRecord(l.Record)
	m.FirstName = l.FirstName
	m.LastName = l.LastName
	m.Email = l.Email
	m.Phone = l.Phone
	m.MobilePhone = l.MobilePhone
	m.Company = l.Company
	m.JobTitle = l.JobTitle
	m.Website = l.Website
	m.Industry = l.Industry
	m.Description = l.Description
	m.Address = addressColumns(l.Address)
	m.LeadSource = l.LeadSource
	m.LeadStatus = l.LeadStatus
	m.Rating = l.Rating
	m.LeadScore = l.LeadScore
	m.AnnualRevenue = l.AnnualRevenue
	m.NumberOfEmployees = l.NumberOfEmployees
	m.EmailOptOut = l.EmailOptOut
	m.DoNotCall = l.DoNotCall
	m.TagsJSON = marshalTags(l.Tags)
	m.IsConverted = l.IsConverted
	m.ConvertedDate = l.ConvertedDate
	m.ConvertedAccountID = l.ConvertedTo.AccountID
	m.ConvertedContactID = l.ConvertedTo.ContactID
	m.ConvertedOpportunityID = l.ConvertedTo.OpportunityID
}

// LeadModelFromDomain creates a new persistence model from a domain Lead
func LeadModelFromDomain(l *crm.Lead) *LeadModel {
	m := &LeadModel{}
	m.FromDomain(l)
	return m
}

// AccountModel is the persistence model for the Account aggregate
type AccountModel struct {
	RecordModel
	AccountNumber     string           `gorm:"type:varchar(50);not null"`
	AccountName       string           `gorm:"type:varchar(200);not null;index"`
	AccountType       crm.AccountType  `gorm:"type:varchar(50);not null"`
	Industry          string           `gorm:"type:varchar(200)"`
	Website           string           `gorm:"type:varchar(500)"`
	Phone             string           `gorm:"type:varchar(50)"`
	Email             string           `gorm:"type:varchar(254)"`
	Description       string           `gorm:"type:text"`
	AnnualRevenue     *decimal.Decimal `gorm:"type:decimal(18,2)"`
	NumberOfEmployees *int
	Rating            crm.Rating     `gorm:"type:varchar(20);not null"`
	BillingAddress    AddressColumns `gorm:"embedded;embeddedPrefix:billing_"`
	ShippingAddress   AddressColumns `gorm:"embedded;embeddedPrefix:shipping_"`
	ParentAccountID   *uuid.UUID     `gorm:"type:uuid;index"`
	TagsJSON          string         `gorm:"column:tags;type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *crm.Account {
	return &crm.Account{
		Record: m.toRecord(),
		AccountDetails: crm.AccountDetails{
			AccountName:       m.AccountName,
			AccountType:       m.AccountType,
			Industry:          m.Industry,
			Website:           m.Website,
			Phone:             m.Phone,
			Email:             m.Email,
			Description:       m.Description,
			AnnualRevenue:     m.AnnualRevenue,
			NumberOfEmployees: m.NumberOfEmployees,
			Rating:            m.Rating,
			BillingAddress:    m.BillingAddress.toDomain(),
			ShippingAddress:   m.ShippingAddress.toDomain(),
			ParentAccountID:   m.ParentAccountID,
			Tags:              unmarshalTags(m.TagsJSON),
		},
		AccountNumber: m.AccountNumber,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *crm.Account) {
	m.fromRecord(a.Record)
	m.AccountNumber = a.AccountNumber
	m.AccountName = a.AccountName
	m.AccountType = a.AccountType
	m.Industry = a.Industry
	m.Website = a.Website
	m.Phone = a.Phone
	m.Email = a.Email
	m.Description = a.Description
	m.AnnualRevenue = a.AnnualRevenue
	m.NumberOfEmployees = a.NumberOfEmployees
	m.Rating = a.Rating
	m.BillingAddress = addressColumns(a.BillingAddress)
	m.ShippingAddress = addressColumns(a.ShippingAddress)
	m.ParentAccountID = a.ParentAccountID
	m.TagsJSON = marshalTags(a.Tags)
}

// AccountModelFromDomain creates a new persistence model from a domain Account
func AccountModelFromDomain(a *crm.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// ContactModel is the persistence model for the Contact aggregate
type ContactModel struct {
	RecordModel
	FirstName      string         `gorm:"type:varchar(100);not null"`
	LastName       string         `gorm:"type:varchar(100);not null"`
	Email          string         `gorm:"type:varchar(254);index"`
	Phone          string         `gorm:"type:varchar(50)"`
	MobilePhone    string         `gorm:"type:varchar(50)"`
	JobTitle       string         `gorm:"type:varchar(200)"`
	Department     string         `gorm:"type:varchar(200)"`
	Description    string         `gorm:"type:text"`
	AccountID      *uuid.UUID     `gorm:"type:uuid;index"`
	ReportsToID    *uuid.UUID     `gorm:"type:uuid;index"`
	MailingAddress AddressColumns `gorm:"embedded;embeddedPrefix:mailing_"`
	LeadSource     crm.LeadSource `gorm:"type:varchar(50)"`
	EmailOptOut    bool           `gorm:"not null;default:false"`
	DoNotCall      bool           `gorm:"not null;default:false"`
	TagsJSON       string         `gorm:"column:tags;type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *crm.Contact {
	return &crm.Contact{
		Record: m.toRecord(),
		ContactDetails: crm.ContactDetails{
			FirstName:      m.FirstName,
			LastName:       m.LastName,
			Email:          m.Email,
			Phone:          m.Phone,
			MobilePhone:    m.MobilePhone,
			JobTitle:       m.JobTitle,
			Department:     m.Department,
			Description:    m.Description,
			AccountID:      m.AccountID,
			ReportsToID:    m.ReportsToID,
			MailingAddress: m.MailingAddress.toDomain(),
			LeadSource:     m.LeadSource,
			EmailOptOut:    m.EmailOptOut,
			DoNotCall:      m.DoNotCall,
			Tags:           unmarshalTags(m.TagsJSON),
		},
	}
}

// FromDomain populates the persistence model from a domain Contact
func (m *ContactModel) FromDomain(c *crm.Contact) {
	m.fromRecord(c.Record)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.Phone = c.Phone
	m.MobilePhone = c.MobilePhone
	m.JobTitle = c.JobTitle
	m.Department = c.Department
	m.Description = c.Description
	m.AccountID = c.AccountID
	m.ReportsToID = c.ReportsToID
	m.MailingAddress = addressColumns(c.MailingAddress)
	m.LeadSource = c.LeadSource
	m.EmailOptOut = c.EmailOptOut
	m.DoNotCall = c.DoNotCall
	m.TagsJSON = marshalTags(c.Tags)
}

// ContactModelFromDomain creates a new persistence model from a domain Contact
func ContactModelFromDomain(c *crm.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}

// OpportunityModel is the persistence model for the Opportunity aggregate
type OpportunityModel struct {
	RecordModel
	OpportunityName string                `gorm:"type:varchar(200);not null"`
	AccountID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	ContactID       *uuid.UUID            `gorm:"type:uuid;index"`
	LeadID          *uuid.UUID            `gorm:"type:uuid;index"`
	Amount          decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	CloseDate       time.Time             `gorm:"type:date;not null"`
	Stage           crm.Stage             `gorm:"type:varchar(50);not null;index"`
	Probability     int                   `gorm:"not null"`
	Type            crm.OpportunityType   `gorm:"type:varchar(50)"`
	LeadSource      crm.OpportunitySource `gorm:"type:varchar(50)"`
	NextStep        string                `gorm:"type:varchar(200)"`
	Description     string                `gorm:"type:text"`
	TagsJSON        string                `gorm:"column:tags;type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (OpportunityModel) TableName() string {
	return "opportunities"
}

// ToDomain converts the persistence model to a domain Opportunity
func (m *OpportunityModel) ToDomain() *crm.Opportunity {
	return &crm.Opportunity{
		Record: m.toRecord(),
		OpportunityDetails: crm.OpportunityDetails{
			OpportunityName: m.OpportunityName,
			AccountID:       m.AccountID,
			ContactID:       m.ContactID,
			LeadID:          m.LeadID,
			Amount:          m.Amount,
			CloseDate:       m.CloseDate,
			Stage:           m.Stage,
			Probability:     m.Probability,
			Type:            m.Type,
			LeadSource:      m.LeadSource,
			NextStep:        m.NextStep,
			Description:     m.Description,
			Tags:            unmarshalTags(m.TagsJSON),
		},
	}
}

// FromDomain populates the persistence model from a domain Opportunity
func (m *OpportunityModel) FromDomain(o *crm.Opportunity) {
	m.fromRecord(o.Record)
	m.OpportunityName = o.OpportunityName
	m.AccountID = o.AccountID
	m.ContactID = o.ContactID
	m.LeadID = o.LeadID
	m.Amount = o.Amount
	m.CloseDate = o.CloseDate
	m.Stage = o.Stage
	m.Probability = o.Probability
	m.Type = o.Type
	m.LeadSource = o.LeadSource
	m.NextStep = o.NextStep
	m.Description = o.Description
	m.TagsJSON = marshalTags(o.Tags)
}

// OpportunityModelFromDomain creates a new persistence model from a domain Opportunity
func OpportunityModelFromDomain(o *crm.Opportunity) *OpportunityModel {
	m := &OpportunityModel{}
	m.FromDomain(o)
	return m
}

// NoteModel is the persistence model for notes
type NoteModel struct {
	TenantOwnedModel
	Title       string          `gorm:"type:varchar(200)"`
	Content     string          `gorm:"type:text;not null"`
	IsPrivate   bool            `gorm:"not null;default:false"`
	RelatedType crm.RelatedType `gorm:"type:varchar(20);not null;index:idx_notes_related,priority:1"`
	RelatedID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_notes_related,priority:2"`
}

// TableName returns the table name for GORM
func (NoteModel) TableName() string {
	return "notes"
}

// ToDomain converts the persistence model to a domain Note
func (m *NoteModel) ToDomain() *crm.Note {
	return &crm.Note{
		TenantAggregateRoot: m.toTenantAggregate(),
		Title:               m.Title,
		Content:             m.Content,
		IsPrivate:           m.IsPrivate,
		RelatedTo:           crm.RelatedTo{Type: m.RelatedType, ID: m.RelatedID},
	}
}

// FromDomain populates the persistence model from a domain Note
func (m *NoteModel) FromDomain(n *crm.Note) {
	m.fromTenantAggregate(n.TenantAggregateRoot)
	m.Title = n.Title
	m.Content = n.Content
	m.IsPrivate = n.IsPrivate
	m.RelatedType = n.RelatedTo.Type
	m.RelatedID = n.RelatedTo.ID
}

// NoteModelFromDomain creates a new persistence model from a domain Note
func NoteModelFromDomain(n *crm.Note) *NoteModel {
	m := &NoteModel{}
	m.FromDomain(n)
	return m
}

// ActivityLogModel is the persistence model for audit trail entries
type ActivityLogModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_activity_tenant_time,priority:1"`
	ActorID      *uuid.UUID `gorm:"type:uuid"`
	EventName    string     `gorm:"type:varchar(100);not null;index"`
	EntityType   string     `gorm:"type:varchar(50);not null;index:idx_activity_entity,priority:1"`
	EntityID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_activity_entity,priority:2"`
	MetadataJSON string     `gorm:"column:metadata;type:jsonb;default:'{}'"`
	OccurredAt   time.Time  `gorm:"not null;index:idx_activity_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the persistence model to a domain ActivityLog
func (m *ActivityLogModel) ToDomain() *crm.ActivityLog {
	metadata := map[string]any{}
	if m.MetadataJSON != "" {
		_ = json.Unmarshal([]byte(m.MetadataJSON), &metadata)
	}
	return &crm.ActivityLog{
		ID:         m.ID,
		TenantID:   m.TenantID,
		ActorID:    m.ActorID,
		EventName:  m.EventName,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Metadata:   metadata,
		OccurredAt: m.OccurredAt,
	}
}

// ActivityLogModelFromDomain creates a persistence model from an audit entry
func ActivityLogModelFromDomain(a *crm.ActivityLog) (*ActivityLogModel, error) {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return nil, err
	}
	return &ActivityLogModel{
		ID:           a.ID,
		TenantID:     a.TenantID,
		ActorID:      a.ActorID,
		EventName:    a.EventName,
		EntityType:   a.EntityType,
		EntityID:     a.EntityID,
		MetadataJSON: string(metadata),
		OccurredAt:   a.OccurredAt,
	}, nil
}

// CRMModels lists the CRM persistence models, in dependency order
func CRMModels() []any {
	return []any{
		&TenantModel{},
		&LeadModel{},
		&AccountModel{},
		&ContactModel{},
		&OpportunityModel{},
		&NoteModel{},
		&ActivityLogModel{},
	}
}

