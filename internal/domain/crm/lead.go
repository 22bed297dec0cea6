package crm

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeadDetails holds the editable fields of a lead
type LeadDetails struct {
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	MobilePhone       string
	Company           string
	JobTitle          string
	Website           string
	Industry          string
	Description       string
	Address           valueobject.Address
	LeadSource        LeadSource
	LeadStatus        LeadStatus
	Rating            Rating
	LeadScore         int
	AnnualRevenue     *decimal.Decimal
	NumberOfEmployees *int
	EmailOptOut       bool
	DoNotCall         bool
	Tags              []string
}

// ConvertedTo links a converted lead to the records it produced
type ConvertedTo struct {
	AccountID     *uuid.UUID `json:"accountId"`
	ContactID     *uuid.UUID `json:"contactId"`
	OpportunityID *uuid.UUID `json:"opportunityId"`
}

// Lead is an unqualified prospect. Once converted it is immutable.
type Lead struct {
	Record
	LeadDetails
	IsConverted   bool
	ConvertedDate *time.Time
	ConvertedTo   ConvertedTo
}

// NewLead creates a lead owned by ownerID. Empty enums take their defaults:
// source Other, status New, rating Warm.
func NewLead(tenantID, ownerID, createdBy uuid.UUID, details LeadDetails) (*Lead, error) {
	details = normalizeLeadDetails(details)
	if details.LeadStatus == LeadStatusConverted {
		return nil, shared.Validation("A lead cannot be created as Converted")
	}
	if err := validateLeadDetails(details); err != nil {
		return nil, err
	}

	lead := &Lead{
		Record:      newRecord(tenantID, ownerID, createdBy),
		LeadDetails: details,
	}
	lead.AddDomainEvent(NewRecordEvent(EventTypeLeadCreated, AggregateTypeLead, lead.ID, tenantID, createdBy,
		map[string]any{"email": lead.Email, "company": lead.Company}))
	return lead, nil
}

// FullName joins first and last name
func (l *Lead) FullName() string {
	return trim(l.FirstName + " " + l.LastName)
}

// ApplyPatch updates the fields present in p
func (l *Lead) ApplyPatch(p LeadPatch, actorID uuid.UUID) error {
	if l.IsConverted {
		return shared.ErrAlreadyConverted
	}
	if p.LeadStatus != nil && *p.LeadStatus == LeadStatusConverted {
		return shared.Validation("Lead status can only become Converted through conversion")
	}

	details, changed := p.apply(l.LeadDetails)
	owner, reassigned := ownerChange(l.OwnerID, p.OwnerID)
	if reassigned {
		changed = append(changed, "owner")
	}
	if len(changed) == 0 {
		return nil
	}
	details = normalizeLeadDetails(details)
	if err := validateLeadDetails(details); err != nil {
		return err
	}

	l.LeadDetails = details
	l.OwnerID = owner
	l.touch(actorID)
	l.AddDomainEvent(NewRecordEvent(EventTypeLeadUpdated, AggregateTypeLead, l.ID, l.TenantID, actorID,
		map[string]any{"fields": changed}))
	return nil
}

// Delete soft deletes the lead. Converted leads cannot be deleted.
func (l *Lead) Delete(actorID uuid.UUID) error {
	if l.IsConverted {
		return shared.ErrAlreadyConverted
	}
	if err := l.softDelete(actorID); err != nil {
		return err
	}
	l.AddDomainEvent(NewRecordEvent(EventTypeLeadDeleted, AggregateTypeLead, l.ID, l.TenantID, actorID, nil))
	return nil
}

// MarkConverted finalises the one-way conversion of the lead
func (l *Lead) MarkConverted(to ConvertedTo, actorID uuid.UUID, at time.Time) error {
	if l.IsConverted {
		return shared.ErrAlreadyConverted
	}
	l.IsConverted = true
	l.ConvertedDate = &at
	l.ConvertedTo = to
	l.LeadStatus = LeadStatusConverted
	l.touch(actorID)
	l.AddDomainEvent(NewLeadConvertedEvent(l, actorID))
	return nil
}

func normalizeLeadDetails(d LeadDetails) LeadDetails {
	d.FirstName = trim(d.FirstName)
	d.LastName = trim(d.LastName)
	d.Email = NormalizeEmail(d.Email)
	d.Phone = trim(d.Phone)
	d.MobilePhone = trim(d.MobilePhone)
	d.Company = trim(d.Company)
	d.JobTitle = trim(d.JobTitle)
	d.Website = trim(d.Website)
	d.Industry = trim(d.Industry)
	d.Description = trim(d.Description)
	if d.LeadSource == "" {
		d.LeadSource = LeadSourceOther
	}
	if d.LeadStatus == "" {
		d.LeadStatus = LeadStatusNew
	}
	if d.Rating == "" {
		d.Rating = RatingWarm
	}
	d.Tags = normalizeTags(d.Tags)
	return d
}

func validateLeadDetails(d LeadDetails) error {
	if d.FirstName == "" && d.LastName == "" && d.Email == "" && d.Company == "" {
		return shared.Validation("At least one of firstName, lastName, email or company is required")
	}
	if !d.LeadSource.IsValid() {
		return shared.Validation("Invalid lead source")
	}
	if !d.LeadStatus.IsValid() {
		return shared.Validation("Invalid lead status")
	}
	if !d.Rating.IsValid() {
		return shared.Validation("Invalid rating")
	}
	return firstErr(
		validateMaxLength("firstName", d.FirstName, maxNameLength),
		validateMaxLength("lastName", d.LastName, maxNameLength),
		validateEmail("email", d.Email),
		validateMaxLength("phone", d.Phone, maxPhoneLength),
		validateMaxLength("mobilePhone", d.MobilePhone, maxPhoneLength),
		validateMaxLength("company", d.Company, maxTitleLength),
		validateMaxLength("jobTitle", d.JobTitle, maxTitleLength),
		validateMaxLength("website", d.Website, maxURLLength),
		validateMaxLength("industry", d.Industry, maxTitleLength),
		validateMaxLength("description", d.Description, maxDescriptionLength),
		validatePercent("leadScore", d.LeadScore),
		validateNonNegativeDecimal("annualRevenue", d.AnnualRevenue),
		validateNonNegativeInt("numberOfEmployees", d.NumberOfEmployees),
	)
}
