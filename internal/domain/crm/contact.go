package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// MaxReportingDepth bounds the walk up a reportsTo chain
const MaxReportingDepth = 64

// ContactDetails holds the editable fields of a contact
type ContactDetails struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	MobilePhone    string
	JobTitle       string
	Department     string
	Description    string
	AccountID      *uuid.UUID
	ReportsToID    *uuid.UUID
	MailingAddress valueobject.Address
	LeadSource     LeadSource
	EmailOptOut    bool
	DoNotCall      bool
	Tags           []string
}

// Contact is a person, usually working for an account
type Contact struct {
	Record
	ContactDetails
}

// NewContact creates a contact. First and last name are required.
func NewContact(tenantID, ownerID, createdBy uuid.UUID, details ContactDetails) (*Contact, error) {
	details = normalizeContactDetails(details)
	if err := validateContactDetails(details); err != nil {
		return nil, err
	}

	contact := &Contact{
		Record:         newRecord(tenantID, ownerID, createdBy),
		ContactDetails: details,
	}
	contact.AddDomainEvent(NewRecordEvent(EventTypeContactCreated, AggregateTypeContact, contact.ID, tenantID, createdBy,
		map[string]any{"name": contact.FullName()}))
	return contact, nil
}

// FullName joins first and last name
func (c *Contact) FullName() string {
	return trim(c.FirstName + " " + c.LastName)
}

// ApplyPatch updates the fields present in p. The reportsTo chain must be
// checked by the caller with CheckReportingChain before saving.
func (c *Contact) ApplyPatch(p ContactPatch, actorID uuid.UUID) error {
	details, changed := p.apply(c.ContactDetails)
	owner, reassigned := ownerChange(c.OwnerID, p.OwnerID)
	if reassigned {
		changed = append(changed, "owner")
	}
	if len(changed) == 0 {
		return nil
	}
	details = normalizeContactDetails(details)
	if err := validateContactDetails(details); err != nil {
		return err
	}
	if details.ReportsToID != nil && *details.ReportsToID == c.ID {
		return shared.Validation("A contact cannot report to itself")
	}

	c.ContactDetails = details
	c.OwnerID = owner
	c.touch(actorID)
	c.AddDomainEvent(NewRecordEvent(EventTypeContactUpdated, AggregateTypeContact, c.ID, c.TenantID, actorID,
		map[string]any{"fields": changed}))
	return nil
}

// Delete soft deletes the contact
func (c *Contact) Delete(actorID uuid.UUID) error {
	if err := c.softDelete(actorID); err != nil {
		return err
	}
	c.AddDomainEvent(NewRecordEvent(EventTypeContactDeleted, AggregateTypeContact, c.ID, c.TenantID, actorID, nil))
	return nil
}

// ManagerLookup returns the reportsTo id of a contact, or nil at the top of the chain
type ManagerLookup func(ctx context.Context, contactID uuid.UUID) (*uuid.UUID, error)

// CheckReportingChain walks up from managerID and fails if the walk reaches
// contactID, or if the chain is deeper than MaxReportingDepth.
func CheckReportingChain(ctx context.Context, contactID, managerID uuid.UUID, next ManagerLookup) error {
	current := managerID
	for depth := 0; depth < MaxReportingDepth; depth++ {
		if current == contactID {
			return shared.Validation("reportsTo would create a reporting cycle")
		}
		parent, err := next(ctx, current)
		if err != nil {
			return err
		}
		if parent == nil {
			return nil
		}
		current = *parent
	}
	return shared.Validation("reportsTo chain is too deep")
}

func normalizeContactDetails(d ContactDetails) ContactDetails {
	d.FirstName = trim(d.FirstName)
	d.LastName = trim(d.LastName)
	d.Email = NormalizeEmail(d.Email)
	d.Phone = trim(d.Phone)
	d.MobilePhone = trim(d.MobilePhone)
	d.JobTitle = trim(d.JobTitle)
	d.Department = trim(d.Department)
	d.Description = trim(d.Description)
	d.Tags = normalizeTags(d.Tags)
	return d
}

// ValidateContactDetails checks d as NewContact would
func ValidateContactDetails(d ContactDetails) error {
	return validateContactDetails(normalizeContactDetails(d))
}

func validateContactDetails(d ContactDetails) error {
	if d.FirstName == "" {
		return shared.Validation("First name is required")
	}
	if d.LastName == "" {
		return shared.Validation("Last name is required")
	}
	if d.LeadSource != "" && !d.LeadSource.IsValid() {
		return shared.Validation("Invalid lead source")
	}
	return firstErr(
		validateMaxLength("firstName", d.FirstName, maxNameLength),
		validateMaxLength("lastName", d.LastName, maxNameLength),
		validateEmail("email", d.Email),
		validateMaxLength("phone", d.Phone, maxPhoneLength),
		validateMaxLength("mobilePhone", d.MobilePhone, maxPhoneLength),
		validateMaxLength("jobTitle", d.JobTitle, maxTitleLength),
		validateMaxLength("department", d.Department, maxTitleLength),
		validateMaxLength("description", d.Description, maxDescriptionLength),
	)
}
