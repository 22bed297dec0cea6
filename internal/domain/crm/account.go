package crm

import (
	"fmt"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultAccountNumberPrefix prefixes generated account numbers
const DefaultAccountNumberPrefix = "ACC"

// AccountDetails holds the editable fields of an account
type AccountDetails struct {
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
	ParentAccountID   *uuid.UUID
	Tags              []string
}

// Account is an organization the tenant does business with
type Account struct {
	Record
	AccountDetails
	AccountNumber string
}

// FormatAccountNumber renders the seq-th account number of a tenant, e.g. ACC-000042
func FormatAccountNumber(prefix string, seq int64) string {
	if prefix == "" {
		prefix = DefaultAccountNumberPrefix
	}
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

// NewAccount creates an account. AccountType defaults to Prospect and Rating to Warm.
func NewAccount(tenantID, ownerID, createdBy uuid.UUID, accountNumber string, details AccountDetails) (*Account, error) {
	details = normalizeAccountDetails(details)
	if err := validateAccountDetails(details); err != nil {
		return nil, err
	}
	if trim(accountNumber) == "" {
		return nil, shared.Validation("Account number is required")
	}

	account := &Account{
		Record:         newRecord(tenantID, ownerID, createdBy),
		AccountDetails: details,
		AccountNumber:  trim(accountNumber),
	}
	account.AddDomainEvent(NewRecordEvent(EventTypeAccountCreated, AggregateTypeAccount, account.ID, tenantID, createdBy,
		map[string]any{"accountName": account.AccountName, "accountNumber": account.AccountNumber}))
	return account, nil
}

// ApplyPatch updates the fields present in p
func (a *Account) ApplyPatch(p AccountPatch, actorID uuid.UUID) error {
	details, changed := p.apply(a.AccountDetails)
	owner, reassigned := ownerChange(a.OwnerID, p.OwnerID)
	if reassigned {
		changed = append(changed, "owner")
	}
	if len(changed) == 0 {
		return nil
	}
	details = normalizeAccountDetails(details)
	if err := validateAccountDetails(details); err != nil {
		return err
	}
	if details.ParentAccountID != nil && *details.ParentAccountID == a.ID {
		return shared.Validation("An account cannot be its own parent")
	}

	a.AccountDetails = details
	a.OwnerID = owner
	a.touch(actorID)
	a.AddDomainEvent(NewRecordEvent(EventTypeAccountUpdated, AggregateTypeAccount, a.ID, a.TenantID, actorID,
		map[string]any{"fields": changed}))
	return nil
}

// Delete soft deletes the account
func (a *Account) Delete(actorID uuid.UUID) error {
	if err := a.softDelete(actorID); err != nil {
		return err
	}
	a.AddDomainEvent(NewRecordEvent(EventTypeAccountDeleted, AggregateTypeAccount, a.ID, a.TenantID, actorID, nil))
	return nil
}

func normalizeAccountDetails(d AccountDetails) AccountDetails {
	d.AccountName = trim(d.AccountName)
	d.Industry = trim(d.Industry)
	d.Website = trim(d.Website)
	d.Phone = trim(d.Phone)
	d.Email = NormalizeEmail(d.Email)
	d.Description = trim(d.Description)
	if d.AccountType == "" {
		d.AccountType = AccountTypeProspect
	}
	if d.Rating == "" {
		d.Rating = RatingWarm
	}
	d.Tags = normalizeTags(d.Tags)
	return d
}

// ValidateAccountDetails checks d as NewAccount would
func ValidateAccountDetails(d AccountDetails) error {
	return validateAccountDetails(normalizeAccountDetails(d))
}

func validateAccountDetails(d AccountDetails) error {
	if d.AccountName == "" {
		return shared.Validation("Account name is required")
	}
	if !d.AccountType.IsValid() {
		return shared.Validation("Invalid account type")
	}
	if !d.Rating.IsValid() {
		return shared.Validation("Invalid rating")
	}
	return firstErr(
		validateMaxLength("accountName", d.AccountName, maxTitleLength),
		validateMaxLength("industry", d.Industry, maxTitleLength),
		validateMaxLength("website", d.Website, maxURLLength),
		validateMaxLength("phone", d.Phone, maxPhoneLength),
		validateEmail("email", d.Email),
		validateMaxLength("description", d.Description, maxDescriptionLength),
		validateNonNegativeDecimal("annualRevenue", d.AnnualRevenue),
		validateNonNegativeInt("numberOfEmployees", d.NumberOfEmployees),
	)
}
