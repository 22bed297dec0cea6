package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmailScope selects which leads count when checking for a duplicate email
type EmailScope string

const (
	// EmailScopeActiveOpen counts active leads that are not yet converted
	EmailScopeActiveOpen EmailScope = "active_open"
	// EmailScopeActive counts every active lead
	EmailScopeActive EmailScope = "active"
)

// LeadFilter narrows lead listings. A nil TenantID lists every tenant.
type LeadFilter struct {
	shared.Filter
	TenantID    *uuid.UUID
	Status      LeadStatus
	Source      LeadSource
	Rating      Rating
	OwnerID     *uuid.UUID
	IsConverted *bool
}

// AccountFilter narrows account listings
type AccountFilter struct {
	shared.Filter
	TenantID    *uuid.UUID
	AccountType AccountType
	Industry    string
	OwnerID     *uuid.UUID
}

// ContactFilter narrows contact listings
type ContactFilter struct {
	shared.Filter
	TenantID  *uuid.UUID
	AccountID *uuid.UUID
	OwnerID   *uuid.UUID
}

// OpportunityFilter narrows opportunity listings
type OpportunityFilter struct {
	shared.Filter
	TenantID  *uuid.UUID
	Stage     Stage
	AccountID *uuid.UUID
	OwnerID   *uuid.UUID
}

// NoteFilter lists the notes of one record
type NoteFilter struct {
	shared.Filter
	TenantID  *uuid.UUID
	RelatedTo RelatedTo
	// ViewerID hides other users' private notes when set
	ViewerID *uuid.UUID
}

// ActivityFilter narrows the audit trail
type ActivityFilter struct {
	shared.Filter
	TenantID   *uuid.UUID
	EntityType string
	EntityID   *uuid.UUID
	EventName  string
}

// Finders return shared.ErrNotFound for unknown ids and include soft-deleted
// records; list queries only return active ones.

// LeadRepository persists leads
type LeadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	FindAll(ctx context.Context, filter LeadFilter) ([]Lead, error)
	Count(ctx context.Context, filter LeadFilter) (int64, error)

	// ExistsByEmail reports whether another lead of the tenant uses email.
	// excludeID skips the lead being updated.
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string, scope EmailScope, excludeID *uuid.UUID) (bool, error)

	Create(ctx context.Context, lead *Lead) error
	// SaveConverted writes a lead that ClaimForConversion already claimed.
	// The stored version must equal lead.Version, since the claim and
	// MarkConverted each advanced it once.
	SaveConverted(ctx context.Context, lead *Lead) error
	// SaveWithLock writes the lead if its stored version is lead.Version-1
	SaveWithLock(ctx context.Context, lead *Lead) error

	// ClaimForConversion atomically flips is_converted from false to true and
	// bumps the version. It returns shared.ErrAlreadyConverted when no row
	// matched, so at most one caller can ever claim a lead.
	ClaimForConversion(ctx context.Context, tenantID, leadID uuid.UUID) error
}

// AccountRepository persists accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindAll(ctx context.Context, filter AccountFilter) ([]Account, error)
	Count(ctx context.Context, filter AccountFilter) (int64, error)

	// ExistsByName checks active accounts of the tenant, case-insensitively
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// CountForTenant counts every account of the tenant, active or not; it
	// seeds the next account number.
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	Create(ctx context.Context, account *Account) error
	SaveWithLock(ctx context.Context, account *Account) error
}

// ContactRepository persists contacts
type ContactRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindAll(ctx context.Context, filter ContactFilter) ([]Contact, error)
	Count(ctx context.Context, filter ContactFilter) (int64, error)

	// FindReportsTo returns the manager id of a contact of the tenant
	FindReportsTo(ctx context.Context, tenantID, contactID uuid.UUID) (*uuid.UUID, error)

	Create(ctx context.Context, contact *Contact) error
	SaveWithLock(ctx context.Context, contact *Contact) error
}

// OpportunityRepository persists opportunities
type OpportunityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Opportunity, error)
	FindAll(ctx context.Context, filter OpportunityFilter) ([]Opportunity, error)
	Count(ctx context.Context, filter OpportunityFilter) (int64, error)
	Create(ctx context.Context, opportunity *Opportunity) error
	SaveWithLock(ctx context.Context, opportunity *Opportunity) error
}

// NoteRepository persists notes
type NoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Note, error)
	FindAll(ctx context.Context, filter NoteFilter) ([]Note, error)
	Count(ctx context.Context, filter NoteFilter) (int64, error)
	Create(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityLogRepository persists the audit trail
type ActivityLogRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ActivityLog, error)
	FindAll(ctx context.Context, filter ActivityFilter) ([]ActivityLog, error)
	Count(ctx context.Context, filter ActivityFilter) (int64, error)
	Create(ctx context.Context, entry *ActivityLog) error
}
