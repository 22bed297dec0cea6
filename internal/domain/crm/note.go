package crm

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RelatedTo points a note at exactly one record
type RelatedTo struct {
	Type RelatedType
	ID   uuid.UUID
}

// Validate checks the tag and id
func (r RelatedTo) Validate() error {
	if !r.Type.IsValid() {
		return shared.Validation("Invalid relatedTo type")
	}
	if r.ID == uuid.Nil {
		return shared.Validation("relatedTo id is required")
	}
	return nil
}

// Note is free text attached to a lead, account, contact, opportunity or activity
type Note struct {
	shared.TenantAggregateRoot
	Title     string
	Content   string
	IsPrivate bool
	RelatedTo RelatedTo
}

// NewNote creates a note authored by createdBy
func NewNote(tenantID, createdBy uuid.UUID, related RelatedTo, title, content string, isPrivate bool) (*Note, error) {
	title = trim(title)
	content = trim(content)
	if err := related.Validate(); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, shared.Validation("Note content is required")
	}
	if err := firstErr(
		validateMaxLength("title", title, maxTitleLength),
		validateMaxLength("content", content, maxDescriptionLength),
	); err != nil {
		return nil, err
	}

	note := &Note{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, createdBy),
		Title:               title,
		Content:             content,
		IsPrivate:           isPrivate,
		RelatedTo:           related,
	}
	note.AddDomainEvent(NewRecordEvent(EventTypeNoteCreated, AggregateTypeNote, note.ID, tenantID, createdBy,
		map[string]any{"relatedType": string(related.Type), "relatedId": related.ID.String()}))
	return note, nil
}

// IsAuthor reports whether userID wrote the note
func (n *Note) IsAuthor(userID uuid.UUID) bool {
	return n.CreatedBy != nil && *n.CreatedBy == userID
}

// VisibleTo reports whether userID may read the note; private notes are
// only visible to their author.
func (n *Note) VisibleTo(userID uuid.UUID) bool {
	return !n.IsPrivate || n.IsAuthor(userID)
}

// MarkDeleted records the deletion event; the row itself is removed by the repository
func (n *Note) MarkDeleted(actorID uuid.UUID) {
	n.AddDomainEvent(NewRecordEvent(EventTypeNoteDeleted, AggregateTypeNote, n.ID, n.TenantID, actorID,
		map[string]any{"relatedType": string(n.RelatedTo.Type), "relatedId": n.RelatedTo.ID.String()}))
}
