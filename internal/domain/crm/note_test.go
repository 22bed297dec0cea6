package crm

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNote(t *testing.T) {
	author := uuid.New()
	related := RelatedTo{Type: RelatedTypeLead, ID: uuid.New()}

	t.Run("valid", func(t *testing.T) {
		note, err := NewNote(uuid.New(), author, related, " Call recap ", "Discussed pricing", true)
		require.NoError(t, err)
		assert.Equal(t, "Call recap", note.Title)
		assert.True(t, note.IsAuthor(author))
		assert.True(t, note.VisibleTo(author))
		assert.False(t, note.VisibleTo(uuid.New()))
	})

	t.Run("public notes are visible to everyone", func(t *testing.T) {
		note, err := NewNote(uuid.New(), author, related, "", "Hello", false)
		require.NoError(t, err)
		assert.True(t, note.VisibleTo(uuid.New()))
	})

	t.Run("content required", func(t *testing.T) {
		_, err := NewNote(uuid.New(), author, related, "Title", "   ", false)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("related type must be known", func(t *testing.T) {
		_, err := NewNote(uuid.New(), author, RelatedTo{Type: "Invoice", ID: uuid.New()}, "", "x", false)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("related id required", func(t *testing.T) {
		_, err := NewNote(uuid.New(), author, RelatedTo{Type: RelatedTypeAccount}, "", "x", false)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestNewActivityLog(t *testing.T) {
	tenantID, actorID, leadID := uuid.New(), uuid.New(), uuid.New()

	t.Run("from record event", func(t *testing.T) {
		ev := NewRecordEvent(EventTypeLeadUpdated, AggregateTypeLead, leadID, tenantID, actorID,
			map[string]any{"fields": []string{"company"}})
		log := NewActivityLog(ev)

		assert.Equal(t, tenantID, log.TenantID)
		assert.Equal(t, actorID, *log.ActorID)
		assert.Equal(t, "lead.updated", log.EventName)
		assert.Equal(t, "Lead", log.EntityType)
		assert.Equal(t, leadID, log.EntityID)
		assert.WithinDuration(t, time.Now(), log.OccurredAt, time.Second)
	})

	t.Run("system events have no actor", func(t *testing.T) {
		ev := NewRecordEvent(EventTypeLeadCreated, AggregateTypeLead, leadID, tenantID, uuid.Nil, nil)
		log := NewActivityLog(ev)
		assert.Nil(t, log.ActorID)
		assert.NotNil(t, log.Metadata)
	})
}

func TestEnumValues(t *testing.T) {
	assert.Contains(t, EnumValues("stage"), "Closed Won")
	assert.Contains(t, EnumValues("leadsource"), "Bulk Upload")
	assert.Nil(t, EnumValues("nope"))
	assert.Equal(t, 1, StageQualification.Order()-StageProspecting.Order())
}
