package crm

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noteFixture struct {
	service   *NoteService
	notes     *MockNoteRepository
	leads     *MockLeadRepository
	publisher *recordingPublisher
}

func newNoteFixture() *noteFixture {
	f := &noteFixture{
		notes:     new(MockNoteRepository),
		leads:     new(MockLeadRepository),
		publisher: &recordingPublisher{},
	}
	f.service = NewNoteService(f.notes, NoteTargets{
		Leads:         f.leads,
		Accounts:      new(MockAccountRepository),
		Contacts:      new(MockContactRepository),
		Opportunities: new(MockOpportunityRepository),
		Activities:    new(MockActivityLogRepository),
	}, f.publisher, zap.NewNop())
	return f
}

func TestNoteService_Create(t *testing.T) {
	t.Run("takes the tenant of the target", func(t *testing.T) {
		f := newNoteFixture()
		tenantID := uuid.New()
		lead := newJaneDoe(t, tenantID, uuid.New())
		f.leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
		f.notes.On("Create", mock.Anything, mock.AnythingOfType("*crm.Note")).Return(nil)

		resp, err := f.service.Create(context.Background(), operator(), CreateNoteRequest{
			RelatedType: string(crm.RelatedTypeLead),
			RelatedID:   lead.ID,
			Content:     "Called, wants a demo",
		})
		require.NoError(t, err)
		assert.Equal(t, tenantID, resp.TenantID)
		assert.Equal(t, []string{crm.EventTypeNoteCreated}, f.publisher.types())
	})

	t.Run("target in another tenant", func(t *testing.T) {
		f := newNoteFixture()
		lead := newJaneDoe(t, uuid.New(), uuid.New())
		f.leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

		_, err := f.service.Create(context.Background(), tenantUser(uuid.New()), CreateNoteRequest{
			RelatedType: string(crm.RelatedTypeLead),
			RelatedID:   lead.ID,
			Content:     "hello",
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.notes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing target", func(t *testing.T) {
		f := newNoteFixture()
		missing := uuid.New()
		f.leads.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(context.Background(), tenantUser(uuid.New()), CreateNoteRequest{
			RelatedType: string(crm.RelatedTypeLead),
			RelatedID:   missing,
			Content:     "hello",
		})
		require.Error(t, err)
		assert.Equal(t, "Lead not found", err.Error())
	})
}

func TestNoteService_ListFor_HidesPrivateNotesOfOthers(t *testing.T) {
	f := newNoteFixture()
	tenantID := uuid.New()
	actor := tenantUser(tenantID)
	lead := newJaneDoe(t, tenantID, uuid.New())
	f.leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	viewer := mock.MatchedBy(func(filter crm.NoteFilter) bool {
		return filter.ViewerID != nil && *filter.ViewerID == actor.UserID && filter.RelatedTo.ID == lead.ID
	})
	f.notes.On("FindAll", mock.Anything, viewer).Return([]crm.Note{}, nil)
	f.notes.On("Count", mock.Anything, viewer).Return(int64(0), nil)

	_, _, err := f.service.ListFor(context.Background(), actor, NoteListFilter{
		RelatedType: string(crm.RelatedTypeLead),
		RelatedID:   lead.ID.String(),
	})
	require.NoError(t, err)
	f.notes.AssertExpectations(t)
}

func TestNoteService_Delete(t *testing.T) {
	tenantID := uuid.New()
	author := tenantUser(tenantID)
	newNote := func(t *testing.T) *crm.Note {
		note, err := crm.NewNote(tenantID, author.UserID, crm.RelatedTo{Type: crm.RelatedTypeLead, ID: uuid.New()}, "", "text", false)
		require.NoError(t, err)
		note.ClearDomainEvents()
		return note
	}

	t.Run("author", func(t *testing.T) {
		f := newNoteFixture()
		note := newNote(t)
		f.notes.On("FindByID", mock.Anything, note.ID).Return(note, nil)
		f.notes.On("Delete", mock.Anything, note.ID).Return(nil)

		require.NoError(t, f.service.Delete(context.Background(), author, note.ID))
		assert.Equal(t, []string{crm.EventTypeNoteDeleted}, f.publisher.types())
	})

	t.Run("colleague in the same tenant", func(t *testing.T) {
		f := newNoteFixture()
		note := newNote(t)
		f.notes.On("FindByID", mock.Anything, note.ID).Return(note, nil)

		err := f.service.Delete(context.Background(), tenantUser(tenantID), note.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.notes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("operator", func(t *testing.T) {
		f := newNoteFixture()
		note := newNote(t)
		f.notes.On("FindByID", mock.Anything, note.ID).Return(note, nil)
		f.notes.On("Delete", mock.Anything, note.ID).Return(nil)

		require.NoError(t, f.service.Delete(context.Background(), operator(), note.ID))
	})
}

func TestActivityService_List_DefaultsToNewestFirst(t *testing.T) {
	repo := new(MockActivityLogRepository)
	svc := NewActivityService(repo)
	tenantID := uuid.New()
	entityID := uuid.New()
	match := mock.MatchedBy(func(f crm.ActivityFilter) bool {
		return f.OrderBy == "occurred_at" && *f.TenantID == tenantID && *f.EntityID == entityID
	})
	entry := crm.NewActivityLog(crm.NewRecordEvent(crm.EventTypeLeadCreated, crm.AggregateTypeLead, entityID, tenantID, uuid.New(), nil))
	repo.On("FindAll", mock.Anything, match).Return([]crm.ActivityLog{*entry}, nil)
	repo.On("Count", mock.Anything, match).Return(int64(1), nil)

	items, total, err := svc.List(context.Background(), tenantUser(tenantID), ActivityListFilter{EntityID: entityID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, crm.EventTypeLeadCreated, items[0].EventName)
}
