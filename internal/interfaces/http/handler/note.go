package handler

import (
	"github.com/crm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// NoteHandler handles note HTTP requests. Notes are always addressed
// through the record they are attached to.
type NoteHandler struct {
	BaseHandler
	noteService *crm.NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService *crm.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// List godoc
// @Summary  List the notes of a record
// @Tags     notes
// @Produce  json
// @Param    relatedType query string true "Lead, Account, Contact or Opportunity"
// @Param    relatedId query string true "Record ID" format(uuid)
// @Success  200 {object} dto.Response{data=[]crm.NoteResponse}
// @Security BearerAuth
// @Router   /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter crm.NoteListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	notes, total, err := h.noteService.ListFor(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, "Notes retrieved successfully", notes, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary  Attach a note to a record
// @Tags     notes
// @Accept   json
// @Produce  json
// @Param    request body crm.CreateNoteRequest true "Note"
// @Success  201 {object} dto.Response{data=crm.NoteResponse}
// @Failure  404 {object} dto.Response
// @Security BearerAuth
// @Router   /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req crm.CreateNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.noteService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Note created successfully", note)
}

// Delete godoc
// @Summary  Delete a note
// @Tags     notes
// @Param    id path string true "Note ID" format(uuid)
// @Success  200 {object} dto.Response
// @Security BearerAuth
// @Router   /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "note")
	if !ok {
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Note deleted successfully", nil)
}
