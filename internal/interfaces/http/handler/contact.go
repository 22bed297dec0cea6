package handler

import (
	"github.com/crm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// ContactHandler handles contact HTTP requests
type ContactHandler struct {
	BaseHandler
	contactService *crm.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *crm.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// List godoc
// @Summary  List contacts
// @Tags     contacts
// @Produce  json
// @Param    accountId query string false "Account ID" format(uuid)
// @Param    page query int false "Page number" default(1)
// @Param    pageSize query int false "Items per page" default(20) maximum(100)
// @Success  200 {object} dto.Response{data=[]crm.ContactResponse}
// @Security BearerAuth
// @Router   /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter crm.ContactListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	contacts, total, err := h.contactService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, "Contacts retrieved successfully", contacts, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary  Create a contact
// @Tags     contacts
// @Accept   json
// @Produce  json
// @Param    request body crm.CreateContactRequest true "Contact"
// @Success  201 {object} dto.Response{data=crm.ContactResponse}
// @Failure  409 {object} dto.Response
// @Security BearerAuth
// @Router   /contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req crm.CreateContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Contact created successfully", contact)
}

// GetByID godoc
// @Summary  Get a contact
// @Tags     contacts
// @Produce  json
// @Param    id path string true "Contact ID" format(uuid)
// @Success  200 {object} dto.Response{data=crm.ContactResponse}
// @Failure  404 {object} dto.Response
// @Security BearerAuth
// @Router   /contacts/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "contact")
	if !ok {
		return
	}

	contact, err := h.contactService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Contact retrieved successfully", contact)
}

// Update godoc
// @Summary  Update a contact
// @Tags     contacts
// @Accept   json
// @Produce  json
// @Param    id path string true "Contact ID" format(uuid)
// @Param    request body crm.UpdateContactRequest true "Changed fields"
// @Success  200 {object} dto.Response{data=crm.ContactResponse}
// @Security BearerAuth
// @Router   /contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "contact")
	if !ok {
		return
	}
	var req crm.UpdateContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Contact updated successfully", contact)
}

// Delete godoc
// @Summary  Delete a contact
// @Tags     contacts
// @Param    id path string true "Contact ID" format(uuid)
// @Success  200 {object} dto.Response
// @Security BearerAuth
// @Router   /contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "contact")
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Contact deleted successfully", nil)
}
