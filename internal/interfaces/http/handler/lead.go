package handler

import (
	"github.com/crm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// LeadHandler handles lead HTTP requests
type LeadHandler struct {
	BaseHandler
	leadService       *crm.LeadService
	conversionService *crm.ConversionService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *crm.LeadService, conversionService *crm.ConversionService) *LeadHandler {
	return &LeadHandler{
		leadService:       leadService,
		conversionService: conversionService,
	}
}

// List godoc
// @Summary  List leads
// @Tags     leads
// @Produce  json
// @Param    status query string false "Lead status"
// @Param    page query int false "Page number" default(1)
// @Param    pageSize query int false "Items per page" default(20) maximum(100)
// @Success  200 {object} dto.Response{data=[]crm.LeadResponse}
// @Security BearerAuth
// @Router   /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter crm.LeadListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	leads, total, err := h.leadService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, "Leads retrieved successfully", leads, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary  Create a lead
// @Tags     leads
// @Accept   json
// @Produce  json
// @Param    request body crm.CreateLeadRequest true "Lead"
// @Success  201 {object} dto.Response{data=crm.LeadResponse}
// @Failure  409 {object} dto.Response
// @Security BearerAuth
// @Router   /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req crm.CreateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Lead created successfully", lead)
}

// GetByID godoc
// @Summary  Get a lead
// @Tags     leads
// @Produce  json
// @Param    id path string true "Lead ID" format(uuid)
// @Success  200 {object} dto.Response{data=crm.LeadResponse}
// @Failure  404 {object} dto.Response
// @Security BearerAuth
// @Router   /leads/{id} [get]
func (h *LeadHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "lead")
	if !ok {
		return
	}

	lead, err := h.leadService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Lead retrieved successfully", lead)
}

// Update godoc
// @Summary  Update a lead
// @Tags     leads
// @Accept   json
// @Produce  json
// @Param    id path string true "Lead ID" format(uuid)
// @Param    request body crm.UpdateLeadRequest true "Changed fields"
// @Success  200 {object} dto.Response{data=crm.LeadResponse}
// @Security BearerAuth
// @Router   /leads/{id} [put]
func (h *LeadHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "lead")
	if !ok {
		return
	}
	var req crm.UpdateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Lead updated successfully", lead)
}

// Delete godoc
// @Summary  Delete a lead
// @Tags     leads
// @Param    id path string true "Lead ID" format(uuid)
// @Success  200 {object} dto.Response
// @Security BearerAuth
// @Router   /leads/{id} [delete]
func (h *LeadHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "lead")
	if !ok {
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Lead deleted successfully", nil)
}

// Convert godoc
// @Summary      Convert a lead
// @Description  Creates the requested account, contact and opportunity from a lead and marks it converted
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Param        request body crm.ConvertLeadRequest true "Conversion options"
// @Success      200 {object} dto.Response{data=crm.ConvertLeadResult}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "lead")
	if !ok {
		return
	}
	var req crm.ConvertLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.conversionService.ConvertLead(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Lead converted successfully", result)
}
