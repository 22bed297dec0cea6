package handler

import (
	"github.com/crm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// OpportunityHandler handles opportunity HTTP requests
type OpportunityHandler struct {
	BaseHandler
	opportunityService *crm.OpportunityService
}

// NewOpportunityHandler creates a new opportunity handler
func NewOpportunityHandler(opportunityService *crm.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{opportunityService: opportunityService}
}

// List godoc
// @Summary  List opportunities
// @Tags     opportunities
// @Produce  json
// @Param    stage query string false "Sales stage"
// @Param    page query int false "Page number" default(1)
// @Param    pageSize query int false "Items per page" default(20) maximum(100)
// @Success  200 {object} dto.Response{data=[]crm.OpportunityResponse}
// @Security BearerAuth
// @Router   /opportunities [get]
func (h *OpportunityHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter crm.OpportunityListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	opportunities, total, err := h.opportunityService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, "Opportunities retrieved successfully", opportunities, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary  Create an opportunity
// @Tags     opportunities
// @Accept   json
// @Produce  json
// @Param    request body crm.CreateOpportunityRequest true "Opportunity"
// @Success  201 {object} dto.Response{data=crm.OpportunityResponse}
// @Failure  409 {object} dto.Response
// @Security BearerAuth
// @Router   /opportunities [post]
func (h *OpportunityHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req crm.CreateOpportunityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	opportunity, err := h.opportunityService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Opportunity created successfully", opportunity)
}

// GetByID godoc
// @Summary  Get an opportunity
// @Tags     opportunities
// @Produce  json
// @Param    id path string true "Opportunity ID" format(uuid)
// @Success  200 {object} dto.Response{data=crm.OpportunityResponse}
// @Failure  404 {object} dto.Response
// @Security BearerAuth
// @Router   /opportunities/{id} [get]
func (h *OpportunityHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "opportunity")
	if !ok {
		return
	}

	opportunity, err := h.opportunityService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Opportunity retrieved successfully", opportunity)
}

// Update godoc
// @Summary  Update an opportunity
// @Tags     opportunities
// @Accept   json
// @Produce  json
// @Param    id path string true "Opportunity ID" format(uuid)
// @Param    request body crm.UpdateOpportunityRequest true "Changed fields"
// @Success  200 {object} dto.Response{data=crm.OpportunityResponse}
// @Security BearerAuth
// @Router   /opportunities/{id} [put]
func (h *OpportunityHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "opportunity")
	if !ok {
		return
	}
	var req crm.UpdateOpportunityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	opportunity, err := h.opportunityService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Opportunity updated successfully", opportunity)
}

// Delete godoc
// @Summary  Delete an opportunity
// @Tags     opportunities
// @Param    id path string true "Opportunity ID" format(uuid)
// @Success  200 {object} dto.Response
// @Security BearerAuth
// @Router   /opportunities/{id} [delete]
func (h *OpportunityHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "opportunity")
	if !ok {
		return
	}

	if err := h.opportunityService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Opportunity deleted successfully", nil)
}
