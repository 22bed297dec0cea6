package handler

import (
	"github.com/crm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// ActivityHandler serves the tenant audit trail
type ActivityHandler struct {
	BaseHandler
	activityService *crm.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *crm.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List godoc
// @Summary  List audit entries
// @Tags     activities
// @Produce  json
// @Param    entityType query string false "Lead, Account, Contact, Opportunity or Note"
// @Param    entityId query string false "Record ID" format(uuid)
// @Param    eventName query string false "Event name, e.g. lead.converted"
// @Success  200 {object} dto.Response{data=[]crm.ActivityResponse}
// @Security BearerAuth
// @Router   /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter crm.ActivityListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	activities, total, err := h.activityService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, "Activities retrieved successfully", activities, total, filter.Page, filter.PageSize)
}
