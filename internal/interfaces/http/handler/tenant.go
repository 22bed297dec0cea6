package handler

import (
	"context"

	"github.com/crm/backend/internal/application/identity"
	domainidentity "github.com/crm/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHandler handles tenant management HTTP requests. Every route is
// reserved to platform operators.
type TenantHandler struct {
	BaseHandler
	tenantService *identity.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *identity.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

// Create godoc
// @Summary      Register a tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body identity.CreateTenantRequest true "Tenant creation request"
// @Success      201 {object} dto.Response{data=identity.TenantResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req identity.CreateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Tenant registered successfully", tenant)
}

// GetByID godoc
// @Summary      Get a tenant by ID
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.TenantResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "tenant")
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// List godoc
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Param        search query string false "Name or slug"
// @Param        page query int false "Page number" default(1)
// @Param        pageSize query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]identity.TenantResponse}
// @Security     BearerAuth
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter identity.TenantListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	tenants, total, err := h.tenantService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, "", tenants, total, filter.Page, filter.PageSize)
}

// Suspend godoc
// @Summary      Suspend a tenant
// @Description  Suspended tenants are rejected by the tenant middleware until reactivated
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.TenantResponse}
// @Security     BearerAuth
// @Router       /tenants/{id}/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	h.transition(c, "Tenant suspended", h.tenantService.Suspend)
}

// Reactivate godoc
// @Summary      Reactivate a suspended tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.TenantResponse}
// @Security     BearerAuth
// @Router       /tenants/{id}/reactivate [post]
func (h *TenantHandler) Reactivate(c *gin.Context) {
	h.transition(c, "Tenant reactivated", h.tenantService.Reactivate)
}

type tenantTransition func(ctx context.Context, actor domainidentity.Actor, id uuid.UUID) (*identity.TenantResponse, error)

func (h *TenantHandler) transition(c *gin.Context, message string, apply tenantTransition) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "tenant")
	if !ok {
		return
	}

	tenant, err := apply(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, message, tenant)
}
