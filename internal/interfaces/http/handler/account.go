package handler

import (
	"github.com/crm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles account HTTP requests
type AccountHandler struct {
	BaseHandler
	accountService *crm.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *crm.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// List godoc
// @Summary  List accounts
// @Tags     accounts
// @Produce  json
// @Param    accountType query string false "Account type"
// @Param    page query int false "Page number" default(1)
// @Param    pageSize query int false "Items per page" default(20) maximum(100)
// @Success  200 {object} dto.Response{data=[]crm.AccountResponse}
// @Security BearerAuth
// @Router   /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter crm.AccountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	accounts, total, err := h.accountService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, "Accounts retrieved successfully", accounts, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary  Create an account
// @Tags     accounts
// @Accept   json
// @Produce  json
// @Param    request body crm.CreateAccountRequest true "Account"
// @Success  201 {object} dto.Response{data=crm.AccountResponse}
// @Failure  409 {object} dto.Response
// @Security BearerAuth
// @Router   /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req crm.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Account created successfully", account)
}

// GetByID godoc
// @Summary  Get an account
// @Tags     accounts
// @Produce  json
// @Param    id path string true "Account ID" format(uuid)
// @Success  200 {object} dto.Response{data=crm.AccountResponse}
// @Failure  404 {object} dto.Response
// @Security BearerAuth
// @Router   /accounts/{id} [get]
func (h *AccountHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "account")
	if !ok {
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Account retrieved successfully", account)
}

// Update godoc
// @Summary  Update an account
// @Tags     accounts
// @Accept   json
// @Produce  json
// @Param    id path string true "Account ID" format(uuid)
// @Param    request body crm.UpdateAccountRequest true "Changed fields"
// @Success  200 {object} dto.Response{data=crm.AccountResponse}
// @Security BearerAuth
// @Router   /accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "account")
	if !ok {
		return
	}
	var req crm.UpdateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Account updated successfully", account)
}

// Delete godoc
// @Summary  Delete an account
// @Tags     accounts
// @Param    id path string true "Account ID" format(uuid)
// @Success  200 {object} dto.Response
// @Security BearerAuth
// @Router   /accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "account")
	if !ok {
		return
	}

	if err := h.accountService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Account deleted successfully", nil)
}
