package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/school/backend/internal/application/identity"
	"github.com/school/backend/internal/domain/identity"
	"github.com/school/backend/internal/interfaces/http/middleware"
)

// StaffHandler manages user accounts
type StaffHandler struct {
	BaseHandler
	staffService *appidentity.StaffService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(base BaseHandler, staffService *appidentity.StaffService) *StaffHandler {
	return &StaffHandler{BaseHandler: base, staffService: staffService}
}

// CreateStaffRequest is the body for a new staff account
type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=ADMIN STAFF"`
}

// ResetPasswordRequest sets a new password on another account
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}

// Create godoc
// @ID           createStaff
// @Summary      Create a staff account
// @Description  Only a SUPER_ADMIN may create ADMIN accounts
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        request body CreateStaffRequest true "Account"
// @Success      201 {object} APIResponse[appidentity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req CreateStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.staffService.Create(c.Request.Context(), middleware.CurrentUser(c), appidentity.CreateStaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List godoc
// @ID           listStaff
// @Summary      List staff accounts
// @Tags         staff
// @Produce      json
// @Param        q query string false "Name or email contains"
// @Param        role query string false "ADMIN or STAFF"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[[]appidentity.UserDTO]
// @Security     BearerAuth
// @Router       /auth/staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	result, err := h.staffService.List(c.Request.Context(), appidentity.ListStaffInput{
		Search: search(c),
		Role:   c.Query("role"),
		Page:   page(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, result)
}

// Deactivate godoc
// @ID           deactivateStaff
// @Summary      Deactivate a staff account
// @Tags         staff
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/staff/{id}/deactivate [patch]
func (h *StaffHandler) Deactivate(c *gin.Context) {
	id, err := pathID(c, "id", identity.ErrUserNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	user, err := h.staffService.Deactivate(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Reactivate godoc
// @ID           reactivateStaff
// @Summary      Reactivate a staff account
// @Tags         staff
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/staff/{id}/reactivate [patch]
func (h *StaffHandler) Reactivate(c *gin.Context) {
	id, err := pathID(c, "id", identity.ErrUserNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	user, err := h.staffService.Reactivate(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetPassword godoc
// @ID           resetStaffPassword
// @Summary      Reset a staff account's password
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body ResetPasswordRequest true "New password"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/staff/{id}/reset-password [patch]
func (h *StaffHandler) ResetPassword(c *gin.Context) {
	id, err := pathID(c, "id", identity.ErrUserNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.staffService.ResetPassword(c.Request.Context(), middleware.CurrentUser(c), id, req.NewPassword)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
