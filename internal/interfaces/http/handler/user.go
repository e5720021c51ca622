package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/ramenshop/backend/internal/application/identity"
)

// UserHandler handles admin user management
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        search    query string false "Email or name contains"
// @Param        role      query string false "customer, employee or admin"
// @Param        status    query string false "active, locked or disabled"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]identityapp.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var f identityapp.UserListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.userService.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Get godoc
// @ID           getUser
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// CreateStaff godoc
// @ID           createStaff
// @Summary      Create a staff account
// @Description  Creates an employee or admin along with their employee profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateStaffInput true "Staff details"
// @Success      201 {object} APIResponse[identityapp.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [post]
func (h *UserHandler) CreateStaff(c *gin.Context) {
	var req identityapp.CreateStaffInput
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.CreateStaff(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// SetRole godoc
// @ID           setUserRole
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "User ID" format(uuid)
// @Param        request body identityapp.SetRoleInput true "New role"
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/role [put]
func (h *UserHandler) SetRole(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req identityapp.SetRoleInput
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.SetRole(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Disable godoc
// @ID           disableUser
// @Summary      Disable a user
// @Description  Disabled users cannot log in and their tokens are revoked
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/disable [post]
func (h *UserHandler) Disable(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Disable(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Enable godoc
// @ID           enableUser
// @Summary      Re-enable a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/enable [post]
func (h *UserHandler) Enable(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Enable(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
