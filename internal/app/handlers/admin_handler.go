package handlers

import (
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler exposes the user administration operations. The service
// checks the caller's stored role itself, so no route middleware is needed.
type AdminHandler struct {
	*BaseHandler
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(),
		admin:       admin,
	}
}

// DeleteUserRequest represents a user deletion request
type DeleteUserRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// UpdateUserRoleRequest represents a role change request
type UpdateUserRoleRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.POST("/delete-user", h.DeleteUser)
		admin.POST("/update-user-role", h.UpdateUserRole)
	}
}

// DeleteUser removes a user from auth and profiles
// @Summary Delete a user
// @Tags admin
// @Param request body DeleteUserRequest true "User to delete"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} ErrorResponse
// @Router /admin/delete-user [post]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userCtx, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	var req DeleteUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), userCtx.UserID, req.UserID); err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"success": true})
}

// UpdateUserRole changes a user's role
// @Summary Update a user's role
// @Tags admin
// @Param request body UpdateUserRoleRequest true "User and new role"
// @Success 200 {object} entities.Profile
// @Failure 403 {object} ErrorResponse
// @Router /admin/update-user-role [post]
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userCtx, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	var req UpdateUserRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	profile, err := h.admin.UpdateUserRole(c.Request.Context(), userCtx.UserID, req.UserID, req.Role)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, profile)
}
