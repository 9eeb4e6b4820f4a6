package handlers

import (
	"github.com/casedesk/casedesk/internal/app/middleware"
	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	*BaseHandler
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: NewBaseHandler(),
		profiles:    profiles,
	}
}

// RegisterRoutes registers profile routes
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/me", h.Me)

	profiles := router.Group("/profiles", middleware.StaffOnly())
	{
		profiles.GET("", h.ListProfiles)
		profiles.GET("/:id", h.GetProfile)
	}
}

// Me returns the caller's profile
// @Summary Get current profile
// @Tags profiles
// @Success 200 {object} entities.Profile
// @Router /me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	userCtx, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), userCtx.UserID)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, profile, profile != nil, "Profile")
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	q := newQueryParams(c)
	filters := repositories.ProfileFilters{Role: queryEnum(q, "role", entities.UserRoles)}
	if q.err != nil {
		h.RespondBadRequest(c, q.err.Error())
		return
	}

	profiles, err := h.profiles.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, profiles)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, profile, profile != nil, "Profile")
}
