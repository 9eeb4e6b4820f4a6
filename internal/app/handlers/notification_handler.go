package handlers

import (
	"strconv"

	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
)

const maxDrain = 50

// NotificationHandler hands queued toast notifications to the portal
type NotificationHandler struct {
	*BaseHandler
	notifier *services.QueueNotifier
}

func NewNotificationHandler(notifier *services.QueueNotifier) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler: NewBaseHandler(),
		notifier:    notifier,
	}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/notifications", h.Drain)
}

// Drain returns and clears the caller's pending notifications, oldest first
func (h *NotificationHandler) Drain(c *gin.Context) {
	userCtx, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}

	limit := maxDrain
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v < maxDrain {
		limit = v
	}

	notes, err := h.notifier.Drain(c.Request.Context(), userCtx.UserID, limit)
	if err != nil {
		h.RespondInternalError(c, "Failed to load notifications", err.Error())
		return
	}
	h.RespondSuccess(c, notes)
}
