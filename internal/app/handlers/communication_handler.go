package handlers

import (
	"net/http"

	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
)

// CommunicationHandler handles message and announcement HTTP requests
type CommunicationHandler struct {
	*BaseHandler
	communications *services.CommunicationService
}

func NewCommunicationHandler(communications *services.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{
		BaseHandler:    NewBaseHandler(),
		communications: communications,
	}
}

// RegisterRoutes registers communication routes
func (h *CommunicationHandler) RegisterRoutes(router *gin.RouterGroup) {
	communications := router.Group("/communications")
	{
		communications.GET("", h.ListCommunications)
		communications.POST("", h.CreateCommunication)
		communications.GET("/:id", h.GetCommunication)
		communications.PUT("/:id", h.UpdateCommunication)
		communications.DELETE("/:id", h.DeleteCommunication)
		communications.POST("/:id/read", h.MarkRead)
	}
}

// ListCommunications lists communications by exactly one selector
// @Summary List communications
// @Tags communications
// @Param case_id query string false "Case"
// @Param company_id query string false "Company"
// @Param task_id query string false "Task"
// @Param user_id query string false "Author"
// @Param general query bool false "Only messages without a parent"
// @Success 200 {array} entities.Communication
// @Failure 400 {object} ErrorResponse
// @Router /communications [get]
func (h *CommunicationHandler) ListCommunications(c *gin.Context) {
	q := newQueryParams(c)
	filters := repositories.CommunicationFilters{
		CaseID:    q.uuid("case_id"),
		CompanyID: q.uuid("company_id"),
		TaskID:    q.uuid("task_id"),
		UserID:    q.uuid("user_id"),
		General:   q.bool("general"),
	}
	if q.err != nil {
		h.RespondBadRequest(c, q.err.Error())
		return
	}

	communications, err := h.communications.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, communications)
}

func (h *CommunicationHandler) GetCommunication(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	communication, err := h.communications.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, communication, communication != nil, "Communication")
}

// CreateCommunication posts a message authored by the caller
func (h *CommunicationHandler) CreateCommunication(c *gin.Context) {
	userCtx, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	var input repositories.CreateCommunicationInput
	if !h.BindJSON(c, &input) {
		return
	}
	input.AuthorID = userCtx.UserID

	communication, err := h.communications.Create(c.Request.Context(), input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondCreated(c, communication)
}

func (h *CommunicationHandler) UpdateCommunication(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var input repositories.UpdateCommunicationInput
	if !h.BindJSON(c, &input) {
		return
	}

	communication, err := h.communications.Update(c.Request.Context(), id, input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, communication)
}

func (h *CommunicationHandler) MarkRead(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	communication, err := h.communications.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, communication)
}

func (h *CommunicationHandler) DeleteCommunication(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.communications.Delete(c.Request.Context(), id); err != nil {
		h.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
