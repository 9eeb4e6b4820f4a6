package handlers

import (
	"net/http"

	"github.com/casedesk/casedesk/internal/app/middleware"
	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
)

// CaseHandler handles case HTTP requests
type CaseHandler struct {
	*BaseHandler
	cases *services.CaseService
}

func NewCaseHandler(cases *services.CaseService) *CaseHandler {
	return &CaseHandler{
		BaseHandler: NewBaseHandler(),
		cases:       cases,
	}
}

// RegisterRoutes registers case routes
func (h *CaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	cases := router.Group("/cases")
	{
		cases.GET("", h.ListCases)
		cases.POST("", middleware.StaffOnly(), h.CreateCase)
		cases.GET("/:id", h.GetCase)
		cases.PUT("/:id", middleware.StaffOnly(), h.UpdateCase)
		cases.DELETE("/:id", middleware.StaffOnly(), h.DeleteCase)
	}
}

// ListCases lists cases
// @Summary List cases
// @Tags cases
// @Param company_id query string false "Company"
// @Param service_id query string false "Service"
// @Param assigned_to query string false "Assignee"
// @Param case_status query string false "Status"
// @Success 200 {array} entities.Case
// @Router /cases [get]
func (h *CaseHandler) ListCases(c *gin.Context) {
	q := newQueryParams(c)
	filters := repositories.CaseFilters{
		CompanyID:  q.uuid("company_id"),
		ServiceID:  q.uuid("service_id"),
		AssignedTo: q.uuid("assigned_to"),
		Status:     queryEnum(q, "case_status", entities.CaseStatuses),
	}
	if q.err != nil {
		h.RespondBadRequest(c, q.err.Error())
		return
	}

	cases, err := h.cases.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, cases)
}

func (h *CaseHandler) GetCase(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	kase, err := h.cases.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, kase, kase != nil, "Case")
}

func (h *CaseHandler) CreateCase(c *gin.Context) {
	var input repositories.CreateCaseInput
	if !h.BindJSON(c, &input) {
		return
	}

	kase, err := h.cases.Create(c.Request.Context(), input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondCreated(c, kase)
}

func (h *CaseHandler) UpdateCase(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var input repositories.UpdateCaseInput
	if !h.BindJSON(c, &input) {
		return
	}

	kase, err := h.cases.Update(c.Request.Context(), id, input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, kase)
}

func (h *CaseHandler) DeleteCase(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.cases.Delete(c.Request.Context(), id); err != nil {
		h.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
