package handlers

import (
	"net/http"

	"github.com/casedesk/casedesk/internal/app/middleware"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company HTTP requests
type CompanyHandler struct {
	*BaseHandler
	companies *services.CompanyService
	cases     *services.CaseService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companies *services.CompanyService, cases *services.CaseService) *CompanyHandler {
	return &CompanyHandler{
		BaseHandler: NewBaseHandler(),
		companies:   companies,
		cases:       cases,
	}
}

// RegisterRoutes registers company routes
func (h *CompanyHandler) RegisterRoutes(router *gin.RouterGroup) {
	companies := router.Group("/companies")
	{
		companies.GET("/me", h.MyCompany)
		companies.GET("", middleware.StaffOnly(), h.ListCompanies)
		companies.POST("", middleware.StaffOnly(), h.CreateCompany)
		companies.GET("/:id", h.GetCompany)
		companies.PUT("/:id", middleware.StaffOnly(), h.UpdateCompany)
		companies.DELETE("/:id", middleware.StaffOnly(), h.DeleteCompany)
		companies.GET("/:id/cases/enriched", h.EnrichedCases)
	}
}

// ListCompanies lists companies
// @Summary List companies
// @Tags companies
// @Param account_manager_id query string false "Account manager"
// @Param search query string false "Name or registration number"
// @Success 200 {array} entities.Company
// @Router /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	q := newQueryParams(c)
	filters := repositories.CompanyFilters{
		AccountManagerID: q.uuid("account_manager_id"),
		Search:           c.Query("search"),
	}
	if q.err != nil {
		h.RespondBadRequest(c, q.err.Error())
		return
	}

	companies, err := h.companies.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, companies)
}

// MyCompany returns the company linked to the caller's email
// @Summary Get the caller's company
// @Tags companies
// @Success 200 {object} entities.Company
// @Router /companies/me [get]
func (h *CompanyHandler) MyCompany(c *gin.Context) {
	userCtx, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}

	company, err := h.companies.ForUser(c.Request.Context(), userCtx.UserID)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, company, company != nil, "Company")
}

func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	company, err := h.companies.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, company, company != nil, "Company")
}

func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var input repositories.CreateCompanyInput
	if !h.BindJSON(c, &input) {
		return
	}

	company, err := h.companies.Create(c.Request.Context(), input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondCreated(c, company)
}

func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var input repositories.UpdateCompanyInput
	if !h.BindJSON(c, &input) {
		return
	}

	company, err := h.companies.Update(c.Request.Context(), id, input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, company)
}

func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.companies.Delete(c.Request.Context(), id); err != nil {
		h.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EnrichedCases returns the company's cases with service, task and document
// aggregates for the dashboard
// @Summary List enriched cases of a company
// @Tags companies
// @Success 200 {object} services.EnrichedCases
// @Router /companies/{id}/cases/enriched [get]
func (h *CompanyHandler) EnrichedCases(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	result, err := h.cases.CompanyCasesEnriched(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, result)
}
