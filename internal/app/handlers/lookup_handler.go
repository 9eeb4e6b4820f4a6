package handlers

import (
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
)

// LookupHandler serves the read-only catalog: services, service categories
// and document types.
type LookupHandler struct {
	*BaseHandler
	catalog *services.CatalogService
}

func NewLookupHandler(catalog *services.CatalogService) *LookupHandler {
	return &LookupHandler{
		BaseHandler: NewBaseHandler(),
		catalog:     catalog,
	}
}

func (h *LookupHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/services", h.ListServices)
	router.GET("/services/:id", h.GetService)
	router.GET("/service-categories", h.ListServiceCategories)
	router.GET("/document-types", h.ListDocumentTypes)
	router.GET("/document-types/:id", h.GetDocumentType)
}

func (h *LookupHandler) ListServices(c *gin.Context) {
	q := newQueryParams(c)
	filters := repositories.ServiceFilters{CategoryID: q.uuid("category_id")}
	if q.err != nil {
		h.RespondBadRequest(c, q.err.Error())
		return
	}

	list, err := h.catalog.Services(c.Request.Context(), filters)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, list)
}

func (h *LookupHandler) GetService(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	service, err := h.catalog.Service(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, service, service != nil, "Service")
}

func (h *LookupHandler) ListServiceCategories(c *gin.Context) {
	list, err := h.catalog.ServiceCategories(c.Request.Context())
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, list)
}

func (h *LookupHandler) ListDocumentTypes(c *gin.Context) {
	list, err := h.catalog.DocumentTypes(c.Request.Context())
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, list)
}

func (h *LookupHandler) GetDocumentType(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	docType, err := h.catalog.DocumentType(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, docType, docType != nil, "Document type")
}
