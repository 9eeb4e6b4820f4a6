package handlers

import (
	"net/http"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	*BaseHandler
	documents *services.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: NewBaseHandler(),
		documents:   documents,
	}
}

// RegisterRoutes registers document routes
func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	documents := router.Group("/documents")
	{
		documents.GET("", h.ListDocuments)
		documents.POST("", h.CreateDocument)
		documents.GET("/:id", h.GetDocument)
		documents.PUT("/:id", h.UpdateDocument)
		documents.DELETE("/:id", h.DeleteDocument)
		documents.POST("/:id/file", h.UploadFile)
		documents.GET("/:id/file-url", h.FileURL)
	}
}

// ListDocuments lists documents
// @Summary List documents
// @Tags documents
// @Param case_id query string false "Case"
// @Param company_id query string false "Company"
// @Param doc_type_id query string false "Document type"
// @Param statuses query string false "Comma-separated statuses"
// @Success 200 {array} entities.Document
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	q := newQueryParams(c)
	filters := repositories.DocumentFilters{
		CaseID:    q.uuid("case_id"),
		CompanyID: q.uuid("company_id"),
		DocTypeID: q.uuid("doc_type_id"),
		Statuses:  queryEnumList(q, "statuses", entities.DocumentStatuses),
	}
	if q.err != nil {
		h.RespondBadRequest(c, q.err.Error())
		return
	}

	documents, err := h.documents.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, documents)
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	document, err := h.documents.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, document, document != nil, "Document")
}

// CreateDocument registers a document slot; the file is attached separately
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var input repositories.CreateDocumentInput
	if !h.BindJSON(c, &input) {
		return
	}

	document, err := h.documents.Create(c.Request.Context(), input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondCreated(c, document)
}

func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var input repositories.UpdateDocumentInput
	if !h.BindJSON(c, &input) {
		return
	}

	document, err := h.documents.Update(c.Request.Context(), id, input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, document)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), id); err != nil {
		h.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadFile attaches a file to a document and submits it
// @Summary Upload a document file
// @Tags documents
// @Accept multipart/form-data
// @Param file formData file true "Document file"
// @Success 200 {object} entities.Document
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Router /documents/{id}/file [post]
func (h *DocumentHandler) UploadFile(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	// Parse multipart form
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.RespondBadRequest(c, "No file uploaded or invalid file", err.Error())
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	document, err := h.documents.UploadFile(c.Request.Context(), id, services.UploadFileParams{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	})
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, document)
}

// FileURL returns a signed download link
func (h *DocumentHandler) FileURL(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	url, err := h.documents.FileURL(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"url": url})
}
