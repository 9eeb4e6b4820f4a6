package handlers

import (
	"errors"
	"net/http"

	"github.com/casedesk/casedesk/internal/app/middleware"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	config *HandlerConfig
}

// NewBaseHandler creates a new base handler
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{
		config: NewHandlerConfig(),
	}
}

// AuthenticateUser extracts and validates user context
func (b *BaseHandler) AuthenticateUser(c *gin.Context) (*middleware.UserContext, bool) {
	userCtx := middleware.GetUserContext(c)
	if userCtx == nil {
		b.RespondUnauthorized(c, "User authentication required")
		return nil, false
	}
	return userCtx, true
}

// RespondError sends a standardized error response
func (b *BaseHandler) RespondError(c *gin.Context, statusCode int, errorCode, message string, details ...string) {
	response := ErrorResponse{
		Error:   errorCode,
		Message: message,
		Status:  statusCode,
	}

	// Include details based on environment
	if len(details) > 0 && b.config.EnableDebugErrors {
		response.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// RespondServiceError maps a service or resource client error to a response.
// Validation and store messages are meant for users and are passed through.
func (b *BaseHandler) RespondServiceError(c *gin.Context, err error) {
	var ve *repositories.ValidationError
	var se *repositories.StoreError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: ve.Message,
			Status:  http.StatusBadRequest,
			Fields:  ve.Fields,
		})
	case errors.Is(err, repositories.ErrNotFound):
		b.RespondNotFound(c, "Resource not found")
	case errors.Is(err, services.ErrInsufficientPrivileges):
		b.RespondError(c, http.StatusForbidden, "insufficient_permissions", err.Error())
	case errors.Is(err, services.ErrDocumentTooLarge):
		b.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	case errors.Is(err, services.ErrUnsupportedFormat):
		b.RespondError(c, http.StatusUnsupportedMediaType, "unsupported_format", err.Error())
	case errors.Is(err, services.ErrNoFileAttached):
		b.RespondError(c, http.StatusConflict, "no_file", err.Error())
	case errors.As(err, &se):
		b.RespondInternalError(c, se.Error())
	default:
		b.RespondInternalError(c, "Request failed", err.Error())
	}
}

// RespondUnauthorized sends a standardized unauthorized response
func (b *BaseHandler) RespondUnauthorized(c *gin.Context, message string) {
	b.RespondError(c, http.StatusUnauthorized, "unauthorized", message)
}

// RespondBadRequest sends a standardized bad request response
func (b *BaseHandler) RespondBadRequest(c *gin.Context, message string, details ...string) {
	b.RespondError(c, http.StatusBadRequest, "invalid_request", message, details...)
}

// RespondNotFound sends a standardized not found response
func (b *BaseHandler) RespondNotFound(c *gin.Context, message string) {
	b.RespondError(c, http.StatusNotFound, "not_found", message)
}

// RespondForbidden sends a standardized forbidden response
func (b *BaseHandler) RespondForbidden(c *gin.Context, message string) {
	b.RespondError(c, http.StatusForbidden, "access_denied", message)
}

// RespondInternalError sends a standardized internal server error response
func (b *BaseHandler) RespondInternalError(c *gin.Context, message string, details ...string) {
	b.RespondError(c, http.StatusInternalServerError, "internal_error", message, details...)
}

// RespondSuccess sends a standardized success response
func (b *BaseHandler) RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a standardized created response
func (b *BaseHandler) RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondFound sends data, or 404 when the lookup came back empty
func (b *BaseHandler) RespondFound(c *gin.Context, data interface{}, found bool, what string) {
	if !found {
		b.RespondNotFound(c, what+" not found")
		return
	}
	b.RespondSuccess(c, data)
}

// ValidateUUID validates UUID parameter and responds with error if invalid
func (b *BaseHandler) ValidateUUID(c *gin.Context, paramName, uuidStr string) (uuid.UUID, bool) {
	id, err := uuid.Parse(uuidStr)
	if err != nil {
		b.RespondBadRequest(c, "Invalid "+paramName+" format")
		return uuid.Nil, false
	}
	return id, true
}

// PathID parses the :id path parameter
func (b *BaseHandler) PathID(c *gin.Context) (uuid.UUID, bool) {
	return b.ValidateUUID(c, "id", c.Param("id"))
}

// BindJSON decodes the request body, answering 400 on malformed input
func (b *BaseHandler) BindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		b.RespondBadRequest(c, "Invalid request body", err.Error())
		return false
	}
	return true
}
