package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
)

// FileHandler serves files kept by local storage to authenticated callers.
// It answers the links local storage hands out as signed URLs and refuses
// them once the expiry has passed.
type FileHandler struct {
	*BaseHandler
	storage services.StorageService
	now     func() time.Time
}

func NewFileHandler(storage services.StorageService) *FileHandler {
	return &FileHandler{
		BaseHandler: NewBaseHandler(),
		storage:     storage,
		now:         time.Now,
	}
}

func (h *FileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/files/*path", h.Download)
}

func (h *FileHandler) Download(c *gin.Context) {
	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil || h.now().Unix() > expires {
		h.RespondForbidden(c, "Link expired")
		return
	}

	rel := strings.TrimPrefix(c.Param("path"), "/")
	reader, err := h.storage.Get(c.Request.Context(), rel)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.RespondNotFound(c, "File not found")
			return
		}
		h.RespondBadRequest(c, "Invalid file path", err.Error())
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(path.Ext(rel))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+path.Base(rel)+"\"")
	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}
