package handlers

import (
	"github.com/casedesk/casedesk/internal/app/middleware"
	appservices "github.com/casedesk/casedesk/internal/app/services"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by every handler
type RouteRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// RegisterRoutes mounts every authenticated API route on the group
func RegisterRoutes(api *gin.RouterGroup, sm *appservices.ServiceManager) {
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(sm.Auth, sm.Profiles))

	registrars := []RouteRegistrar{
		NewProfileHandler(sm.Profiles),
		NewCompanyHandler(sm.Companies, sm.Cases),
		NewCaseHandler(sm.Cases),
		NewDocumentHandler(sm.Documents),
		NewPaymentHandler(sm.Payments),
		NewCommunicationHandler(sm.Communications),
		NewTaskHandler(sm.Tasks, sm.TaskCategories),
		NewLookupHandler(sm.Catalog),
		NewAdminHandler(sm.Admin),
		NewNotificationHandler(sm.Notifier),
	}
	if sm.Config.UseLocalStorage() {
		registrars = append(registrars, NewFileHandler(sm.Storage))
	}

	for _, r := range registrars {
		r.RegisterRoutes(protected)
	}
}
