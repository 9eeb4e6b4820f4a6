package handlers

import (
	"net/http"

	"github.com/casedesk/casedesk/internal/app/middleware"
	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	*BaseHandler
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: NewBaseHandler(),
		payments:    payments,
	}
}

// RegisterRoutes registers payment routes; changes are limited to finance staff
func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	finance := middleware.RequireRole(entities.RoleAdmin, entities.RoleManager, entities.RoleFinanceOfficer)

	payments := router.Group("/payments")
	{
		payments.GET("", h.ListPayments)
		payments.POST("", finance, h.CreatePayment)
		payments.GET("/:id", h.GetPayment)
		payments.PUT("/:id", finance, h.UpdatePayment)
		payments.DELETE("/:id", finance, h.DeletePayment)
	}
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	q := newQueryParams(c)
	filters := repositories.PaymentFilters{
		CaseID: q.uuid("case_id"),
		Status: queryEnum(q, "status", entities.PaymentStatuses),
	}
	if q.err != nil {
		h.RespondBadRequest(c, q.err.Error())
		return
	}

	payments, err := h.payments.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, payments)
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	payment, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondFound(c, payment, payment != nil, "Payment")
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var input repositories.CreatePaymentInput
	if !h.BindJSON(c, &input) {
		return
	}

	payment, err := h.payments.Create(c.Request.Context(), input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondCreated(c, payment)
}

func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var input repositories.UpdatePaymentInput
	if !h.BindJSON(c, &input) {
		return
	}

	payment, err := h.payments.Update(c.Request.Context(), id, input)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondSuccess(c, payment)
}

func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.payments.Delete(c.Request.Context(), id); err != nil {
		h.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
