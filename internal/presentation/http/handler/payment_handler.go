package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/internal/application/service"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/sangkips/schoolfees-api/internal/domain/gateway"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/request"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment attempt HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Initiate starts a payment for a collection form. Counter methods settle
// at once; online methods return a redirect to the provider.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req request.CollectionDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	attempt, quote, err := h.paymentService.Initiate(c.Request.Context(), req.ToDraft())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment "+attempt.Status.String(), gin.H{
		"attempt": attempt,
		"quote":   quote,
	})
}

func (h *PaymentHandler) Get(c *gin.Context) {
	attempt, err := h.paymentService.GetAttempt(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment retrieved successfully", attempt)
}

func (h *PaymentHandler) List(c *gin.Context) {
	var q request.PaymentListQuery
	_ = c.ShouldBindQuery(&q)

	var status *enum.PaymentStatus
	if q.Status != "" {
		s, err := enum.ParsePaymentStatus(q.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		status = &s
	}

	attempts, err := h.paymentService.ListAttempts(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payments retrieved successfully", attempts)
}

// Confirm settles an attempt by hand
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req request.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	attempt, err := h.paymentService.Confirm(c.Request.Context(), c.Param("id"), req.Status == "succeeded", req.Reference, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment "+attempt.Status.String(), attempt)
}

// Notification receives the provider's asynchronous status callback
func (h *PaymentHandler) Notification(c *gin.Context) {
	var n gateway.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	attempt, err := h.paymentService.HandleNotification(c.Request.Context(), n)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Notification processed", attempt)
}
