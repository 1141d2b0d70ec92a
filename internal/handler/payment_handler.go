package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/payments")
	{
		payments.POST("", middleware.RequireRole(model.RoleKlien), h.SubmitPayment)
		payments.GET("", middleware.RequireRole(model.RoleAdmin), h.ListPayments)
		payments.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleKlien), h.GetPayment)
		payments.PATCH("/:id/approve", middleware.RequireRole(model.RoleAdmin), h.ReviewPayment)
	}
}

// SubmitPayment handles POST /payments
// @Summary      Submit payment
// @Description  Submits a payment with proof of transfer for an order awaiting payment. Resubmission after rejection is allowed.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SubmitPaymentRequest  true  "Payment Payload"
// @Success      201      {object}  response.Response{data=service.PaymentResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /payments [post]
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var req service.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID, _ := currentUser(c)
	payment, err := h.paymentService.SubmitPayment(c.Request.Context(), actorID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payment))
}

// ListPayments handles GET /payments
// @Summary      List payments
// @Description  Lists payments with an optional status filter. Admin only.
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by payment status"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response
// @Router       /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	p := pagination.Parse(c)

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}

// GetPayment handles GET /payments/:id
// @Summary      Get payment
// @Description  Fetch a single payment by ID
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response{data=service.PaymentResponse}
// @Failure      404  {object}  response.Response
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}

// ReviewPayment handles PATCH /payments/:id/approve
// @Summary      Review payment
// @Description  Approves or rejects a payment pending review. Approval moves the order to IN_PROGRESS, rejection back to PENDING_PAYMENT. Admin only.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Payment ID"
// @Param        payload  body      service.ReviewPaymentRequest  true  "Review decision"
// @Success      200      {object}  response.Response{data=service.PaymentResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /payments/{id}/approve [patch]
func (h *PaymentHandler) ReviewPayment(c *gin.Context) {
	var req service.ReviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	adminID, _ := currentUser(c)
	payment, err := h.paymentService.ReviewPayment(c.Request.Context(), c.Param("id"), adminID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}
