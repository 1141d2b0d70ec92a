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

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.POST("", middleware.RequireRole(model.RoleKlien), h.CreateOrder)
		orders.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan, model.RoleKlien), h.ListOrders)
		orders.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan, model.RoleKlien), h.GetOrder)
		orders.PUT("/:id/status", middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan), h.UpdateStatus)
		orders.PATCH("/:id/assign", middleware.RequireRole(model.RoleAdmin), h.AssignAccountant)
	}
}

// CreateOrder handles POST /orders
// @Summary      Create order
// @Description  Places an order for an active service package. The total amount is snapshotted from the package price.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	clientID, _ := currentUser(c)
	order, err := h.orderService.CreateOrder(c.Request.Context(), clientID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListOrders handles GET /orders
// @Summary      List orders
// @Description  Lists orders scoped to the caller: clients see their own, accountants see assignments, admins see all.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by order status"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	p := pagination.Parse(c)
	actorID, role := currentUser(c)

	filter := service.OrderListFilter{
		Status: c.Query("status"),
		Page:   p.Page,
		Limit:  p.Limit,
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), actorID, role, filter)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
	}))
}

// GetOrder handles GET /orders/:id
// @Summary      Get order
// @Description  Fetch a single order. Callers without access to the order receive 404.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actorID, role := currentUser(c)

	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"), actorID, role)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdateStatus handles PUT /orders/:id/status
// @Summary      Update order status
// @Description  Moves an order along its lifecycle. Illegal transitions are rejected; COMPLETED requires a result document.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Order ID"
// @Param        payload  body      service.UpdateOrderStatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID, _ := currentUser(c)
	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), actorID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// AssignAccountant handles PATCH /orders/:id/assign
// @Summary      Assign accountant
// @Description  Assigns an accountant to work the order. Admin only.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Order ID"
// @Param        payload  body      service.AssignAccountantRequest  true  "Accountant assignment"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /orders/{id}/assign [patch]
func (h *OrderHandler) AssignAccountant(c *gin.Context) {
	var req service.AssignAccountantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID, _ := currentUser(c)
	order, err := h.orderService.AssignAccountant(c.Request.Context(), c.Param("id"), actorID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
