package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RevisionHandler struct {
	revisionService service.RevisionService
}

func NewRevisionHandler(revisionService service.RevisionService) *RevisionHandler {
	return &RevisionHandler{revisionService: revisionService}
}

func (h *RevisionHandler) RegisterRoutes(router *gin.RouterGroup) {
	revisions := router.Group("/revisions")
	{
		revisions.POST("", middleware.RequireRole(model.RoleKlien), h.RequestRevision)
		revisions.PUT("/:id/status", middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan), h.UpdateStatus)
		revisions.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleKlien), h.CancelRevision)
	}

	router.GET("/orders/:id/revisions",
		middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan, model.RoleKlien), h.ListByOrder)
}

// RequestRevision handles POST /revisions
// @Summary      Request revision
// @Description  Requests a revision on a completed order. Each order allows at most two revision requests.
// @Tags         revisions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.RequestRevisionRequest  true  "Revision Request"
// @Success      201      {object}  response.Response{data=service.RevisionResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /revisions [post]
func (h *RevisionHandler) RequestRevision(c *gin.Context) {
	var req service.RequestRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	requesterID, _ := currentUser(c)
	revision, err := h.revisionService.RequestRevision(c.Request.Context(), requesterID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, revision))
}

// ListByOrder handles GET /orders/:id/revisions
// @Summary      List order revisions
// @Description  Lists all revision requests for an order
// @Tags         revisions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=[]service.RevisionResponse}
// @Failure      400  {object}  response.Response
// @Router       /orders/{id}/revisions [get]
func (h *RevisionHandler) ListByOrder(c *gin.Context) {
	revisions, err := h.revisionService.ListByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, revisions))
}

// UpdateStatus handles PUT /revisions/:id/status
// @Summary      Update revision status
// @Description  Moves a revision request through its workflow (IN_PROGRESS, COMPLETED, REJECTED)
// @Tags         revisions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                               true  "Revision ID"
// @Param        payload  body      service.UpdateRevisionStatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=service.RevisionResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /revisions/{id}/status [put]
func (h *RevisionHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateRevisionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID, _ := currentUser(c)
	revision, err := h.revisionService.UpdateStatus(c.Request.Context(), c.Param("id"), actorID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, revision))
}

// CancelRevision handles DELETE /revisions/:id
// @Summary      Cancel revision
// @Description  Cancels a pending revision request and releases its slot back to the order
// @Tags         revisions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Revision ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /revisions/{id} [delete]
func (h *RevisionHandler) CancelRevision(c *gin.Context) {
	actorID, _ := currentUser(c)

	if err := h.revisionService.CancelRevision(c.Request.Context(), c.Param("id"), actorID); err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Revision request cancelled"}))
}
