package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	documents := router.Group("/documents", middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan, model.RoleKlien))
	{
		documents.POST("", h.Upload)
		documents.DELETE("/:id", h.Delete)
	}

	router.GET("/orders/:id/documents",
		middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan, model.RoleKlien), h.ListByOrder)
}

// Upload handles POST /documents
// @Summary      Upload document
// @Description  Registers an uploaded file for an order. Only accountants and admins may mark a document as a result deliverable.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UploadDocumentRequest  true  "Document metadata"
// @Success      201      {object}  response.Response{data=service.DocumentResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	var req service.UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	uploaderID, role := currentUser(c)
	doc, err := h.documentService.Upload(c.Request.Context(), uploaderID, role, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

// ListByOrder handles GET /orders/:id/documents
// @Summary      List order documents
// @Description  Lists all documents attached to an order
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=[]service.DocumentResponse}
// @Failure      400  {object}  response.Response
// @Router       /orders/{id}/documents [get]
func (h *DocumentHandler) ListByOrder(c *gin.Context) {
	docs, err := h.documentService.ListByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, docs))
}

// Delete handles DELETE /documents/:id
// @Summary      Delete document
// @Description  Removes a document. Non-admins may only remove their own uploads.
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	actorID, role := currentUser(c)

	if err := h.documentService.Delete(c.Request.Context(), c.Param("id"), actorID, role); err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Document deleted"}))
}
