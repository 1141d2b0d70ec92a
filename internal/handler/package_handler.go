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

type PackageHandler struct {
	packageService service.PackageService
}

func NewPackageHandler(packageService service.PackageService) *PackageHandler {
	return &PackageHandler{packageService: packageService}
}

func (h *PackageHandler) RegisterRoutes(router *gin.RouterGroup) {
	services := router.Group("/services")
	{
		// Browsing the catalog requires any authenticated role
		services.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan, model.RoleKlien), h.ListPackages)
		services.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan, model.RoleKlien), h.GetPackage)

		// Catalog management is admin-only
		services.POST("", middleware.RequireRole(model.RoleAdmin), h.CreatePackage)
		services.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdatePackage)
		services.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeletePackage)
	}
}

// ListPackages handles GET /services
// @Summary      List service packages
// @Description  Lists service packages. Non-admin callers only see active packages.
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response
// @Router       /services [get]
func (h *PackageHandler) ListPackages(c *gin.Context) {
	p := pagination.Parse(c)
	_, role := currentUser(c)

	// Clients and accountants only browse the active catalog
	activeOnly := role != model.RoleAdmin

	packages, total, err := h.packageService.ListPackages(c.Request.Context(), activeOnly, p.Page, p.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"services": packages,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}

// GetPackage handles GET /services/:id
// @Summary      Get service package
// @Description  Fetch a single service package by ID
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  response.Response{data=service.PackageResponse}
// @Failure      404  {object}  response.Response
// @Router       /services/{id} [get]
func (h *PackageHandler) GetPackage(c *gin.Context) {
	pkg, err := h.packageService.GetPackage(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pkg))
}

// CreatePackage handles POST /services
// @Summary      Create service package
// @Description  Creates a new accounting service package. Admin only.
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePackageRequest  true  "Create Package Payload"
// @Success      201      {object}  response.Response{data=service.PackageResponse}
// @Failure      400      {object}  response.Response
// @Router       /services [post]
func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req service.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID, _ := currentUser(c)
	pkg, err := h.packageService.CreatePackage(c.Request.Context(), actorID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pkg))
}

// UpdatePackage handles PUT /services/:id
// @Summary      Update service package
// @Description  Updates name, description, price, duration or active flag. Admin only.
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Package ID"
// @Param        payload  body      service.UpdatePackageRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.PackageResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /services/{id} [put]
func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	var req service.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID, _ := currentUser(c)
	pkg, err := h.packageService.UpdatePackage(c.Request.Context(), actorID, c.Param("id"), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pkg))
}

// DeletePackage handles DELETE /services/:id
// @Summary      Delete service package
// @Description  Deletes a package and cascades to its orders, payments, documents and revisions. Admin only.
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /services/{id} [delete]
func (h *PackageHandler) DeletePackage(c *gin.Context) {
	actorID, _ := currentUser(c)

	if err := h.packageService.DeletePackage(c.Request.Context(), actorID, c.Param("id")); err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Service package deleted"}))
}
