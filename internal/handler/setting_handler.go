package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingHandler struct {
	settingService service.SettingService
}

func NewSettingHandler(settingService service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

func (h *SettingHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/settings")
	{
		// Settings like bank transfer details are readable by every role
		settings.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan, model.RoleKlien), h.ListSettings)
		settings.GET("/:key", middleware.RequireRole(model.RoleAdmin, model.RoleAkuntan, model.RoleKlien), h.GetSetting)
		settings.PUT("", middleware.RequireRole(model.RoleAdmin), h.UpsertSetting)
	}
}

// ListSettings handles GET /settings
// @Summary      List settings
// @Description  Lists all platform settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.SettingResponse}
// @Router       /settings [get]
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingService.List(c.Request.Context())
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// GetSetting handles GET /settings/:key
// @Summary      Get setting
// @Description  Fetch a single setting by key
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Setting key"
// @Success      200  {object}  response.Response{data=service.SettingResponse}
// @Failure      404  {object}  response.Response
// @Router       /settings/{key} [get]
func (h *SettingHandler) GetSetting(c *gin.Context) {
	setting, err := h.settingService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, setting))
}

// UpsertSetting handles PUT /settings
// @Summary      Upsert setting
// @Description  Creates or updates a platform setting by key. Admin only.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpsertSettingRequest  true  "Setting Payload"
// @Success      200      {object}  response.Response{data=service.SettingResponse}
// @Failure      400      {object}  response.Response
// @Router       /settings [put]
func (h *SettingHandler) UpsertSetting(c *gin.Context) {
	var req service.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID, _ := currentUser(c)
	setting, err := h.settingService.Upsert(c.Request.Context(), actorID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, setting))
}
