package handler

import (
	"net/http"

	"github.com/brightclass/brightclass-backend/internal/response"
	"github.com/brightclass/brightclass-backend/internal/service"
	"github.com/brightclass/brightclass-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// SettingHandler handles application settings.
type SettingHandler struct {
	settingService *service.SettingService
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// ListSettings godoc
// GET /api/v1/settings
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingService.GetAll(c.Request.Context())
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// GetSetting godoc
// GET /api/v1/settings/:key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	value, err := h.settingService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

// SetSetting godoc
// PUT /api/v1/settings/:key
func (h *SettingHandler) SetSetting(c *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.settingService.Set(c.Request.Context(), c.Param("key"), req.Value); err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
