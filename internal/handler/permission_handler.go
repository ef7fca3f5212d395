package handler

import (
	"net/http"

	"github.com/brightclass/brightclass-backend/internal/response"
	"github.com/brightclass/brightclass-backend/internal/service"
	"github.com/brightclass/brightclass-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// PermissionHandler handles the permission catalog.
type PermissionHandler struct {
	rbacService *service.RBACService
}

// NewPermissionHandler creates a new PermissionHandler.
func NewPermissionHandler(rbacService *service.RBACService) *PermissionHandler {
	return &PermissionHandler{rbacService: rbacService}
}

// PermissionRequest is the payload for permission create/update.
type PermissionRequest struct {
	Key         string `json:"key" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Group       string `json:"group" binding:"omitempty,max=100"`
}

// ListPermissions godoc
// GET /api/v1/permissions?include_deleted=true
func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	includeDeleted := c.Query("include_deleted") == "true"

	permissions, err := h.rbacService.ListPermissions(c.Request.Context(), includeDeleted)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, permissions)
}

// CreatePermission godoc
// POST /api/v1/permissions
func (h *PermissionHandler) CreatePermission(c *gin.Context) {
	var req PermissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	permission, err := h.rbacService.CreatePermission(c.Request.Context(), req.Key, req.Description, req.Group)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, permission)
}

// UpdatePermission godoc
// PUT /api/v1/permissions/:key
// System permissions reject updates.
func (h *PermissionHandler) UpdatePermission(c *gin.Context) {
	var req struct {
		Description string `json:"description" binding:"omitempty,max=500"`
		Group       string `json:"group" binding:"omitempty,max=100"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	permission, err := h.rbacService.UpdatePermission(c.Request.Context(), c.Param("key"), req.Description, req.Group)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, permission)
}

// DeletePermission godoc
// DELETE /api/v1/permissions/:key?permanent=true
func (h *PermissionHandler) DeletePermission(c *gin.Context) {
	permanent := c.Query("permanent") == "true"

	if err := h.rbacService.DeletePermission(c.Request.Context(), c.Param("key"), permanent); err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// RestorePermission godoc
// POST /api/v1/permissions/:key/restore
func (h *PermissionHandler) RestorePermission(c *gin.Context) {
	permission, err := h.rbacService.RestorePermission(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, permission)
}
