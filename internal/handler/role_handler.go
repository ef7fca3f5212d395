package handler

import (
	"net/http"

	"github.com/brightclass/brightclass-backend/internal/response"
	"github.com/brightclass/brightclass-backend/internal/service"
	"github.com/brightclass/brightclass-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// RoleHandler handles role management and user role bindings.
type RoleHandler struct {
	rbacService *service.RBACService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(rbacService *service.RBACService) *RoleHandler {
	return &RoleHandler{rbacService: rbacService}
}

// RoleRequest is the payload for role create/update.
type RoleRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=100"`
	Description string   `json:"description" binding:"omitempty,max=500"`
	Permissions []string `json:"permissions"`
}

// ListRoles godoc
// GET /api/v1/roles?include_deleted=true
func (h *RoleHandler) ListRoles(c *gin.Context) {
	includeDeleted := c.Query("include_deleted") == "true"

	roles, err := h.rbacService.ListRoles(c.Request.Context(), includeDeleted)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, roles)
}

// GetRole godoc
// GET /api/v1/roles/:id
func (h *RoleHandler) GetRole(c *gin.Context) {
	role, err := h.rbacService.GetRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// CreateRole godoc
// POST /api/v1/roles
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req RoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.rbacService.CreateRole(c.Request.Context(), req.Name, req.Description, req.Permissions)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

// UpdateRole godoc
// PUT /api/v1/roles/:id
// System roles reject updates.
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	var req RoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.rbacService.UpdateRole(c.Request.Context(), c.Param("id"), req.Name, req.Description, req.Permissions)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// DeleteRole godoc
// DELETE /api/v1/roles/:id?permanent=true
// Soft-deletes by default; system roles reject deletion either way.
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	permanent := c.Query("permanent") == "true"

	if err := h.rbacService.DeleteRole(c.Request.Context(), c.Param("id"), permanent); err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// RestoreRole godoc
// POST /api/v1/roles/:id/restore
func (h *RoleHandler) RestoreRole(c *gin.Context) {
	role, err := h.rbacService.RestoreRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// AssignRoleToUser godoc
// POST /api/v1/users/:id/roles
// Assigning an already-held role is a no-op.
func (h *RoleHandler) AssignRoleToUser(c *gin.Context) {
	var req struct {
		RoleID string `json:"role_id" binding:"required"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.rbacService.AssignRole(c.Request.Context(), c.Param("id"), req.RoleID); err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// RemoveRoleFromUser godoc
// DELETE /api/v1/users/:id/roles/:roleId
func (h *RoleHandler) RemoveRoleFromUser(c *gin.Context) {
	if err := h.rbacService.RemoveRole(c.Request.Context(), c.Param("id"), c.Param("roleId")); err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// GetUserRoles godoc
// GET /api/v1/users/:id/roles
func (h *RoleHandler) GetUserRoles(c *gin.Context) {
	roles, err := h.rbacService.GetRolesByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, roles)
}

// GetUserPermissions godoc
// GET /api/v1/users/:id/permissions
// Returns the deduplicated union across the user's non-deleted roles.
func (h *RoleHandler) GetUserPermissions(c *gin.Context) {
	permissions, err := h.rbacService.ResolveEffectivePermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"permissions": permissions})
}
