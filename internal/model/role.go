package model

import (
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

// Role represents a dynamic RBAC role. System roles are seeded at install
// time and protected from rename and deletion.
type Role struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IsSystemRole bool      `json:"is_system_role"`
	IsDeleted    bool      `json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int64     `json:"-"`
}

// RoleWithPermissions extends Role to include its associated permission keys.
type RoleWithPermissions struct {
	*Role
	Permissions []string `json:"permissions"`
}

// Update changes name and description. System roles reject any update.
func (r *Role) Update(name, description string) error {
	if r.IsSystemRole {
		return apperr.SystemEntityProtected("role " + r.Name)
	}
	if name == "" {
		return apperr.Validation("role name cannot be empty")
	}
	r.Name = name
	r.Description = description
	return nil
}

// MarkAsDeleted soft-deletes the role. The role remains part of the
// authorization graph until restored or hard-deleted.
func (r *Role) MarkAsDeleted() error {
	if r.IsSystemRole {
		return apperr.SystemEntityProtected("role " + r.Name)
	}
	r.IsDeleted = true
	return nil
}

// Restore clears the soft-delete flag.
func (r *Role) Restore() {
	r.IsDeleted = false
}

// System role names seeded by cmd/seed-rbac.
const (
	RolePlatformAdmin    = "PlatformAdmin"
	RoleInstitutionAdmin = "InstitutionAdmin"
	RoleTeacher          = "Teacher"
	RoleStudent          = "Student"
	RoleParent           = "Parent"
)

// SystemRoles lists every built-in role with its default permission keys.
var SystemRoles = map[string][]PermissionKey{
	RolePlatformAdmin: {
		PermissionRolesRead, PermissionRolesWrite,
		PermissionPermissionsRead, PermissionPermissionsWrite,
		PermissionUsersRead, PermissionUsersWrite,
		PermissionSettingsRead, PermissionSettingsWrite,
		PermissionInstitutionManage, PermissionInstitutionMembersRead,
		PermissionInstitutionMembersWrite, PermissionInvitationsWrite,
		PermissionAssignmentsRead, PermissionAssignmentsWrite,
	},
	RoleInstitutionAdmin: {
		PermissionInstitutionManage,
		PermissionInstitutionMembersRead, PermissionInstitutionMembersWrite,
		PermissionInvitationsWrite,
		PermissionAssignmentsRead, PermissionAssignmentsWrite,
	},
	RoleTeacher: {
		PermissionInvitationsWrite,
		PermissionAssignmentsRead, PermissionAssignmentsWrite,
		PermissionGoalsRead, PermissionGoalsWrite,
	},
	RoleStudent: {
		PermissionAssignmentsRead,
		PermissionGoalsRead, PermissionGoalsWrite,
	},
	RoleParent: {
		PermissionGoalsRead,
	},
}
