package model

import (
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

// PermissionKey is a string code for a specific system action.
type PermissionKey string

const (
	// PermissionRolesRead allows viewing roles and their bindings.
	PermissionRolesRead PermissionKey = "roles:read"

	// PermissionRolesWrite allows creating, updating, and deleting roles.
	PermissionRolesWrite PermissionKey = "roles:write"

	// PermissionPermissionsRead allows viewing the permission catalogue.
	PermissionPermissionsRead PermissionKey = "permissions:read"

	// PermissionPermissionsWrite allows managing custom permissions.
	PermissionPermissionsWrite PermissionKey = "permissions:write"

	// PermissionUsersRead allows viewing user accounts.
	PermissionUsersRead PermissionKey = "users:read"

	// PermissionUsersWrite allows managing user accounts and role bindings.
	PermissionUsersWrite PermissionKey = "users:write"

	// PermissionSettingsRead allows viewing platform settings.
	PermissionSettingsRead PermissionKey = "settings:read"

	// PermissionSettingsWrite allows editing platform settings.
	PermissionSettingsWrite PermissionKey = "settings:write"

	// PermissionInstitutionManage allows editing institution details and license.
	PermissionInstitutionManage PermissionKey = "institution:manage"

	// PermissionInstitutionMembersRead allows viewing institution members.
	PermissionInstitutionMembersRead PermissionKey = "institution:members:read"

	// PermissionInstitutionMembersWrite allows adding and removing institution members.
	PermissionInstitutionMembersWrite PermissionKey = "institution:members:write"

	// PermissionInvitationsWrite allows creating invitations.
	PermissionInvitationsWrite PermissionKey = "invitations:write"

	// PermissionAssignmentsRead allows viewing teacher-student assignments.
	PermissionAssignmentsRead PermissionKey = "assignments:read"

	// PermissionAssignmentsWrite allows creating and ending assignments.
	PermissionAssignmentsWrite PermissionKey = "assignments:write"

	// PermissionGoalsRead allows viewing academic goals.
	PermissionGoalsRead PermissionKey = "goals:read"

	// PermissionGoalsWrite allows creating and updating academic goals.
	PermissionGoalsWrite PermissionKey = "goals:write"
)

// Permission is the stored catalogue entry behind a PermissionKey.
type Permission struct {
	Key         PermissionKey `json:"key"`
	Description string        `json:"description"`
	Group       string        `json:"group"`
	IsSystem    bool          `json:"is_system"`
	IsDeleted   bool          `json:"is_deleted"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Version     int64         `json:"-"`
}

// Update changes description and group. System permissions reject any update.
func (p *Permission) Update(description, group string) error {
	if p.IsSystem {
		return apperr.SystemEntityProtected("permission " + string(p.Key))
	}
	p.Description = description
	p.Group = group
	return nil
}

// MarkAsDeleted soft-deletes the permission. It stays resolvable through
// existing role bindings until hard-deleted.
func (p *Permission) MarkAsDeleted() error {
	if p.IsSystem {
		return apperr.SystemEntityProtected("permission " + string(p.Key))
	}
	p.IsDeleted = true
	return nil
}

// Restore clears the soft-delete flag.
func (p *Permission) Restore() {
	p.IsDeleted = false
}

// SystemPermissions is the seed catalogue installed by cmd/seed-rbac.
var SystemPermissions = []Permission{
	{Key: PermissionRolesRead, Description: "View roles and their bindings", Group: "rbac", IsSystem: true},
	{Key: PermissionRolesWrite, Description: "Create, update, and delete roles", Group: "rbac", IsSystem: true},
	{Key: PermissionPermissionsRead, Description: "View the permission catalogue", Group: "rbac", IsSystem: true},
	{Key: PermissionPermissionsWrite, Description: "Manage custom permissions", Group: "rbac", IsSystem: true},
	{Key: PermissionUsersRead, Description: "View user accounts", Group: "users", IsSystem: true},
	{Key: PermissionUsersWrite, Description: "Manage user accounts and role bindings", Group: "users", IsSystem: true},
	{Key: PermissionSettingsRead, Description: "View platform settings", Group: "settings", IsSystem: true},
	{Key: PermissionSettingsWrite, Description: "Edit platform settings", Group: "settings", IsSystem: true},
	{Key: PermissionInstitutionManage, Description: "Edit institution details and license", Group: "institution", IsSystem: true},
	{Key: PermissionInstitutionMembersRead, Description: "View institution members", Group: "institution", IsSystem: true},
	{Key: PermissionInstitutionMembersWrite, Description: "Add and remove institution members", Group: "institution", IsSystem: true},
	{Key: PermissionInvitationsWrite, Description: "Create invitations", Group: "invitations", IsSystem: true},
	{Key: PermissionAssignmentsRead, Description: "View teacher-student assignments", Group: "assignments", IsSystem: true},
	{Key: PermissionAssignmentsWrite, Description: "Create and end assignments", Group: "assignments", IsSystem: true},
	{Key: PermissionGoalsRead, Description: "View academic goals", Group: "goals", IsSystem: true},
	{Key: PermissionGoalsWrite, Description: "Create and update academic goals", Group: "goals", IsSystem: true},
}
