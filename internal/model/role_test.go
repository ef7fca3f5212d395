package model

import (
	"testing"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

func TestRoleUpdate(t *testing.T) {
	r := &Role{Name: "Coordinator", Description: "old"}

	if err := r.Update("", "desc"); !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("empty name err = %v, want validation", err)
	}
	if err := r.Update("Lead Coordinator", "new"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.Name != "Lead Coordinator" || r.Description != "new" {
		t.Errorf("role = (%s, %s)", r.Name, r.Description)
	}
}

func TestSystemRoleIsProtected(t *testing.T) {
	r := &Role{Name: RoleTeacher, IsSystemRole: true}

	if err := r.Update("Renamed", "x"); !apperr.Is(err, apperr.CodeSystemEntityProtected) {
		t.Errorf("Update err = %v, want system entity protected", err)
	}
	if err := r.MarkAsDeleted(); !apperr.Is(err, apperr.CodeSystemEntityProtected) {
		t.Errorf("MarkAsDeleted err = %v, want system entity protected", err)
	}
	if r.IsDeleted {
		t.Error("system role must not be soft-deleted")
	}
}

func TestRoleSoftDeleteRestore(t *testing.T) {
	r := &Role{Name: "Coordinator"}

	if err := r.MarkAsDeleted(); err != nil {
		t.Fatalf("MarkAsDeleted: %v", err)
	}
	if !r.IsDeleted {
		t.Error("role not marked deleted")
	}
	r.Restore()
	if r.IsDeleted {
		t.Error("role not restored")
	}
}

func TestSystemRolesCoverKnownPermissions(t *testing.T) {
	known := make(map[PermissionKey]bool, len(SystemPermissions))
	for _, p := range SystemPermissions {
		known[p.Key] = true
	}
	for role, perms := range SystemRoles {
		if len(perms) == 0 {
			t.Errorf("system role %s has no permissions", role)
		}
		for _, key := range perms {
			if !known[key] {
				t.Errorf("role %s references unknown permission %s", role, key)
			}
		}
	}
}
