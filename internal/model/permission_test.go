package model

import (
	"testing"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

func TestPermissionUpdate(t *testing.T) {
	p := &Permission{Key: "reports:read", Description: "old", Group: "reports"}

	if err := p.Update("View reports", "reporting"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Description != "View reports" || p.Group != "reporting" {
		t.Errorf("permission = (%s, %s)", p.Description, p.Group)
	}
}

func TestSystemPermissionIsProtected(t *testing.T) {
	p := &Permission{Key: PermissionRolesRead, IsSystem: true}

	if err := p.Update("x", "y"); !apperr.Is(err, apperr.CodeSystemEntityProtected) {
		t.Errorf("Update err = %v, want system entity protected", err)
	}
	if err := p.MarkAsDeleted(); !apperr.Is(err, apperr.CodeSystemEntityProtected) {
		t.Errorf("MarkAsDeleted err = %v, want system entity protected", err)
	}
}

func TestPermissionSoftDeleteRestore(t *testing.T) {
	p := &Permission{Key: "reports:read"}

	if err := p.MarkAsDeleted(); err != nil {
		t.Fatalf("MarkAsDeleted: %v", err)
	}
	if !p.IsDeleted {
		t.Error("permission not marked deleted")
	}
	p.Restore()
	if p.IsDeleted {
		t.Error("permission not restored")
	}
}
