package model

import (
	"testing"
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

var invNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNewInvitationDefaults(t *testing.T) {
	inv := NewInvitation("inviter-1", "kid@example.com", InvitationTypeTeacher, InviteeRoleStudent, 0, invNow)

	if inv.Status != InvitationPending {
		t.Fatalf("status = %s, want pending", inv.Status)
	}
	want := invNow.Add(DefaultInvitationDays * 24 * time.Hour)
	if !inv.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %s, want %s", inv.ExpiresAt, want)
	}

	inv = NewInvitation("inviter-1", "kid@example.com", InvitationTypeInstitution, InviteeRoleTeacher, 30, invNow)
	want = invNow.Add(30 * 24 * time.Hour)
	if !inv.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt with explicit days = %s, want %s", inv.ExpiresAt, want)
	}
}

func TestInvitationAccept(t *testing.T) {
	inv := NewInvitation("inviter-1", "kid@example.com", InvitationTypeTeacher, InviteeRoleStudent, 7, invNow)

	if err := inv.Accept("user-9", invNow.Add(time.Hour)); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if inv.Status != InvitationAccepted {
		t.Errorf("status = %s, want accepted", inv.Status)
	}
	if inv.InviteeUserID == nil || *inv.InviteeUserID != "user-9" {
		t.Errorf("InviteeUserID = %v, want user-9", inv.InviteeUserID)
	}
	if inv.RespondedAt == nil {
		t.Error("RespondedAt not set")
	}

	// Terminal states reject any further transition.
	if err := inv.Accept("user-9", invNow.Add(2*time.Hour)); !apperr.Is(err, apperr.CodeInvalidStateTransition) {
		t.Errorf("second Accept err = %v, want invalid state transition", err)
	}
	if err := inv.Reject(invNow.Add(2 * time.Hour)); !apperr.Is(err, apperr.CodeInvalidStateTransition) {
		t.Errorf("Reject after Accept err = %v, want invalid state transition", err)
	}
}

func TestInvitationAcceptPastExpiry(t *testing.T) {
	inv := NewInvitation("inviter-1", "kid@example.com", InvitationTypeTeacher, InviteeRoleStudent, 7, invNow)

	err := inv.Accept("user-9", inv.ExpiresAt.Add(time.Second))
	if !apperr.Is(err, apperr.CodeInvalidStateTransition) {
		t.Fatalf("Accept past expiry err = %v, want invalid state transition", err)
	}
	if inv.Status != InvitationPending {
		t.Errorf("status mutated to %s on failed Accept", inv.Status)
	}

	// Accepting exactly at the deadline still succeeds.
	if err := inv.Accept("user-9", inv.ExpiresAt); err != nil {
		t.Errorf("Accept at deadline: %v", err)
	}
}

func TestInvitationReject(t *testing.T) {
	inv := NewInvitation("inviter-1", "kid@example.com", InvitationTypeInstitution, InviteeRoleTeacher, 7, invNow)

	if err := inv.Reject(invNow.Add(time.Hour)); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if inv.Status != InvitationRejected {
		t.Errorf("status = %s, want rejected", inv.Status)
	}
	if err := inv.Accept("user-9", invNow.Add(2*time.Hour)); !apperr.Is(err, apperr.CodeInvalidStateTransition) {
		t.Errorf("Accept after Reject err = %v, want invalid state transition", err)
	}
}

func TestInvitationIsPending(t *testing.T) {
	inv := NewInvitation("inviter-1", "kid@example.com", InvitationTypeTeacher, InviteeRoleStudent, 7, invNow)

	if !inv.IsPending(invNow) {
		t.Error("fresh invitation should be pending")
	}
	if !inv.IsPending(inv.ExpiresAt) {
		t.Error("invitation at its deadline should still be pending")
	}
	if inv.IsPending(inv.ExpiresAt.Add(time.Second)) {
		t.Error("invitation past its deadline should not read as pending")
	}
}

func TestInvitationMarkAsExpired(t *testing.T) {
	inv := NewInvitation("inviter-1", "kid@example.com", InvitationTypeTeacher, InviteeRoleStudent, 7, invNow)

	if err := inv.MarkAsExpired(invNow.Add(time.Hour)); !apperr.Is(err, apperr.CodeInvalidStateTransition) {
		t.Errorf("MarkAsExpired before deadline err = %v, want invalid state transition", err)
	}

	if err := inv.MarkAsExpired(inv.ExpiresAt.Add(time.Second)); err != nil {
		t.Fatalf("MarkAsExpired: %v", err)
	}
	if inv.Status != InvitationExpired {
		t.Errorf("status = %s, want expired", inv.Status)
	}
	if err := inv.MarkAsExpired(inv.ExpiresAt.Add(time.Minute)); !apperr.Is(err, apperr.CodeInvalidStateTransition) {
		t.Errorf("second MarkAsExpired err = %v, want invalid state transition", err)
	}
}
