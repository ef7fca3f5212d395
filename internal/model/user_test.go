package model

import (
	"testing"
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

func TestUserConfirmEmail(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	u := &User{}
	u.BeginEmailConfirmation("tok-abc", now)

	if err := u.ConfirmEmail("wrong", now); !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("wrong token err = %v, want validation", err)
	}
	if u.EmailConfirmed {
		t.Error("wrong token must not confirm the email")
	}

	if err := u.ConfirmEmail("tok-abc", now.Add(48*time.Hour+time.Second)); !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("expired token err = %v, want validation", err)
	}

	if err := u.ConfirmEmail("tok-abc", now.Add(47*time.Hour)); err != nil {
		t.Fatalf("ConfirmEmail: %v", err)
	}
	if !u.EmailConfirmed {
		t.Error("email not confirmed")
	}
	if u.EmailConfirmToken != nil || u.EmailConfirmExpiry != nil {
		t.Error("token material should be cleared after confirmation")
	}

	// Already-confirmed accounts accept any token silently.
	if err := u.ConfirmEmail("whatever", now.Add(100*time.Hour)); err != nil {
		t.Errorf("ConfirmEmail on confirmed account: %v", err)
	}
}

func TestUserCompletePasswordReset(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	u := &User{PasswordHash: "old-hash", MustChangePassword: true}
	u.BeginPasswordReset("reset-tok", now)

	if err := u.CompletePasswordReset("wrong", "new-hash", now); !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("wrong token err = %v, want validation", err)
	}
	if u.PasswordHash != "old-hash" {
		t.Error("hash must not change on failed reset")
	}

	if err := u.CompletePasswordReset("reset-tok", "new-hash", now.Add(2*time.Hour+time.Second)); !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("expired token err = %v, want validation", err)
	}

	if err := u.CompletePasswordReset("reset-tok", "new-hash", now.Add(time.Hour)); err != nil {
		t.Fatalf("CompletePasswordReset: %v", err)
	}
	if u.PasswordHash != "new-hash" {
		t.Errorf("hash = %s, want new-hash", u.PasswordHash)
	}
	if u.MustChangePassword {
		t.Error("MustChangePassword should clear after a reset")
	}
	if u.PasswordResetToken != nil || u.PasswordResetExpiry != nil {
		t.Error("reset token material should be cleared")
	}
}

func TestUserRecordLogin(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	u := &User{}
	u.RecordLogin(now)
	if u.LastLoginAt == nil || !u.LastLoginAt.Equal(now) {
		t.Errorf("LastLoginAt = %v, want %s", u.LastLoginAt, now)
	}
}
