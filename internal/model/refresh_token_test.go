package model

import (
	"testing"
	"time"
)

func TestRefreshTokenLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tok := &RefreshToken{ExpiresAt: now.Add(time.Hour)}

	if !tok.IsActive(now) {
		t.Error("fresh token should be active")
	}
	if tok.IsActive(now.Add(2 * time.Hour)) {
		t.Error("token past expiry should not be active")
	}

	tok.Revoke("10.0.0.1", "logout", now)
	if !tok.IsRevoked() {
		t.Error("token not marked revoked")
	}
	if tok.IsActive(now) {
		t.Error("revoked token should not be active")
	}
	if tok.RevokedByIP != "10.0.0.1" || tok.RevokedReason != "logout" {
		t.Errorf("revocation details = (%s, %s)", tok.RevokedByIP, tok.RevokedReason)
	}
}

func TestRefreshTokenRevokeIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tok := &RefreshToken{ExpiresAt: now.Add(time.Hour)}

	tok.Revoke("10.0.0.1", "logout", now)
	tok.Revoke("10.0.0.2", "password reset", now.Add(time.Minute))

	if !tok.RevokedAt.Equal(now) {
		t.Errorf("RevokedAt = %s, want original %s", tok.RevokedAt, now)
	}
	if tok.RevokedByIP != "10.0.0.1" || tok.RevokedReason != "logout" {
		t.Errorf("second Revoke overwrote details: (%s, %s)", tok.RevokedByIP, tok.RevokedReason)
	}
}
