package model

import (
	"time"
)

// RefreshToken is an opaque long-lived credential. It is its own aggregate:
// rows are written directly to the refresh_tokens table, never through the
// owning User, so token churn cannot trip the User version check.
type RefreshToken struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Token         string     `json:"token"`
	ExpiresAt     time.Time  `json:"expires_at"`
	CreatedAt     time.Time  `json:"created_at"`
	CreatedByIP   string     `json:"created_by_ip"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	RevokedByIP   string     `json:"revoked_by_ip,omitempty"`
	RevokedReason string     `json:"revoked_reason,omitempty"`
}

// IsExpired reports whether the token is past its expiry.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsRevoked reports whether the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive is always derived, never stored.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}

// Revoke marks the token revoked. Revoking an already-revoked token is a
// successful no-op; the original revocation details are kept.
func (t *RefreshToken) Revoke(ip, reason string, now time.Time) {
	if t.IsRevoked() {
		return
	}
	t.RevokedAt = &now
	t.RevokedByIP = ip
	t.RevokedReason = reason
}
