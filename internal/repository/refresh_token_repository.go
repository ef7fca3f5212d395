package repository

import (
	"context"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
)

// RefreshTokenRepository handles refresh-token data access. The table
// carries no version column: tokens are written directly, never through the
// owning User aggregate, so issuing or revoking a token cannot collide with
// a concurrent user update.
type RefreshTokenRepository struct {
	db DBTX
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository.
func NewRefreshTokenRepository(db DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *RefreshTokenRepository) WithTx(tx DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: tx}
}

// Create inserts a refresh token.
func (r *RefreshTokenRepository) Create(ctx context.Context, t *model.RefreshToken) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO refresh_tokens (user_id, token, expires_at, created_by_ip)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		t.UserID, t.Token, t.ExpiresAt, t.CreatedByIP,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByToken retrieves a refresh token by its opaque value.
func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	t := &model.RefreshToken{}
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, token, expires_at, created_at, created_by_ip,
			revoked_at, revoked_by_ip, revoked_reason
		 FROM refresh_tokens WHERE token = $1`, token,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt,
		&t.CreatedByIP, &t.RevokedAt, &t.RevokedByIP, &t.RevokedReason)
	if IsNoRows(err) {
		return nil, apperr.NotFound("refresh token")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SaveRevocation persists revocation details. Only ever fills the revoked
// columns; revoking an already-revoked token was already filtered in the
// model, so this write is a plain update by id.
func (r *RefreshTokenRepository) SaveRevocation(ctx context.Context, t *model.RefreshToken) error {
	_, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = $1, revoked_by_ip = $2, revoked_reason = $3
		 WHERE id = $4 AND revoked_at IS NULL`,
		t.RevokedAt, t.RevokedByIP, t.RevokedReason, t.ID)
	return err
}

// RevokeAllForUser revokes every active token a user holds. Used when a
// password reset should kill existing sessions.
func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID, ip, reason string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = now(), revoked_by_ip = $1, revoked_reason = $2
		 WHERE user_id = $3 AND revoked_at IS NULL`,
		ip, reason, userID)
	return err
}
