package repository

import (
	"context"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
)

const userColumns = `id, email, name, password_hash, is_active, email_confirmed,
	must_change_password, email_confirm_token, email_confirm_expiry,
	password_reset_token, password_reset_expiry, last_login_at,
	created_at, updated_at, version`

// UserRepository handles user data access.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *UserRepository) WithTx(tx DBTX) *UserRepository {
	return &UserRepository{db: tx}
}

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsActive,
		&u.EmailConfirmed, &u.MustChangePassword, &u.EmailConfirmToken,
		&u.EmailConfirmExpiry, &u.PasswordResetToken, &u.PasswordResetExpiry,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user. A duplicate email surfaces as a Conflict.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, is_active, email_confirmed,
			must_change_password, email_confirm_token, email_confirm_expiry)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at, version`,
		u.Email, u.Name, u.PasswordHash, u.IsActive, u.EmailConfirmed,
		u.MustChangePassword, u.EmailConfirmToken, u.EmailConfirmExpiry,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if IsUniqueViolation(err) {
		return apperr.Conflict("a user with email %s already exists", u.Email)
	}
	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if IsNoRows(err) {
		return nil, apperr.NotFound("user")
	}
	return u, err
}

// GetByEmail retrieves a user by their unique email. Matching is
// case-insensitive; the lower(email) unique index serves the lookup.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if IsNoRows(err) {
		return nil, apperr.NotFound("user")
	}
	return u, err
}

// Update persists the mutable user fields. The caller supplies the version
// it read; a stale version fails with ConcurrencyConflict instead of
// silently overwriting.
func (r *UserRepository) Update(ctx context.Context, u *model.User, expectedVersion int64) error {
	err := r.db.QueryRow(ctx,
		`UPDATE users SET
			name = $1, password_hash = $2, is_active = $3, email_confirmed = $4,
			must_change_password = $5, email_confirm_token = $6,
			email_confirm_expiry = $7, password_reset_token = $8,
			password_reset_expiry = $9, last_login_at = $10,
			updated_at = now(), version = version + 1
		 WHERE id = $11 AND version = $12
		 RETURNING version, updated_at`,
		u.Name, u.PasswordHash, u.IsActive, u.EmailConfirmed,
		u.MustChangePassword, u.EmailConfirmToken, u.EmailConfirmExpiry,
		u.PasswordResetToken, u.PasswordResetExpiry, u.LastLoginAt,
		u.ID, expectedVersion,
	).Scan(&u.Version, &u.UpdatedAt)
	if IsNoRows(err) {
		return apperr.ConcurrencyConflict("user")
	}
	return err
}

// Delete removes a user permanently. Explicit admin action only.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}
