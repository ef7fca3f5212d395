package repository

import (
	"context"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
)

const permissionColumns = `key, description, "group", is_system, is_deleted, created_at, updated_at, version`

// PermissionRepository handles permission catalogue data access.
type PermissionRepository struct {
	db DBTX
}

// NewPermissionRepository creates a new PermissionRepository.
func NewPermissionRepository(db DBTX) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func scanPermission(row interface{ Scan(...any) error }) (*model.Permission, error) {
	p := &model.Permission{}
	err := row.Scan(&p.Key, &p.Description, &p.Group, &p.IsSystem,
		&p.IsDeleted, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new permission. Duplicate keys surface as Conflict.
func (r *PermissionRepository) Create(ctx context.Context, p *model.Permission) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO permissions (key, description, "group", is_system)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at, version`,
		p.Key, p.Description, p.Group, p.IsSystem,
	).Scan(&p.CreatedAt, &p.UpdatedAt, &p.Version)
	if IsUniqueViolation(err) {
		return apperr.Conflict("a permission with key %q already exists", p.Key)
	}
	return err
}

// GetByKey retrieves a permission regardless of soft-delete state.
func (r *PermissionRepository) GetByKey(ctx context.Context, key string) (*model.Permission, error) {
	p, err := scanPermission(r.db.QueryRow(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE key = $1`, key))
	if IsNoRows(err) {
		return nil, apperr.NotFound("permission")
	}
	return p, err
}

// List retrieves permissions ordered by group then key. Soft-deleted rows
// are hidden unless includeDeleted is set.
func (r *PermissionRepository) List(ctx context.Context, includeDeleted bool) ([]model.Permission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+permissionColumns+` FROM permissions
		 WHERE ($1 OR NOT is_deleted) ORDER BY "group", key`, includeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []model.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		perms = append(perms, *p)
	}
	return perms, rows.Err()
}

// Update persists permission fields with an explicit version check.
func (r *PermissionRepository) Update(ctx context.Context, p *model.Permission, expectedVersion int64) error {
	err := r.db.QueryRow(ctx,
		`UPDATE permissions SET
			description = $1, "group" = $2, is_deleted = $3,
			updated_at = now(), version = version + 1
		 WHERE key = $4 AND version = $5
		 RETURNING version, updated_at`,
		p.Description, p.Group, p.IsDeleted, p.Key, expectedVersion,
	).Scan(&p.Version, &p.UpdatedAt)
	if IsNoRows(err) {
		return apperr.ConcurrencyConflict("permission")
	}
	return err
}

// HardDelete removes a permission and its role bindings permanently.
func (r *PermissionRepository) HardDelete(ctx context.Context, key string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM permissions WHERE key = $1`, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("permission")
	}
	return nil
}
