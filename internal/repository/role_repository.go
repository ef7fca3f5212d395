package repository

import (
	"context"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
)

const roleColumns = `id, name, description, is_system_role, is_deleted, created_at, updated_at, version`

// RoleRepository handles role data access, role-permission bindings, and
// user-role bindings.
type RoleRepository struct {
	db DBTX
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db DBTX) *RoleRepository {
	return &RoleRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *RoleRepository) WithTx(tx DBTX) *RoleRepository {
	return &RoleRepository{db: tx}
}

func scanRole(row interface{ Scan(...any) error }) (*model.Role, error) {
	role := &model.Role{}
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.IsSystemRole,
		&role.IsDeleted, &role.CreatedAt, &role.UpdatedAt, &role.Version)
	if err != nil {
		return nil, err
	}
	return role, nil
}

// Create inserts a new role. Duplicate names surface as Conflict.
func (r *RoleRepository) Create(ctx context.Context, role *model.Role) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO roles (name, description, is_system_role)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at, version`,
		role.Name, role.Description, role.IsSystemRole,
	).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt, &role.Version)
	if IsUniqueViolation(err) {
		return apperr.Conflict("a role named %q already exists", role.Name)
	}
	return err
}

// GetByID retrieves a role by ID regardless of soft-delete state, so deleted
// roles stay resolvable for authorization.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*model.Role, error) {
	role, err := scanRole(r.db.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	if IsNoRows(err) {
		return nil, apperr.NotFound("role")
	}
	return role, err
}

// GetByName retrieves a non-deleted role by its unique name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	role, err := scanRole(r.db.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE name = $1 AND NOT is_deleted`, name))
	if IsNoRows(err) {
		return nil, apperr.NotFound("role")
	}
	return role, err
}

// List retrieves roles. Soft-deleted rows are hidden unless includeDeleted
// is set.
func (r *RoleRepository) List(ctx context.Context, includeDeleted bool) ([]model.Role, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE ($1 OR NOT is_deleted) ORDER BY name`,
		includeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, rows.Err()
}

// Update persists role fields with an explicit version check.
func (r *RoleRepository) Update(ctx context.Context, role *model.Role, expectedVersion int64) error {
	err := r.db.QueryRow(ctx,
		`UPDATE roles SET
			name = $1, description = $2, is_deleted = $3,
			updated_at = now(), version = version + 1
		 WHERE id = $4 AND version = $5
		 RETURNING version, updated_at`,
		role.Name, role.Description, role.IsDeleted, role.ID, expectedVersion,
	).Scan(&role.Version, &role.UpdatedAt)
	if IsNoRows(err) {
		return apperr.ConcurrencyConflict("role")
	}
	if IsUniqueViolation(err) {
		return apperr.Conflict("a role named %q already exists", role.Name)
	}
	return err
}

// HardDelete removes a role and its bindings permanently.
func (r *RoleRepository) HardDelete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("role")
	}
	return nil
}

// GetPermissionKeysByRoleID retrieves all permission keys bound to a role.
func (r *RoleRepository) GetPermissionKeysByRoleID(ctx context.Context, roleID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT permission_key FROM role_permissions WHERE role_id = $1 ORDER BY permission_key`,
		roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// ReplacePermissions swaps the role's whole permission binding set. Every
// key must exist in the catalogue; an unknown key fails the call. Callers
// run this inside a transaction so a failure cannot leave the role with a
// half-replaced set.
func (r *RoleRepository) ReplacePermissions(ctx context.Context, roleID string, keys []string) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return err
	}
	for _, key := range keys {
		tag, err := r.db.Exec(ctx,
			`INSERT INTO role_permissions (role_id, permission_key)
			 SELECT $1, key FROM permissions WHERE key = $2
			 ON CONFLICT DO NOTHING`, roleID, key)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.Validation("unknown permission key %q", key)
		}
	}
	return nil
}

// AssignToUser binds a role to a user. ON CONFLICT DO NOTHING makes
// concurrent duplicate assigns converge on exactly one binding row.
func (r *RoleRepository) AssignToUser(ctx context.Context, userID, roleID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, role_id) DO NOTHING`,
		userID, roleID)
	return err
}

// RemoveFromUser unbinds a role from a user. Removing an unheld role is a
// no-op.
func (r *RoleRepository) RemoveFromUser(ctx context.Context, userID, roleID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`,
		userID, roleID)
	return err
}

// GetRolesByUserID retrieves the user's live (non-deleted) roles.
func (r *RoleRepository) GetRolesByUserID(ctx context.Context, userID string) ([]model.Role, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.name, r.description, r.is_system_role, r.is_deleted,
			r.created_at, r.updated_at, r.version
		 FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1 AND NOT r.is_deleted
		 ORDER BY r.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, rows.Err()
}

// ResolveEffectivePermissions computes the union of permission keys across
// every live role bound to the user. DISTINCT collapses a permission
// reachable through multiple roles to a single entry.
func (r *RoleRepository) ResolveEffectivePermissions(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT rp.permission_key
		 FROM user_roles ur
		 JOIN roles r ON r.id = ur.role_id AND NOT r.is_deleted
		 JOIN role_permissions rp ON rp.role_id = r.id
		 WHERE ur.user_id = $1
		 ORDER BY rp.permission_key`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
