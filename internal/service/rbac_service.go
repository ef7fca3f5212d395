package service

import (
	"context"
	"fmt"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// RBACService handles role and permission administration plus effective
// permission resolution. Role writes that also touch the binding set run in
// a single transaction.
type RBACService struct {
	pool     *pgxpool.Pool
	roleRepo *repository.RoleRepository
	permRepo *repository.PermissionRepository
	log      zerolog.Logger
}

// NewRBACService creates a new RBACService.
func NewRBACService(pool *pgxpool.Pool, roleRepo *repository.RoleRepository, permRepo *repository.PermissionRepository, log zerolog.Logger) *RBACService {
	return &RBACService{
		pool:     pool,
		roleRepo: roleRepo,
		permRepo: permRepo,
		log:      log.With().Str("component", "rbac_service").Logger(),
	}
}

// ─── Resolution ─────────────────────────────────────────────────────────────

// ResolveEffectivePermissions computes the deduplicated union of permission
// keys across every live role bound to the user.
func (s *RBACService) ResolveEffectivePermissions(ctx context.Context, userID string) ([]string, error) {
	return s.roleRepo.ResolveEffectivePermissions(ctx, userID)
}

// GetRolesByUser retrieves the user's live roles.
func (s *RBACService) GetRolesByUser(ctx context.Context, userID string) ([]model.Role, error) {
	return s.roleRepo.GetRolesByUserID(ctx, userID)
}

// AssignRole binds a role to a user; assigning an already-held role is a
// no-op.
func (s *RBACService) AssignRole(ctx context.Context, userID, roleID string) error {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return err
	}
	return s.roleRepo.AssignToUser(ctx, userID, roleID)
}

// AssignRoleByName binds a named system role to a user.
func (s *RBACService) AssignRoleByName(ctx context.Context, userID, roleName string) error {
	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return err
	}
	return s.roleRepo.AssignToUser(ctx, userID, role.ID)
}

// RemoveRole unbinds a role from a user; removing an unheld role is a no-op.
func (s *RBACService) RemoveRole(ctx context.Context, userID, roleID string) error {
	return s.roleRepo.RemoveFromUser(ctx, userID, roleID)
}

// ─── Role administration ────────────────────────────────────────────────────

// ListRoles retrieves roles with their permission keys. Soft-deleted roles
// are listed only when includeDeleted is set.
func (s *RBACService) ListRoles(ctx context.Context, includeDeleted bool) ([]model.RoleWithPermissions, error) {
	roles, err := s.roleRepo.List(ctx, includeDeleted)
	if err != nil {
		return nil, err
	}

	out := make([]model.RoleWithPermissions, 0, len(roles))
	for i := range roles {
		keys, err := s.roleRepo.GetPermissionKeysByRoleID(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.RoleWithPermissions{Role: &roles[i], Permissions: keys})
	}
	return out, nil
}

// GetRole retrieves a role and its permission keys.
func (s *RBACService) GetRole(ctx context.Context, id string) (*model.RoleWithPermissions, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	keys, err := s.roleRepo.GetPermissionKeysByRoleID(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	return &model.RoleWithPermissions{Role: role, Permissions: keys}, nil
}

// CreateRole creates a role and binds its permission keys. Role row and
// bindings commit together; an unknown key rolls back the whole create.
func (s *RBACService) CreateRole(ctx context.Context, name, description string, permissionKeys []string) (*model.RoleWithPermissions, error) {
	if name == "" {
		return nil, apperr.Validation("role name cannot be empty")
	}

	role := &model.Role{Name: name, Description: description}
	err := s.inTx(ctx, func(tx repository.DBTX) error {
		roles := s.roleRepo.WithTx(tx)
		if err := roles.Create(ctx, role); err != nil {
			return err
		}
		return roles.ReplacePermissions(ctx, role.ID, dedupe(permissionKeys))
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID)
}

// UpdateRole renames a role and replaces its permission bindings in one
// transaction, so a rejected key leaves the old binding set intact. System
// roles reject the update.
func (s *RBACService) UpdateRole(ctx context.Context, id, name, description string, permissionKeys []string) (*model.RoleWithPermissions, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := role.Update(name, description); err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(tx repository.DBTX) error {
		roles := s.roleRepo.WithTx(tx)
		if err := roles.Update(ctx, role, role.Version); err != nil {
			return err
		}
		return roles.ReplacePermissions(ctx, role.ID, dedupe(permissionKeys))
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID)
}

// DeleteRole soft-deletes a role, or hard-deletes when permanent is set.
// System roles reject both. A soft-deleted role stays in the authorization
// graph until restored or hard-deleted.
func (s *RBACService) DeleteRole(ctx context.Context, id string, permanent bool) error {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystemRole {
		return apperr.SystemEntityProtected("role " + role.Name)
	}

	if permanent {
		return s.roleRepo.HardDelete(ctx, id)
	}

	if err := role.MarkAsDeleted(); err != nil {
		return err
	}
	return s.roleRepo.Update(ctx, role, role.Version)
}

// RestoreRole clears a role's soft-delete flag.
func (s *RBACService) RestoreRole(ctx context.Context, id string) (*model.RoleWithPermissions, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Restore()
	if err := s.roleRepo.Update(ctx, role, role.Version); err != nil {
		return nil, err
	}
	return s.GetRole(ctx, role.ID)
}

// ─── Permission administration ──────────────────────────────────────────────

// ListPermissions retrieves the permission catalogue.
func (s *RBACService) ListPermissions(ctx context.Context, includeDeleted bool) ([]model.Permission, error) {
	return s.permRepo.List(ctx, includeDeleted)
}

// CreatePermission adds a custom (non-system) permission to the catalogue.
func (s *RBACService) CreatePermission(ctx context.Context, key, description, group string) (*model.Permission, error) {
	if key == "" {
		return nil, apperr.Validation("permission key cannot be empty")
	}
	p := &model.Permission{Key: model.PermissionKey(key), Description: description, Group: group}
	if err := s.permRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePermission changes a permission's description and group. System
// permissions reject the update.
func (s *RBACService) UpdatePermission(ctx context.Context, key, description, group string) (*model.Permission, error) {
	p, err := s.permRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := p.Update(description, group); err != nil {
		return nil, err
	}
	if err := s.permRepo.Update(ctx, p, p.Version); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePermission soft-deletes a permission, or hard-deletes when
// permanent is set. System permissions reject both.
func (s *RBACService) DeletePermission(ctx context.Context, key string, permanent bool) error {
	p, err := s.permRepo.GetByKey(ctx, key)
	if err != nil {
		return err
	}
	if p.IsSystem {
		return apperr.SystemEntityProtected("permission " + string(p.Key))
	}

	if permanent {
		return s.permRepo.HardDelete(ctx, key)
	}

	if err := p.MarkAsDeleted(); err != nil {
		return err
	}
	return s.permRepo.Update(ctx, p, p.Version)
}

// RestorePermission clears a permission's soft-delete flag.
func (s *RBACService) RestorePermission(ctx context.Context, key string) (*model.Permission, error) {
	p, err := s.permRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	p.Restore()
	if err := s.permRepo.Update(ctx, p, p.Version); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *RBACService) inTx(ctx context.Context, fn func(tx repository.DBTX) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
