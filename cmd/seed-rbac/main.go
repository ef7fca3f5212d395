package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/config"
	"github.com/brightclass/brightclass-backend/internal/database"
	"github.com/brightclass/brightclass-backend/internal/logger"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/repository"
	"github.com/brightclass/brightclass-backend/internal/service"
)

// seed-rbac installs the system permission catalogue and system roles, and
// optionally creates a platform admin account. Safe to re-run: existing
// entries are left in place and role permission sets are refreshed.
func main() {
	var (
		adminEmail    = flag.String("admin-email", "", "Email for the platform admin account (optional)")
		adminName     = flag.String("admin-name", "Platform Admin", "Name for the platform admin account")
		adminPassword = flag.String("admin-password", "", "Password for the platform admin account")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	permRepo := repository.NewPermissionRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	refreshRepo := repository.NewRefreshTokenRepository(pool)
	authService := service.NewAuthService(cfg, refreshRepo)

	// ─── Permissions ───────────────────────────────────────────────────
	for _, p := range model.SystemPermissions {
		perm := p
		if err := permRepo.Create(ctx, &perm); err != nil {
			if apperr.Is(err, apperr.CodeConflict) {
				continue
			}
			log.Fatal().Err(err).Str("key", string(p.Key)).Msg("Failed to seed permission")
		}
		log.Info().Str("key", string(p.Key)).Msg("Permission seeded")
	}

	// ─── Roles ─────────────────────────────────────────────────────────
	// Deterministic order keeps re-runs and logs stable.
	names := make([]string, 0, len(model.SystemRoles))
	for name := range model.SystemRoles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		role, err := roleRepo.GetByName(ctx, name)
		if err != nil {
			if !apperr.Is(err, apperr.CodeNotFound) {
				log.Fatal().Err(err).Str("role", name).Msg("Failed to look up role")
			}
			role = &model.Role{Name: name, IsSystemRole: true}
			if err := roleRepo.Create(ctx, role); err != nil {
				log.Fatal().Err(err).Str("role", name).Msg("Failed to seed role")
			}
			log.Info().Str("role", name).Msg("Role seeded")
		}

		keys := make([]string, 0, len(model.SystemRoles[name]))
		for _, key := range model.SystemRoles[name] {
			keys = append(keys, string(key))
		}
		if err := roleRepo.ReplacePermissions(ctx, role.ID, keys); err != nil {
			log.Fatal().Err(err).Str("role", name).Msg("Failed to bind role permissions")
		}
	}

	// ─── Platform admin (optional) ─────────────────────────────────────
	if *adminEmail == "" {
		log.Info().Msg("RBAC seed complete")
		return
	}
	if *adminPassword == "" {
		fmt.Fprintln(os.Stderr, "-admin-password is required with -admin-email")
		os.Exit(1)
	}

	hash, err := authService.HashPassword(*adminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	user := &model.User{
		Email:          *adminEmail,
		Name:           *adminName,
		PasswordHash:   hash,
		IsActive:       true,
		EmailConfirmed: true,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		if !apperr.Is(err, apperr.CodeConflict) {
			log.Fatal().Err(err).Msg("Failed to create platform admin")
		}
		existing, err := userRepo.GetByEmail(ctx, *adminEmail)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load existing admin")
		}
		user = existing
		log.Info().Str("email", *adminEmail).Msg("Platform admin already exists, binding role")
	}

	adminRole, err := roleRepo.GetByName(ctx, model.RolePlatformAdmin)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load PlatformAdmin role")
	}
	if err := roleRepo.AssignToUser(ctx, user.ID, adminRole.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind PlatformAdmin role")
	}

	log.Info().Str("email", *adminEmail).Msg("RBAC seed complete")
}
