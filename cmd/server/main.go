package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brightclass/brightclass-backend/internal/config"
	"github.com/brightclass/brightclass-backend/internal/database"
	"github.com/brightclass/brightclass-backend/internal/event"
	"github.com/brightclass/brightclass-backend/internal/handler"
	"github.com/brightclass/brightclass-backend/internal/logger"
	"github.com/brightclass/brightclass-backend/internal/middleware"
	"github.com/brightclass/brightclass-backend/internal/repository"
	"github.com/brightclass/brightclass-backend/internal/router"
	"github.com/brightclass/brightclass-backend/internal/service"
	"github.com/brightclass/brightclass-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting BrightClass Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	permRepo := repository.NewPermissionRepository(pool)
	instRepo := repository.NewInstitutionRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	invitationRepo := repository.NewInvitationRepository(pool)
	refreshRepo := repository.NewRefreshTokenRepository(pool)
	goalRepo := repository.NewGoalRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	publisher := event.NewPublisher(rdb, log)
	authService := service.NewAuthService(cfg, refreshRepo)
	rbacService := service.NewRBACService(pool, roleRepo, permRepo, log)
	accountService := service.NewAccountService(pool, userRepo, profileRepo, instRepo, roleRepo, authService, publisher, log)
	institutionService := service.NewInstitutionService(instRepo, profileRepo, log)
	relationshipService := service.NewRelationshipService(profileRepo, assignmentRepo, goalRepo, log)
	invitationService := service.NewInvitationService(pool, invitationRepo, userRepo, profileRepo, assignmentRepo, instRepo, publisher, log)
	settingService := service.NewSettingService(settingRepo, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(accountService, authService),
		Role:         handler.NewRoleHandler(rbacService),
		Permission:   handler.NewPermissionHandler(rbacService),
		Institution:  handler.NewInstitutionHandler(institutionService, accountService),
		Invitation:   handler.NewInvitationHandler(invitationService, institutionService),
		Relationship: handler.NewRelationshipHandler(relationshipService),
		Setting:      handler.NewSettingHandler(settingService),
	}

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewLoginRateLimiter(rdb, 30, time.Minute, log)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, authLimiter, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
