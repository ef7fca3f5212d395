package router

import (
	"net/http"
	"time"

	"github.com/brightclass/brightclass-backend/internal/config"
	"github.com/brightclass/brightclass-backend/internal/handler"
	"github.com/brightclass/brightclass-backend/internal/middleware"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/response"
	"github.com/brightclass/brightclass-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Role         *handler.RoleHandler
	Permission   *handler.PermissionHandler
	Institution  *handler.InstitutionHandler
	Invitation   *handler.InvitationHandler
	Relationship *handler.RelationshipHandler
	Setting      *handler.SettingHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	authLimiter *middleware.LoginRateLimiter,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register/teacher", handlers.Auth.RegisterTeacher)
		auth.POST("/register/student", handlers.Auth.RegisterStudent)
		auth.POST("/register/parent", handlers.Auth.RegisterParent)
		auth.POST("/register/institution", handlers.Auth.RegisterInstitution)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/confirm-email", handlers.Auth.ConfirmEmail)
		auth.POST("/forgot-password", handlers.Auth.ForgotPassword)
		auth.POST("/reset-password", handlers.Auth.ResetPassword)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. RBAC Administration (JWT + permissions) ────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(authService))
	{
		rolesGroup := api.Group("/roles")
		{
			rolesGroup.GET("", middleware.RequirePermission(model.PermissionRolesRead), handlers.Role.ListRoles)
			rolesGroup.GET("/:id", middleware.RequirePermission(model.PermissionRolesRead), handlers.Role.GetRole)
			rolesGroup.POST("", middleware.RequirePermission(model.PermissionRolesWrite), handlers.Role.CreateRole)
			rolesGroup.PUT("/:id", middleware.RequirePermission(model.PermissionRolesWrite), handlers.Role.UpdateRole)
			rolesGroup.DELETE("/:id", middleware.RequirePermission(model.PermissionRolesWrite), handlers.Role.DeleteRole)
			rolesGroup.POST("/:id/restore", middleware.RequirePermission(model.PermissionRolesWrite), handlers.Role.RestoreRole)
		}

		permissionsGroup := api.Group("/permissions")
		{
			permissionsGroup.GET("", middleware.RequirePermission(model.PermissionPermissionsRead), handlers.Permission.ListPermissions)
			permissionsGroup.POST("", middleware.RequirePermission(model.PermissionPermissionsWrite), handlers.Permission.CreatePermission)
			permissionsGroup.PUT("/:key", middleware.RequirePermission(model.PermissionPermissionsWrite), handlers.Permission.UpdatePermission)
			permissionsGroup.DELETE("/:key", middleware.RequirePermission(model.PermissionPermissionsWrite), handlers.Permission.DeletePermission)
			permissionsGroup.POST("/:key/restore", middleware.RequirePermission(model.PermissionPermissionsWrite), handlers.Permission.RestorePermission)
		}

		usersGroup := api.Group("/users")
		{
			usersGroup.GET("/:id/roles", middleware.RequirePermission(model.PermissionUsersRead), handlers.Role.GetUserRoles)
			usersGroup.GET("/:id/permissions", middleware.RequirePermission(model.PermissionUsersRead), handlers.Role.GetUserPermissions)
			usersGroup.POST("/:id/roles", middleware.RequirePermission(model.PermissionUsersWrite), handlers.Role.AssignRoleToUser)
			usersGroup.DELETE("/:id/roles/:roleId", middleware.RequirePermission(model.PermissionUsersWrite), handlers.Role.RemoveRoleFromUser)

			// Any authenticated member can detach their own profile.
			usersGroup.DELETE("/me/institution", handlers.Relationship.LeaveInstitution)
		}

		// ─── 3. Institution Administration ─────────────────────────
		institutionGroup := api.Group("/institution")
		{
			institutionGroup.GET("", middleware.RequirePermission(model.PermissionInstitutionManage), handlers.Institution.GetMyInstitution)
			institutionGroup.GET("/capacity", middleware.RequirePermission(model.PermissionInstitutionManage), handlers.Institution.GetCapacity)
			institutionGroup.PUT("/license", middleware.RequirePermission(model.PermissionInstitutionManage), handlers.Institution.UpgradeLicense)

			institutionGroup.GET("/teachers", middleware.RequirePermission(model.PermissionInstitutionMembersRead), handlers.Institution.ListTeachers)
			institutionGroup.GET("/students", middleware.RequirePermission(model.PermissionInstitutionMembersRead), handlers.Institution.ListStudents)
			institutionGroup.POST("/teachers", middleware.RequirePermission(model.PermissionInstitutionMembersWrite), handlers.Institution.CreateTeacher)
			institutionGroup.POST("/students", middleware.RequirePermission(model.PermissionInstitutionMembersWrite), handlers.Institution.CreateStudent)
			institutionGroup.DELETE("/teachers/:id", middleware.RequirePermission(model.PermissionInstitutionMembersWrite), handlers.Institution.RemoveTeacher)
			institutionGroup.DELETE("/students/:id", middleware.RequirePermission(model.PermissionInstitutionMembersWrite), handlers.Institution.RemoveStudent)

			institutionGroup.POST("/invitations/:role", middleware.RequirePermission(model.PermissionInvitationsWrite), handlers.Invitation.InviteToInstitution)
		}

		// ─── 4. Teacher Routes ─────────────────────────────────────
		teacherGroup := api.Group("/teacher")
		{
			teacherGroup.POST("/invitations", middleware.RequirePermission(model.PermissionInvitationsWrite), handlers.Invitation.InviteStudent)
			teacherGroup.GET("/assignments", middleware.RequirePermission(model.PermissionAssignmentsRead), handlers.Relationship.ListTeacherAssignments)
			teacherGroup.POST("/assignments", middleware.RequirePermission(model.PermissionAssignmentsWrite), handlers.Relationship.CreateAssignment)
			teacherGroup.POST("/assignments/:id/end", middleware.RequirePermission(model.PermissionAssignmentsWrite), handlers.Relationship.EndAssignment)
			teacherGroup.POST("/assignments/:id/reactivate", middleware.RequirePermission(model.PermissionAssignmentsWrite), handlers.Relationship.ReactivateAssignment)
			teacherGroup.DELETE("/students/:studentProfileId", middleware.RequirePermission(model.PermissionAssignmentsWrite), handlers.Relationship.EndStudentLink)
		}

		// ─── 5. Student Routes ─────────────────────────────────────
		studentGroup := api.Group("/student")
		{
			studentGroup.GET("/assignments", middleware.RequirePermission(model.PermissionAssignmentsRead), handlers.Relationship.ListStudentAssignments)
			studentGroup.PUT("/profile", handlers.Relationship.UpdateEducationInfo)
			studentGroup.GET("/goals", middleware.RequirePermission(model.PermissionGoalsRead), handlers.Relationship.ListGoals)
			studentGroup.POST("/goals", middleware.RequirePermission(model.PermissionGoalsWrite), handlers.Relationship.CreateGoal)
			studentGroup.PUT("/goals/:id/progress", middleware.RequirePermission(model.PermissionGoalsWrite), handlers.Relationship.UpdateGoalProgress)
		}

		// ─── 6. Parent Routes ──────────────────────────────────────
		parentGroup := api.Group("/parent")
		{
			parentGroup.GET("/profile", handlers.Relationship.GetParentProfile)
		}

		// ─── 7. Invitations (any authenticated user) ───────────────
		invitationsGroup := api.Group("/invitations")
		{
			invitationsGroup.GET("", handlers.Invitation.ListMyInvitations)
			invitationsGroup.POST("/:id/accept", handlers.Invitation.Accept)
			invitationsGroup.POST("/:id/reject", handlers.Invitation.Reject)
		}

		// ─── 8. App Settings ───────────────────────────────────────
		settingsGroup := api.Group("/settings")
		{
			settingsGroup.GET("", middleware.RequirePermission(model.PermissionSettingsRead), handlers.Setting.ListSettings)
			settingsGroup.GET("/:key", middleware.RequirePermission(model.PermissionSettingsRead), handlers.Setting.GetSetting)
			settingsGroup.PUT("/:key", middleware.RequirePermission(model.PermissionSettingsWrite), handlers.Setting.SetSetting)
		}
	}

	return router
}
