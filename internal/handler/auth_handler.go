package handler

import (
	"errors"
	"net/http"

	"github.com/brightclass/brightclass-backend/internal/middleware"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/response"
	"github.com/brightclass/brightclass-backend/internal/service"
	"github.com/brightclass/brightclass-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login, token refresh, and the email
// confirmation and password reset flows.
type AuthHandler struct {
	accountService *service.AccountService
	authService    *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountService *service.AccountService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		authService:    authService,
	}
}

// RegisterTeacher godoc
// POST /api/v1/auth/register/teacher
// Creates a user with an independent teacher profile.
func (h *AuthHandler) RegisterTeacher(c *gin.Context) {
	var req model.RegisterTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.accountService.RegisterTeacher(c.Request.Context(), req)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": userView(user)})
}

// RegisterStudent godoc
// POST /api/v1/auth/register/student
// Creates a user with a student profile.
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req model.RegisterStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.accountService.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": userView(user)})
}

// RegisterParent godoc
// POST /api/v1/auth/register/parent
func (h *AuthHandler) RegisterParent(c *gin.Context) {
	var req model.RegisterParentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.accountService.RegisterParent(c.Request.Context(), req)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": userView(user)})
}

// RegisterInstitution godoc
// POST /api/v1/auth/register/institution
// Creates an institution on trial together with its owner account.
func (h *AuthHandler) RegisterInstitution(c *gin.Context) {
	var req model.RegisterInstitutionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, institution, err := h.accountService.RegisterInstitution(c.Request.Context(), req)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":        userView(user),
		"institution": institution,
	})
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password, returns the access/refresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.accountService.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.FailDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, loginView(result))
}

// Refresh godoc
// POST /api/v1/auth/refresh
// Rotates the refresh token and mints a fresh access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.accountService.RefreshAccessToken(c.Request.Context(), req.RefreshToken, c.ClientIP())
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	response.Success(c, http.StatusOK, loginView(result))
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the presented refresh token. Revoking twice is a no-op.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.authService.RevokeRefreshToken(c.Request.Context(), req.RefreshToken, c.ClientIP(), "logout"); err != nil {
		response.FailDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated user with role and permission claims.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.accountService.GetUser(c.Request.Context(), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":        userView(user),
		"roles":       claims.Roles,
		"permissions": claims.Permissions,
	})
}

// ConfirmEmail godoc
// POST /api/v1/auth/confirm-email
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Token string `json:"token" binding:"required"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.accountService.ConfirmEmail(c.Request.Context(), req.Email, req.Token); err != nil {
		response.FailDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ForgotPassword godoc
// POST /api/v1/auth/forgot-password
// Always returns 200 so the endpoint cannot probe for accounts.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.accountService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.FailDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ResetPassword godoc
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.accountService.ResetPassword(c.Request.Context(), req.Email, req.Token, req.NewPassword, c.ClientIP()); err != nil {
		response.FailDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func userView(u *model.User) gin.H {
	return gin.H{
		"id":                   u.ID,
		"email":                u.Email,
		"name":                 u.Name,
		"email_confirmed":      u.EmailConfirmed,
		"must_change_password": u.MustChangePassword,
		"created_at":           u.CreatedAt,
	}
}

func loginView(r *service.LoginResult) gin.H {
	roleNames := make([]string, 0, len(r.Roles))
	for _, role := range r.Roles {
		roleNames = append(roleNames, role.Name)
	}
	return gin.H{
		"access_token":  r.AccessToken,
		"refresh_token": r.RefreshToken,
		"user":          userView(r.User),
		"roles":         roleNames,
		"permissions":   r.Permissions,
	}
}
