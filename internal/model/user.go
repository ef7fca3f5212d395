package model

import (
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

// User is the identity aggregate. Exactly one account per email; a user owns
// at most one of TeacherProfile, StudentProfile, ParentProfile.
type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	PasswordHash        string     `json:"-"`
	IsActive            bool       `json:"is_active"`
	EmailConfirmed      bool       `json:"email_confirmed"`
	MustChangePassword  bool       `json:"must_change_password"`
	EmailConfirmToken   *string    `json:"-"`
	EmailConfirmExpiry  *time.Time `json:"-"`
	PasswordResetToken  *string    `json:"-"`
	PasswordResetExpiry *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Version             int64      `json:"-"`
}

// BeginEmailConfirmation stores a confirmation token valid for 48 hours.
func (u *User) BeginEmailConfirmation(token string, now time.Time) {
	expiry := now.Add(48 * time.Hour)
	u.EmailConfirmToken = &token
	u.EmailConfirmExpiry = &expiry
}

// ConfirmEmail validates the supplied token and flips the confirmed flag.
func (u *User) ConfirmEmail(token string, now time.Time) error {
	if u.EmailConfirmed {
		return nil
	}
	if u.EmailConfirmToken == nil || *u.EmailConfirmToken != token {
		return apperr.Validation("email confirmation token does not match")
	}
	if u.EmailConfirmExpiry != nil && now.After(*u.EmailConfirmExpiry) {
		return apperr.Validation("email confirmation token has expired")
	}
	u.EmailConfirmed = true
	u.EmailConfirmToken = nil
	u.EmailConfirmExpiry = nil
	return nil
}

// BeginPasswordReset stores a reset token valid for 2 hours.
func (u *User) BeginPasswordReset(token string, now time.Time) {
	expiry := now.Add(2 * time.Hour)
	u.PasswordResetToken = &token
	u.PasswordResetExpiry = &expiry
}

// CompletePasswordReset validates the token and installs the new hash.
func (u *User) CompletePasswordReset(token, newHash string, now time.Time) error {
	if u.PasswordResetToken == nil || *u.PasswordResetToken != token {
		return apperr.Validation("password reset token does not match")
	}
	if u.PasswordResetExpiry != nil && now.After(*u.PasswordResetExpiry) {
		return apperr.Validation("password reset token has expired")
	}
	u.PasswordHash = newHash
	u.PasswordResetToken = nil
	u.PasswordResetExpiry = nil
	u.MustChangePassword = false
	return nil
}

// RecordLogin stamps the last successful login time.
func (u *User) RecordLogin(now time.Time) {
	u.LastLoginAt = &now
}

// ─── Request payloads ───────────────────────────────────────────────────────

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         User     `json:"user"`
	Roles        []string `json:"roles"`
	Permissions  []string `json:"permissions"`
}

// RegisterTeacherRequest is the payload for independent teacher registration.
type RegisterTeacherRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// RegisterStudentRequest is the payload for student self-registration.
type RegisterStudentRequest struct {
	Email      string `json:"email" binding:"required,email,max=255"`
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Password   string `json:"password" binding:"required,min=6,max=128"`
	GradeLevel int    `json:"grade_level" binding:"required,min=1,max=12"`
}

// RegisterParentRequest is the payload for parent self-registration.
type RegisterParentRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
}

// RegisterInstitutionRequest creates an institution plus its first admin user.
type RegisterInstitutionRequest struct {
	InstitutionName string `json:"institution_name" binding:"required,min=2,max=200"`
	InstitutionType string `json:"institution_type" binding:"required,oneof=school private_course study_center online_platform"`
	AdminEmail      string `json:"admin_email" binding:"required,email,max=255"`
	AdminName       string `json:"admin_name" binding:"required,min=2,max=100"`
	AdminPassword   string `json:"admin_password" binding:"required,min=6,max=128"`
}
