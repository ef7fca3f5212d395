package service

import (
	"context"
	"fmt"
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/event"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// AccountService handles registration, login, and the email confirmation and
// password reset flows. Multi-entity writes (user + profile + role binding)
// run in a single transaction.
type AccountService struct {
	pool      *pgxpool.Pool
	userRepo  *repository.UserRepository
	profiles  *repository.ProfileRepository
	instRepo  *repository.InstitutionRepository
	roleRepo  *repository.RoleRepository
	authSvc   *AuthService
	publisher *event.Publisher
	log       zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	pool *pgxpool.Pool,
	userRepo *repository.UserRepository,
	profiles *repository.ProfileRepository,
	instRepo *repository.InstitutionRepository,
	roleRepo *repository.RoleRepository,
	authSvc *AuthService,
	publisher *event.Publisher,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		pool:      pool,
		userRepo:  userRepo,
		profiles:  profiles,
		instRepo:  instRepo,
		roleRepo:  roleRepo,
		authSvc:   authSvc,
		publisher: publisher,
		log:       log.With().Str("component", "account_service").Logger(),
	}
}

// ─── Registration ───────────────────────────────────────────────────────────

// RegisterTeacher creates a user with an independent teacher profile.
func (s *AccountService) RegisterTeacher(ctx context.Context, req model.RegisterTeacherRequest) (*model.User, error) {
	hash, err := s.authSvc.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	teacherRole, err := s.roleRepo.GetByName(ctx, model.RoleTeacher)
	if err != nil {
		return nil, err
	}

	user := s.newRegisteredUser(req.Email, req.Name, hash)

	err = s.inTx(ctx, func(tx repository.DBTX) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		profile := &model.TeacherProfile{UserID: user.ID, IsIndependent: true}
		if err := s.profiles.WithTx(tx).CreateTeacher(ctx, profile); err != nil {
			return err
		}
		return s.roleRepo.WithTx(tx).AssignToUser(ctx, user.ID, teacherRole.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publishRegistered(ctx, user)
	return user, nil
}

// RegisterStudent creates a user with a student profile.
func (s *AccountService) RegisterStudent(ctx context.Context, req model.RegisterStudentRequest) (*model.User, error) {
	hash, err := s.authSvc.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	studentRole, err := s.roleRepo.GetByName(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	profile := &model.StudentProfile{}
	if err := profile.UpdateEducationInfo(req.GradeLevel, ""); err != nil {
		return nil, err
	}

	user := s.newRegisteredUser(req.Email, req.Name, hash)

	err = s.inTx(ctx, func(tx repository.DBTX) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		if err := s.profiles.WithTx(tx).CreateStudent(ctx, profile); err != nil {
			return err
		}
		return s.roleRepo.WithTx(tx).AssignToUser(ctx, user.ID, studentRole.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publishRegistered(ctx, user)
	return user, nil
}

// RegisterParent creates a user with a parent profile.
func (s *AccountService) RegisterParent(ctx context.Context, req model.RegisterParentRequest) (*model.User, error) {
	hash, err := s.authSvc.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	parentRole, err := s.roleRepo.GetByName(ctx, model.RoleParent)
	if err != nil {
		return nil, err
	}

	user := s.newRegisteredUser(req.Email, req.Name, hash)

	err = s.inTx(ctx, func(tx repository.DBTX) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		profile := &model.ParentProfile{UserID: user.ID, Phone: req.Phone}
		if err := s.profiles.WithTx(tx).CreateParent(ctx, profile); err != nil {
			return err
		}
		return s.roleRepo.WithTx(tx).AssignToUser(ctx, user.ID, parentRole.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publishRegistered(ctx, user)
	return user, nil
}

// RegisterInstitution creates an institution on a 14-day trial together with
// its owner account.
func (s *AccountService) RegisterInstitution(ctx context.Context, req model.RegisterInstitutionRequest) (*model.User, *model.Institution, error) {
	hash, err := s.authSvc.HashPassword(req.AdminPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	adminRole, err := s.roleRepo.GetByName(ctx, model.RoleInstitutionAdmin)
	if err != nil {
		return nil, nil, err
	}

	user := s.newRegisteredUser(req.AdminEmail, req.AdminName, hash)
	institution := model.NewInstitution(req.InstitutionName, model.InstitutionType(req.InstitutionType), time.Now())

	err = s.inTx(ctx, func(tx repository.DBTX) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		if err := s.instRepo.WithTx(tx).Create(ctx, institution); err != nil {
			return err
		}
		admin := &model.InstitutionAdmin{
			UserID:        user.ID,
			InstitutionID: institution.ID,
			AdminTier:     model.AdminTierOwner,
			IsActive:      true,
		}
		if err := s.instRepo.WithTx(tx).CreateAdmin(ctx, admin); err != nil {
			return err
		}
		return s.roleRepo.WithTx(tx).AssignToUser(ctx, user.ID, adminRole.ID)
	})
	if err != nil {
		return nil, nil, err
	}

	s.publishRegistered(ctx, user)
	return user, institution, nil
}

// ─── Admin-created affiliated accounts ──────────────────────────────────────

// CreatedAccount is the result of an admin-created account: the caller
// relays the temporary password out-of-band.
type CreatedAccount struct {
	UserID            string `json:"id"`
	TemporaryPassword string `json:"temporary_password"`
}

// CreateAffiliatedTeacher creates a teacher account inside an institution.
// The subscription must be active and teacher capacity unfilled; both checks
// run before the write, so the caller owns the narrow check-then-act race.
func (s *AccountService) CreateAffiliatedTeacher(ctx context.Context, institutionID, email, name string) (*CreatedAccount, error) {
	institution, err := s.instRepo.GetByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !institution.IsSubscriptionActive(time.Now()) {
		return nil, apperr.SubscriptionExpired()
	}
	count, err := s.instRepo.CountActiveTeachers(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !institution.CanAddTeacher(count) {
		return nil, apperr.CapacityExceeded("teacher")
	}

	teacherRole, err := s.roleRepo.GetByName(ctx, model.RoleTeacher)
	if err != nil {
		return nil, err
	}

	user, tempPassword, err := s.newProvisionedUser(email, name)
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(tx repository.DBTX) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		profile := &model.TeacherProfile{UserID: user.ID}
		profile.AssignToInstitution(institutionID)
		if err := s.profiles.WithTx(tx).CreateTeacher(ctx, profile); err != nil {
			return err
		}
		return s.roleRepo.WithTx(tx).AssignToUser(ctx, user.ID, teacherRole.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, model.EventUserCreated, model.UserCreatedPayload{
		UserID:            user.ID,
		Email:             user.Email,
		Name:              user.Name,
		TemporaryPassword: tempPassword,
		InstitutionID:     institution.ID,
		InstitutionName:   institution.Name,
	})

	return &CreatedAccount{UserID: user.ID, TemporaryPassword: tempPassword}, nil
}

// CreateAffiliatedStudent creates a student account inside an institution,
// against the student capacity limit.
func (s *AccountService) CreateAffiliatedStudent(ctx context.Context, institutionID, email, name string, gradeLevel int) (*CreatedAccount, error) {
	institution, err := s.instRepo.GetByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !institution.IsSubscriptionActive(time.Now()) {
		return nil, apperr.SubscriptionExpired()
	}
	count, err := s.instRepo.CountActiveStudents(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !institution.CanAddStudent(count) {
		return nil, apperr.CapacityExceeded("student")
	}

	profile := &model.StudentProfile{}
	if err := profile.UpdateEducationInfo(gradeLevel, institution.Name); err != nil {
		return nil, err
	}

	studentRole, err := s.roleRepo.GetByName(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	user, tempPassword, err := s.newProvisionedUser(email, name)
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(tx repository.DBTX) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		profile.AssignToInstitution(institutionID)
		if err := s.profiles.WithTx(tx).CreateStudent(ctx, profile); err != nil {
			return err
		}
		return s.roleRepo.WithTx(tx).AssignToUser(ctx, user.ID, studentRole.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, model.EventUserCreated, model.UserCreatedPayload{
		UserID:            user.ID,
		Email:             user.Email,
		Name:              user.Name,
		TemporaryPassword: tempPassword,
		InstitutionID:     institution.ID,
		InstitutionName:   institution.Name,
	})

	return &CreatedAccount{UserID: user.ID, TemporaryPassword: tempPassword}, nil
}

// ─── Login ──────────────────────────────────────────────────────────────────

// LoginResult bundles everything a successful login returns.
type LoginResult struct {
	User         *model.User
	Roles        []model.Role
	Permissions  []string
	AccessToken  string
	RefreshToken string
}

// Login validates credentials, stamps last login, and mints the token pair.
// The permission claims snapshot current role bindings.
func (s *AccountService) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := s.authSvc.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	roles, err := s.roleRepo.GetRolesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	permissions, err := s.roleRepo.ResolveEffectivePermissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.authSvc.GenerateAccessToken(user, roles, permissions)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	refreshToken, err := s.authSvc.GenerateRefreshToken(ctx, user.ID, ip)
	if err != nil {
		return nil, err
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Update(ctx, user, user.Version); err != nil {
		// A lost last-login stamp is not worth failing the login over.
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("record last login")
	}

	return &LoginResult{
		User:         user,
		Roles:        roles,
		Permissions:  permissions,
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
	}, nil
}

// RefreshAccessToken rotates the refresh token and mints a fresh access
// token with current bindings.
func (s *AccountService) RefreshAccessToken(ctx context.Context, refreshToken, ip string) (*LoginResult, error) {
	rotated, err := s.authSvc.RotateRefreshToken(ctx, refreshToken, ip)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, rotated.UserID)
	if err != nil {
		return nil, err
	}
	roles, err := s.roleRepo.GetRolesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	permissions, err := s.roleRepo.ResolveEffectivePermissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	accessToken, err := s.authSvc.GenerateAccessToken(user, roles, permissions)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{
		User:         user,
		Roles:        roles,
		Permissions:  permissions,
		AccessToken:  accessToken,
		RefreshToken: rotated.Token,
	}, nil
}

// ─── Email confirmation & password reset ────────────────────────────────────

// ConfirmEmail validates the confirmation token and marks the address
// confirmed.
func (s *AccountService) ConfirmEmail(ctx context.Context, email, token string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := user.ConfirmEmail(token, time.Now()); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user, user.Version); err != nil {
		return err
	}

	s.publisher.Publish(ctx, model.EventUserEmailConfirmed, model.UserEmailConfirmedPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	return nil
}

// ForgotPassword issues a reset token and publishes the reset event. An
// unknown email succeeds silently so the endpoint cannot be used to probe
// for accounts.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			s.log.Debug().Str("email", email).Msg("password reset for unknown email")
			return nil
		}
		return err
	}

	token := uuid.New().String()
	user.BeginPasswordReset(token, time.Now())
	if err := s.userRepo.Update(ctx, user, user.Version); err != nil {
		return err
	}

	s.publisher.Publish(ctx, model.EventUserForgotPassword, model.UserForgotPasswordPayload{
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		ResetToken: token,
	})
	return nil
}

// ResetPassword completes the reset flow and revokes every active refresh
// token the user holds.
func (s *AccountService) ResetPassword(ctx context.Context, email, token, newPassword, ip string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.authSvc.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := user.CompletePasswordReset(token, hash, time.Now()); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user, user.Version); err != nil {
		return err
	}

	return s.authSvc.refreshRepo.RevokeAllForUser(ctx, user.ID, ip, "password reset")
}

// GetUser retrieves a user by ID.
func (s *AccountService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func (s *AccountService) newRegisteredUser(email, name, hash string) *model.User {
	user := &model.User{
		Email:        normalizeEmail(email),
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}
	user.BeginEmailConfirmation(uuid.New().String(), time.Now())
	return user
}

func (s *AccountService) newProvisionedUser(email, name string) (*model.User, string, error) {
	tempPassword, err := s.authSvc.GenerateTemporaryPassword()
	if err != nil {
		return nil, "", fmt.Errorf("generate temporary password: %w", err)
	}
	hash, err := s.authSvc.HashPassword(tempPassword)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Email:              normalizeEmail(email),
		Name:               name,
		PasswordHash:       hash,
		IsActive:           true,
		EmailConfirmed:     true, // Address vouched for by the creating admin.
		MustChangePassword: true,
	}
	return user, tempPassword, nil
}

func (s *AccountService) publishRegistered(ctx context.Context, user *model.User) {
	confirmToken := ""
	if user.EmailConfirmToken != nil {
		confirmToken = *user.EmailConfirmToken
	}
	s.publisher.Publish(ctx, model.EventUserRegistered, model.UserRegisteredPayload{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		ConfirmToken: confirmToken,
	})
}

// inTx runs fn inside a transaction, rolling back on any error.
func (s *AccountService) inTx(ctx context.Context, fn func(tx repository.DBTX) error) error {
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
