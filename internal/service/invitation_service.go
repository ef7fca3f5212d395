package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/event"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// InvitationService manages the invitation lifecycle. Acceptance and the
// resulting relationship mutation commit in a single transaction so an
// invitation is never marked accepted without its relationship existing.
type InvitationService struct {
	pool        *pgxpool.Pool
	invitations *repository.InvitationRepository
	userRepo    *repository.UserRepository
	profiles    *repository.ProfileRepository
	assignments *repository.AssignmentRepository
	instRepo    *repository.InstitutionRepository
	publisher   *event.Publisher
	log         zerolog.Logger
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	pool *pgxpool.Pool,
	invitations *repository.InvitationRepository,
	userRepo *repository.UserRepository,
	profiles *repository.ProfileRepository,
	assignments *repository.AssignmentRepository,
	instRepo *repository.InstitutionRepository,
	publisher *event.Publisher,
	log zerolog.Logger,
) *InvitationService {
	return &InvitationService{
		pool:        pool,
		invitations: invitations,
		userRepo:    userRepo,
		profiles:    profiles,
		assignments: assignments,
		instRepo:    instRepo,
		publisher:   publisher,
		log:         log.With().Str("component", "invitation_service").Logger(),
	}
}

// CreateInstitutionInvitation invites an email address to join an institution
// as a teacher or student. Only one pending invitation per email and context
// may exist; the database index rejects duplicates.
func (s *InvitationService) CreateInstitutionInvitation(ctx context.Context, inviterUserID, institutionID string, role model.InviteeRole, req model.CreateInvitationRequest) (*model.Invitation, error) {
	institution, err := s.instRepo.GetByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !institution.IsSubscriptionActive(time.Now()) {
		return nil, apperr.SubscriptionExpired()
	}

	inv := model.NewInvitation(inviterUserID, normalizeEmail(req.Email), model.InvitationTypeInstitution, role, req.ExpirationDays, time.Now())
	inv.InstitutionID = &institutionID
	inv.Message = req.Message

	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.publishCreated(ctx, inv, institution.Name)
	return inv, nil
}

// CreateTeacherInvitation invites a student to work with an individual
// teacher on a subject.
func (s *InvitationService) CreateTeacherInvitation(ctx context.Context, inviterUserID string, req model.CreateInvitationRequest) (*model.Invitation, error) {
	teacher, err := s.profiles.GetTeacherByUserID(ctx, inviterUserID)
	if err != nil {
		return nil, err
	}
	if req.Subject == "" {
		return nil, apperr.Validation("subject is required for teacher invitations")
	}

	inv := model.NewInvitation(inviterUserID, normalizeEmail(req.Email), model.InvitationTypeTeacher, model.InviteeRoleStudent, req.ExpirationDays, time.Now())
	inv.TeacherID = &teacher.ID
	inv.Subject = req.Subject
	inv.Message = req.Message

	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.publishCreated(ctx, inv, "")
	return inv, nil
}

// Accept transitions an invitation to Accepted and creates the relationship
// it describes, atomically. A stale pending invitation is durably expired
// instead.
func (s *InvitationService) Accept(ctx context.Context, invitationID, userID string) (*model.Invitation, error) {
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.Email, inv.InviteeEmail) {
		return nil, apperr.Forbidden("invitation is addressed to a different email")
	}

	now := time.Now()
	if inv.Status == model.InvitationPending && now.After(inv.ExpiresAt) {
		s.expireStale(ctx, inv, now)
		return nil, apperr.InvalidStateTransition("invitation expired at %s", inv.ExpiresAt.Format(time.RFC3339))
	}
	if err := inv.Accept(userID, now); err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(tx repository.DBTX) error {
		switch inv.Type {
		case model.InvitationTypeInstitution:
			if err := s.joinInstitution(ctx, tx, inv, userID, now); err != nil {
				return err
			}
		case model.InvitationTypeTeacher:
			if err := s.linkToTeacher(ctx, tx, inv, userID, now); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown invitation type %q", inv.Type)
		}
		return s.invitations.WithTx(tx).Update(ctx, inv, inv.Version)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("invitation_id", inv.ID).
		Str("user_id", userID).
		Str("type", string(inv.Type)).
		Msg("invitation accepted")

	return inv, nil
}

// Reject transitions an invitation to Rejected.
func (s *InvitationService) Reject(ctx context.Context, invitationID, userID string) (*model.Invitation, error) {
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.Email, inv.InviteeEmail) {
		return nil, apperr.Forbidden("invitation is addressed to a different email")
	}

	now := time.Now()
	if inv.Status == model.InvitationPending && now.After(inv.ExpiresAt) {
		s.expireStale(ctx, inv, now)
		return nil, apperr.InvalidStateTransition("invitation expired at %s", inv.ExpiresAt.Format(time.RFC3339))
	}
	if err := inv.Reject(now); err != nil {
		return nil, err
	}
	if err := s.invitations.Update(ctx, inv, inv.Version); err != nil {
		return nil, err
	}
	return inv, nil
}

// ListForEmail retrieves every invitation addressed to an email. Stale
// pending rows are expired on the way out so callers never see a pending
// invitation that can no longer be accepted.
func (s *InvitationService) ListForEmail(ctx context.Context, email string) ([]model.Invitation, error) {
	invitations, err := s.invitations.ListByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range invitations {
		if invitations[i].Status != model.InvitationPending || !now.After(invitations[i].ExpiresAt) {
			continue
		}
		s.expireStale(ctx, &invitations[i], now)
	}
	return invitations, nil
}

// GetByID retrieves a single invitation.
func (s *InvitationService) GetByID(ctx context.Context, id string) (*model.Invitation, error) {
	return s.invitations.GetByID(ctx, id)
}

// joinInstitution attaches the invitee's profile to the inviting institution
// after re-checking the subscription and capacity gates inside the accept
// transaction.
func (s *InvitationService) joinInstitution(ctx context.Context, tx repository.DBTX, inv *model.Invitation, userID string, now time.Time) error {
	institution, err := s.instRepo.WithTx(tx).GetByID(ctx, *inv.InstitutionID)
	if err != nil {
		return err
	}
	if !institution.IsSubscriptionActive(now) {
		return apperr.SubscriptionExpired()
	}

	switch inv.InviteeRole {
	case model.InviteeRoleTeacher:
		count, err := s.instRepo.WithTx(tx).CountActiveTeachers(ctx, institution.ID)
		if err != nil {
			return err
		}
		if !institution.CanAddTeacher(count) {
			return apperr.CapacityExceeded("teacher")
		}
		profile, err := s.profiles.WithTx(tx).GetTeacherByUserID(ctx, userID)
		if err != nil {
			return err
		}
		profile.AssignToInstitution(institution.ID)
		return s.profiles.WithTx(tx).UpdateTeacher(ctx, profile, profile.Version)
	case model.InviteeRoleStudent:
		count, err := s.instRepo.WithTx(tx).CountActiveStudents(ctx, institution.ID)
		if err != nil {
			return err
		}
		if !institution.CanAddStudent(count) {
			return apperr.CapacityExceeded("student")
		}
		profile, err := s.profiles.WithTx(tx).GetStudentByUserID(ctx, userID)
		if err != nil {
			return err
		}
		profile.AssignToInstitution(institution.ID)
		return s.profiles.WithTx(tx).UpdateStudent(ctx, profile, profile.Version)
	default:
		return fmt.Errorf("unknown invitee role %q", inv.InviteeRole)
	}
}

// linkToTeacher creates the teacher-student assignment a teacher invitation
// describes. The duplicate no-op insert keeps a re-accepted invitation from
// failing when the assignment already exists.
func (s *InvitationService) linkToTeacher(ctx context.Context, tx repository.DBTX, inv *model.Invitation, userID string, now time.Time) error {
	student, err := s.profiles.WithTx(tx).GetStudentByUserID(ctx, userID)
	if err != nil {
		return err
	}
	assignment := &model.TeacherStudentAssignment{
		TeacherID: *inv.TeacherID,
		StudentID: student.ID,
		Subject:   inv.Subject,
		StartDate: now,
		IsActive:  true,
	}
	_, err = s.assignments.WithTx(tx).Create(ctx, assignment)
	return err
}

// expireStale durably flips a stale pending invitation. Losing the update
// race just means another request expired it first.
func (s *InvitationService) expireStale(ctx context.Context, inv *model.Invitation, now time.Time) {
	if err := inv.MarkAsExpired(now); err != nil {
		return
	}
	if err := s.invitations.Update(ctx, inv, inv.Version); err != nil && !apperr.Is(err, apperr.CodeConcurrencyConflict) {
		s.log.Warn().Err(err).Str("invitation_id", inv.ID).Msg("expire stale invitation")
	}
}

func (s *InvitationService) publishCreated(ctx context.Context, inv *model.Invitation, institutionName string) {
	inviterName := ""
	if inviter, err := s.userRepo.GetByID(ctx, inv.InviterID); err == nil {
		inviterName = inviter.Name
	}
	s.publisher.Publish(ctx, model.EventInvitationCreated, model.InvitationCreatedPayload{
		InvitationID:    inv.ID,
		InviteeEmail:    inv.InviteeEmail,
		InviterName:     inviterName,
		InstitutionName: institutionName,
		InviteeRole:     string(inv.InviteeRole),
		Message:         inv.Message,
		ExpiresAt:       inv.ExpiresAt.Format(time.RFC3339),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *InvitationService) inTx(ctx context.Context, fn func(tx repository.DBTX) error) error {
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
