package service

import (
	"context"
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/repository"
	"github.com/rs/zerolog"
)

// InstitutionService handles institution administration: license upgrades,
// capacity queries, and member teardown.
type InstitutionService struct {
	instRepo *repository.InstitutionRepository
	profiles *repository.ProfileRepository
	log      zerolog.Logger
}

// NewInstitutionService creates a new InstitutionService.
func NewInstitutionService(instRepo *repository.InstitutionRepository, profiles *repository.ProfileRepository, log zerolog.Logger) *InstitutionService {
	return &InstitutionService{
		instRepo: instRepo,
		profiles: profiles,
		log:      log.With().Str("component", "institution_service").Logger(),
	}
}

// GetByID retrieves an institution.
func (s *InstitutionService) GetByID(ctx context.Context, id string) (*model.Institution, error) {
	return s.instRepo.GetByID(ctx, id)
}

// GetAdminInstitution resolves the institution a user administers.
func (s *InstitutionService) GetAdminInstitution(ctx context.Context, userID string) (*model.Institution, error) {
	admin, err := s.instRepo.GetAdminByUserID(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.Forbidden("user does not administer an institution")
		}
		return nil, err
	}
	return s.instRepo.GetByID(ctx, admin.InstitutionID)
}

// UpgradeLicense replaces tier, capacity limits, and the subscription end
// date in one versioned write.
func (s *InstitutionService) UpgradeLicense(ctx context.Context, institutionID string, req model.UpgradeLicenseRequest) (*model.Institution, error) {
	institution, err := s.instRepo.GetByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	validUntil := time.Now().AddDate(0, req.ValidMonths, 0)
	institution.UpgradeLicense(model.LicenseTier(req.Tier), req.MaxStudents, req.MaxTeachers, validUntil)

	if err := s.instRepo.Update(ctx, institution, institution.Version); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("institution_id", institution.ID).
		Str("tier", req.Tier).
		Time("valid_until", validUntil).
		Msg("license upgraded")

	return institution, nil
}

// CapacityStatus reports current usage against derived limits.
type CapacityStatus struct {
	MaxStudents    int  `json:"max_students"`
	MaxTeachers    int  `json:"max_teachers"`
	ActiveStudents int  `json:"active_students"`
	ActiveTeachers int  `json:"active_teachers"`
	CanAddStudent  bool `json:"can_add_student"`
	CanAddTeacher  bool `json:"can_add_teacher"`
	SubscriptionOK bool `json:"subscription_active"`
}

// GetCapacity computes the institution's capacity status.
func (s *InstitutionService) GetCapacity(ctx context.Context, institutionID string) (*CapacityStatus, error) {
	institution, err := s.instRepo.GetByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	students, err := s.instRepo.CountActiveStudents(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	teachers, err := s.instRepo.CountActiveTeachers(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	return &CapacityStatus{
		MaxStudents:    institution.MaxStudents,
		MaxTeachers:    institution.MaxTeachers,
		ActiveStudents: students,
		ActiveTeachers: teachers,
		CanAddStudent:  institution.CanAddStudent(students),
		CanAddTeacher:  institution.CanAddTeacher(teachers),
		SubscriptionOK: institution.IsSubscriptionActive(time.Now()),
	}, nil
}

// ListTeachers retrieves one page of the institution's teacher profiles
// together with the total affiliate count.
func (s *InstitutionService) ListTeachers(ctx context.Context, institutionID string, limit, offset int) ([]model.TeacherProfile, int, error) {
	total, err := s.instRepo.CountActiveTeachers(ctx, institutionID)
	if err != nil {
		return nil, 0, err
	}
	teachers, err := s.profiles.ListTeachersByInstitution(ctx, institutionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return teachers, total, nil
}

// ListStudents retrieves one page of the institution's student profiles
// together with the total affiliate count.
func (s *InstitutionService) ListStudents(ctx context.Context, institutionID string, limit, offset int) ([]model.StudentProfile, int, error) {
	total, err := s.instRepo.CountActiveStudents(ctx, institutionID)
	if err != nil {
		return nil, 0, err
	}
	students, err := s.profiles.ListStudentsByInstitution(ctx, institutionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// RemoveTeacher detaches a teacher profile from the institution. The
// teacher becomes independent; their account and assignment history stay.
func (s *InstitutionService) RemoveTeacher(ctx context.Context, institutionID, teacherProfileID string) error {
	profile, err := s.profiles.GetTeacherByID(ctx, teacherProfileID)
	if err != nil {
		return err
	}
	if profile.InstitutionID == nil || *profile.InstitutionID != institutionID {
		return apperr.NotFound("teacher profile")
	}

	profile.RemoveFromInstitution()
	return s.profiles.UpdateTeacher(ctx, profile, profile.Version)
}

// RemoveStudent detaches a student profile from the institution.
func (s *InstitutionService) RemoveStudent(ctx context.Context, institutionID, studentProfileID string) error {
	profile, err := s.profiles.GetStudentByID(ctx, studentProfileID)
	if err != nil {
		return err
	}
	if profile.InstitutionID == nil || *profile.InstitutionID != institutionID {
		return apperr.NotFound("student profile")
	}

	profile.RemoveFromInstitution()
	return s.profiles.UpdateStudent(ctx, profile, profile.Version)
}
