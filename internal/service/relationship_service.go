package service

import (
	"context"
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/repository"
	"github.com/rs/zerolog"
)

// RelationshipService handles the teacher/student/parent relationship graph:
// profiles, teacher-student assignments, and academic goals.
type RelationshipService struct {
	profiles    *repository.ProfileRepository
	assignments *repository.AssignmentRepository
	goals       *repository.GoalRepository
	log         zerolog.Logger
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(
	profiles *repository.ProfileRepository,
	assignments *repository.AssignmentRepository,
	goals *repository.GoalRepository,
	log zerolog.Logger,
) *RelationshipService {
	return &RelationshipService{
		profiles:    profiles,
		assignments: assignments,
		goals:       goals,
		log:         log.With().Str("component", "relationship_service").Logger(),
	}
}

// ─── Profiles ───────────────────────────────────────────────────────────────

// GetTeacherByUserID retrieves the teacher profile owned by a user.
func (s *RelationshipService) GetTeacherByUserID(ctx context.Context, userID string) (*model.TeacherProfile, error) {
	return s.profiles.GetTeacherByUserID(ctx, userID)
}

// GetStudentByUserID retrieves the student profile owned by a user.
func (s *RelationshipService) GetStudentByUserID(ctx context.Context, userID string) (*model.StudentProfile, error) {
	return s.profiles.GetStudentByUserID(ctx, userID)
}

// GetParentByUserID retrieves the parent profile owned by a user.
func (s *RelationshipService) GetParentByUserID(ctx context.Context, userID string) (*model.ParentProfile, error) {
	return s.profiles.GetParentByUserID(ctx, userID)
}

// UpdateEducationInfo applies validated grade level and school name to a
// student's own profile.
func (s *RelationshipService) UpdateEducationInfo(ctx context.Context, userID string, gradeLevel int, schoolName string) (*model.StudentProfile, error) {
	profile, err := s.profiles.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := profile.UpdateEducationInfo(gradeLevel, schoolName); err != nil {
		return nil, err
	}
	if err := s.profiles.UpdateStudent(ctx, profile, profile.Version); err != nil {
		return nil, err
	}
	return profile, nil
}

// LeaveInstitution detaches the calling user's profile (teacher or student)
// from its institution. A detached teacher becomes independent.
func (s *RelationshipService) LeaveInstitution(ctx context.Context, userID string) error {
	if teacher, err := s.profiles.GetTeacherByUserID(ctx, userID); err == nil {
		if teacher.InstitutionID == nil {
			return apperr.Validation("profile has no institution affiliation")
		}
		teacher.RemoveFromInstitution()
		return s.profiles.UpdateTeacher(ctx, teacher, teacher.Version)
	}

	student, err := s.profiles.GetStudentByUserID(ctx, userID)
	if err != nil {
		return apperr.NotFound("profile")
	}
	if student.InstitutionID == nil {
		return apperr.Validation("profile has no institution affiliation")
	}
	student.RemoveFromInstitution()
	return s.profiles.UpdateStudent(ctx, student, student.Version)
}

// ─── Assignments ────────────────────────────────────────────────────────────

// CreateAssignment pairs a teacher with a student for a subject. Duplicate
// creates for the same (teacher, student, subject) triple are silent
// no-ops: the existing assignment is returned unchanged.
func (s *RelationshipService) CreateAssignment(ctx context.Context, teacherID, studentID, subject string) (*model.TeacherStudentAssignment, error) {
	assignment := &model.TeacherStudentAssignment{
		TeacherID: teacherID,
		StudentID: studentID,
		Subject:   subject,
		StartDate: time.Now(),
		IsActive:  true,
	}

	inserted, err := s.assignments.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return s.assignments.GetByTriple(ctx, teacherID, studentID, subject)
	}

	s.log.Info().
		Str("teacher_id", teacherID).
		Str("student_id", studentID).
		Str("subject", subject).
		Msg("assignment created")

	return assignment, nil
}

// EndAssignment closes an assignment, preserving the row for history.
func (s *RelationshipService) EndAssignment(ctx context.Context, id string) (*model.TeacherStudentAssignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !assignment.IsActive {
		return assignment, nil
	}
	assignment.End(time.Now())
	if err := s.assignments.Update(ctx, assignment, assignment.Version); err != nil {
		return nil, err
	}
	return assignment, nil
}

// ReactivateAssignment reopens a previously ended assignment.
func (s *RelationshipService) ReactivateAssignment(ctx context.Context, id string) (*model.TeacherStudentAssignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment.IsActive {
		return assignment, nil
	}
	assignment.Reactivate()
	if err := s.assignments.Update(ctx, assignment, assignment.Version); err != nil {
		return nil, err
	}
	return assignment, nil
}

// GetAssignment retrieves an assignment by ID.
func (s *RelationshipService) GetAssignment(ctx context.Context, id string) (*model.TeacherStudentAssignment, error) {
	return s.assignments.GetByID(ctx, id)
}

// ListAssignmentsByTeacher retrieves a teacher's assignments.
func (s *RelationshipService) ListAssignmentsByTeacher(ctx context.Context, teacherID string, activeOnly bool) ([]model.TeacherStudentAssignment, error) {
	return s.assignments.ListByTeacher(ctx, teacherID, activeOnly)
}

// ListAssignmentsByStudent retrieves a student's assignments.
func (s *RelationshipService) ListAssignmentsByStudent(ctx context.Context, studentID string, activeOnly bool) ([]model.TeacherStudentAssignment, error) {
	return s.assignments.ListByStudent(ctx, studentID, activeOnly)
}

// EndTeacherStudentLink ends the teacher's active assignments with one
// student. Used by the teacher-side teardown endpoint.
func (s *RelationshipService) EndTeacherStudentLink(ctx context.Context, teacherID, studentID string) error {
	assignments, err := s.assignments.ListByTeacher(ctx, teacherID, true)
	if err != nil {
		return err
	}

	found := false
	for i := range assignments {
		if assignments[i].StudentID != studentID {
			continue
		}
		found = true
		assignments[i].End(time.Now())
		if err := s.assignments.Update(ctx, &assignments[i], assignments[i].Version); err != nil {
			return err
		}
	}
	if !found {
		return apperr.NotFound("assignment")
	}
	return nil
}

// ─── Academic goals ─────────────────────────────────────────────────────────

// CreateGoal adds a goal to a student profile.
func (s *RelationshipService) CreateGoal(ctx context.Context, studentProfileID string, req model.CreateGoalRequest) (*model.AcademicGoal, error) {
	if _, err := s.profiles.GetStudentByID(ctx, studentProfileID); err != nil {
		return nil, err
	}
	goal := &model.AcademicGoal{
		StudentProfileID: studentProfileID,
		Title:            req.Title,
		Subject:          req.Subject,
		TargetDate:       req.TargetDate,
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// UpdateGoalProgress applies a validated progress value; reaching 100 marks
// completion and dropping below reopens the goal.
func (s *RelationshipService) UpdateGoalProgress(ctx context.Context, goalID string, progress int) (*model.AcademicGoal, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := goal.UpdateProgress(progress, time.Now()); err != nil {
		return nil, err
	}
	if err := s.goals.Update(ctx, goal, goal.Version); err != nil {
		return nil, err
	}
	return goal, nil
}

// GetGoal retrieves a goal by ID.
func (s *RelationshipService) GetGoal(ctx context.Context, id string) (*model.AcademicGoal, error) {
	return s.goals.GetByID(ctx, id)
}

// ListGoals retrieves a student profile's goals.
func (s *RelationshipService) ListGoals(ctx context.Context, studentProfileID string) ([]model.AcademicGoal, error) {
	return s.goals.ListByStudentProfile(ctx, studentProfileID)
}
