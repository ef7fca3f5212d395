package model

import (
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

// TeacherProfile is the teaching identity of a user. A teacher without an
// institution affiliation is independent.
type TeacherProfile struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	InstitutionID *string   `json:"institution_id,omitempty"`
	IsIndependent bool      `json:"is_independent"`
	Headline      string    `json:"headline,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int64     `json:"-"`
}

// AssignToInstitution affiliates the teacher and clears independence.
func (t *TeacherProfile) AssignToInstitution(institutionID string) {
	t.InstitutionID = &institutionID
	t.IsIndependent = false
}

// RemoveFromInstitution detaches the teacher; they become independent.
func (t *TeacherProfile) RemoveFromInstitution() {
	t.InstitutionID = nil
	t.IsIndependent = true
}

// StudentProfile is the learning identity of a user.
type StudentProfile struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	InstitutionID *string   `json:"institution_id,omitempty"`
	GradeLevel    int       `json:"grade_level"`
	SchoolName    string    `json:"school_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int64     `json:"-"`
}

// UpdateEducationInfo validates and applies grade level and school name.
// Grade levels run 1 through 12.
func (s *StudentProfile) UpdateEducationInfo(gradeLevel int, schoolName string) error {
	if gradeLevel < 1 || gradeLevel > 12 {
		return apperr.Validation("grade level must be between 1 and 12, got %d", gradeLevel)
	}
	s.GradeLevel = gradeLevel
	s.SchoolName = schoolName
	return nil
}

// AssignToInstitution affiliates the student with an institution.
func (s *StudentProfile) AssignToInstitution(institutionID string) {
	s.InstitutionID = &institutionID
}

// RemoveFromInstitution detaches the student from their institution.
func (s *StudentProfile) RemoveFromInstitution() {
	s.InstitutionID = nil
}

// ParentProfile is the guardian identity of a user.
type ParentProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"-"`
}
