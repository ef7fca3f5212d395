package model

import (
	"testing"
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

func TestTeacherProfileIndependence(t *testing.T) {
	p := &TeacherProfile{IsIndependent: true}

	p.AssignToInstitution("inst-1")
	if p.InstitutionID == nil || *p.InstitutionID != "inst-1" {
		t.Errorf("InstitutionID = %v, want inst-1", p.InstitutionID)
	}
	if p.IsIndependent {
		t.Error("affiliated teacher should not be independent")
	}

	p.RemoveFromInstitution()
	if p.InstitutionID != nil {
		t.Errorf("InstitutionID = %v, want nil", p.InstitutionID)
	}
	if !p.IsIndependent {
		t.Error("detached teacher should become independent")
	}
}

func TestStudentProfileUpdateEducationInfo(t *testing.T) {
	p := &StudentProfile{GradeLevel: 5, SchoolName: "Old School"}

	for _, bad := range []int{0, 13, -3} {
		if err := p.UpdateEducationInfo(bad, "New School"); !apperr.Is(err, apperr.CodeValidation) {
			t.Errorf("UpdateEducationInfo(%d) err = %v, want validation", bad, err)
		}
	}
	if p.GradeLevel != 5 || p.SchoolName != "Old School" {
		t.Error("failed update must not mutate the profile")
	}

	if err := p.UpdateEducationInfo(12, "New School"); err != nil {
		t.Fatalf("UpdateEducationInfo: %v", err)
	}
	if p.GradeLevel != 12 || p.SchoolName != "New School" {
		t.Errorf("profile = (%d, %s)", p.GradeLevel, p.SchoolName)
	}
}

func TestAssignmentEndReactivate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a := &TeacherStudentAssignment{IsActive: true, StartDate: now.AddDate(0, -1, 0)}

	a.End(now)
	if a.IsActive {
		t.Error("ended assignment should be inactive")
	}
	if a.EndDate == nil || !a.EndDate.Equal(now) {
		t.Errorf("EndDate = %v, want %s", a.EndDate, now)
	}

	a.Reactivate()
	if !a.IsActive || a.EndDate != nil {
		t.Errorf("after Reactivate: active=%v endDate=%v", a.IsActive, a.EndDate)
	}
}
