package model

import (
	"time"
)

// TeacherStudentAssignment is a time-bounded pairing of a teacher and a
// student for one subject. (TeacherID, StudentID, Subject) is unique and the
// row is never physically removed; history survives via IsActive + EndDate.
type TeacherStudentAssignment struct {
	ID        string     `json:"id"`
	TeacherID string     `json:"teacher_id"`
	StudentID string     `json:"student_id"`
	Subject   string     `json:"subject"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	Version   int64      `json:"-"`
}

// End closes the pairing, keeping the row for audit history.
func (a *TeacherStudentAssignment) End(now time.Time) {
	a.EndDate = &now
	a.IsActive = false
}

// Reactivate reopens a previously ended pairing.
func (a *TeacherStudentAssignment) Reactivate() {
	a.EndDate = nil
	a.IsActive = true
}
