package repository

import (
	"context"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
)

const assignmentColumns = `id, teacher_id, student_id, subject, start_date, end_date, is_active, created_at, version`

// AssignmentRepository handles teacher-student assignment data access.
type AssignmentRepository struct {
	db DBTX
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(db DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *AssignmentRepository) WithTx(tx DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: tx}
}

func scanAssignment(row interface{ Scan(...any) error }) (*model.TeacherStudentAssignment, error) {
	a := &model.TeacherStudentAssignment{}
	err := row.Scan(&a.ID, &a.TeacherID, &a.StudentID, &a.Subject,
		&a.StartDate, &a.EndDate, &a.IsActive, &a.CreatedAt, &a.Version)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts an assignment. The unique (teacher, student, subject)
// constraint plus ON CONFLICT DO NOTHING makes duplicate creates silent
// no-ops; the returned bool says whether a row was inserted.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.TeacherStudentAssignment) (bool, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO teacher_student_assignments
			(teacher_id, student_id, subject, start_date, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (teacher_id, student_id, subject) DO NOTHING
		 RETURNING id, created_at, version`,
		a.TeacherID, a.StudentID, a.Subject, a.StartDate, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.Version)
	if IsNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID retrieves an assignment by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*model.TeacherStudentAssignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM teacher_student_assignments WHERE id = $1`, id))
	if IsNoRows(err) {
		return nil, apperr.NotFound("assignment")
	}
	return a, err
}

// GetByTriple retrieves the assignment for an exact (teacher, student,
// subject) pairing, active or not.
func (r *AssignmentRepository) GetByTriple(ctx context.Context, teacherID, studentID, subject string) (*model.TeacherStudentAssignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM teacher_student_assignments
		 WHERE teacher_id = $1 AND student_id = $2 AND subject = $3`,
		teacherID, studentID, subject))
	if IsNoRows(err) {
		return nil, apperr.NotFound("assignment")
	}
	return a, err
}

// Update persists lifecycle fields with a version check. End and Reactivate
// go through here; rows are never deleted.
func (r *AssignmentRepository) Update(ctx context.Context, a *model.TeacherStudentAssignment, expectedVersion int64) error {
	err := r.db.QueryRow(ctx,
		`UPDATE teacher_student_assignments SET
			end_date = $1, is_active = $2, version = version + 1
		 WHERE id = $3 AND version = $4
		 RETURNING version`,
		a.EndDate, a.IsActive, a.ID, expectedVersion,
	).Scan(&a.Version)
	if IsNoRows(err) {
		return apperr.ConcurrencyConflict("assignment")
	}
	return err
}

// ListByTeacher retrieves assignments for a teacher, optionally only active
// ones.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacherID string, activeOnly bool) ([]model.TeacherStudentAssignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assignmentColumns+` FROM teacher_student_assignments
		 WHERE teacher_id = $1 AND ($2 = false OR is_active)
		 ORDER BY created_at`, teacherID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

// ListByStudent retrieves assignments for a student, optionally only active
// ones.
func (r *AssignmentRepository) ListByStudent(ctx context.Context, studentID string, activeOnly bool) ([]model.TeacherStudentAssignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assignmentColumns+` FROM teacher_student_assignments
		 WHERE student_id = $1 AND ($2 = false OR is_active)
		 ORDER BY created_at`, studentID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

func collectAssignments(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]model.TeacherStudentAssignment, error) {
	var assignments []model.TeacherStudentAssignment
	for rows.Next() {
		a := model.TeacherStudentAssignment{}
		if err := rows.Scan(&a.ID, &a.TeacherID, &a.StudentID, &a.Subject,
			&a.StartDate, &a.EndDate, &a.IsActive, &a.CreatedAt, &a.Version); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
