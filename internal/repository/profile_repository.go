package repository

import (
	"context"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
)

// ProfileRepository handles teacher, student, and parent profile data access.
// Institution membership is a foreign key on the profile; lookups by
// institution are repository methods, not navigation collections.
type ProfileRepository struct {
	db DBTX
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ProfileRepository) WithTx(tx DBTX) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

// ─── Teacher profiles ───────────────────────────────────────────────────────

func scanTeacher(row interface{ Scan(...any) error }) (*model.TeacherProfile, error) {
	t := &model.TeacherProfile{}
	err := row.Scan(&t.ID, &t.UserID, &t.InstitutionID, &t.IsIndependent,
		&t.Headline, &t.CreatedAt, &t.UpdatedAt, &t.Version)
	if err != nil {
		return nil, err
	}
	return t, nil
}

const teacherColumns = `id, user_id, institution_id, is_independent, headline, created_at, updated_at, version`

// CreateTeacher inserts a teacher profile. One profile per user.
func (r *ProfileRepository) CreateTeacher(ctx context.Context, t *model.TeacherProfile) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO teacher_profiles (user_id, institution_id, is_independent, headline)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at, version`,
		t.UserID, t.InstitutionID, t.IsIndependent, t.Headline,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Version)
	if IsUniqueViolation(err) {
		return apperr.Conflict("user already has a teacher profile")
	}
	return err
}

// GetTeacherByID retrieves a teacher profile by its ID.
func (r *ProfileRepository) GetTeacherByID(ctx context.Context, id string) (*model.TeacherProfile, error) {
	t, err := scanTeacher(r.db.QueryRow(ctx,
		`SELECT `+teacherColumns+` FROM teacher_profiles WHERE id = $1`, id))
	if IsNoRows(err) {
		return nil, apperr.NotFound("teacher profile")
	}
	return t, err
}

// GetTeacherByUserID retrieves the teacher profile owned by a user.
func (r *ProfileRepository) GetTeacherByUserID(ctx context.Context, userID string) (*model.TeacherProfile, error) {
	t, err := scanTeacher(r.db.QueryRow(ctx,
		`SELECT `+teacherColumns+` FROM teacher_profiles WHERE user_id = $1`, userID))
	if IsNoRows(err) {
		return nil, apperr.NotFound("teacher profile")
	}
	return t, err
}

// UpdateTeacher persists teacher profile fields with a version check.
func (r *ProfileRepository) UpdateTeacher(ctx context.Context, t *model.TeacherProfile, expectedVersion int64) error {
	err := r.db.QueryRow(ctx,
		`UPDATE teacher_profiles SET
			institution_id = $1, is_independent = $2, headline = $3,
			updated_at = now(), version = version + 1
		 WHERE id = $4 AND version = $5
		 RETURNING version, updated_at`,
		t.InstitutionID, t.IsIndependent, t.Headline, t.ID, expectedVersion,
	).Scan(&t.Version, &t.UpdatedAt)
	if IsNoRows(err) {
		return apperr.ConcurrencyConflict("teacher profile")
	}
	return err
}

// ListTeachersByInstitution retrieves one page of teacher profiles
// affiliated with an institution.
func (r *ProfileRepository) ListTeachersByInstitution(ctx context.Context, institutionID string, limit, offset int) ([]model.TeacherProfile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+teacherColumns+` FROM teacher_profiles
		 WHERE institution_id = $1 ORDER BY created_at
		 LIMIT $2 OFFSET $3`, institutionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []model.TeacherProfile
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, *t)
	}
	return teachers, rows.Err()
}

// ─── Student profiles ───────────────────────────────────────────────────────

func scanStudent(row interface{ Scan(...any) error }) (*model.StudentProfile, error) {
	s := &model.StudentProfile{}
	err := row.Scan(&s.ID, &s.UserID, &s.InstitutionID, &s.GradeLevel,
		&s.SchoolName, &s.CreatedAt, &s.UpdatedAt, &s.Version)
	if err != nil {
		return nil, err
	}
	return s, nil
}

const studentColumns = `id, user_id, institution_id, grade_level, school_name, created_at, updated_at, version`

// CreateStudent inserts a student profile. One profile per user.
func (r *ProfileRepository) CreateStudent(ctx context.Context, s *model.StudentProfile) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO student_profiles (user_id, institution_id, grade_level, school_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at, version`,
		s.UserID, s.InstitutionID, s.GradeLevel, s.SchoolName,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.Version)
	if IsUniqueViolation(err) {
		return apperr.Conflict("user already has a student profile")
	}
	return err
}

// GetStudentByID retrieves a student profile by its ID.
func (r *ProfileRepository) GetStudentByID(ctx context.Context, id string) (*model.StudentProfile, error) {
	s, err := scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM student_profiles WHERE id = $1`, id))
	if IsNoRows(err) {
		return nil, apperr.NotFound("student profile")
	}
	return s, err
}

// GetStudentByUserID retrieves the student profile owned by a user.
func (r *ProfileRepository) GetStudentByUserID(ctx context.Context, userID string) (*model.StudentProfile, error) {
	s, err := scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM student_profiles WHERE user_id = $1`, userID))
	if IsNoRows(err) {
		return nil, apperr.NotFound("student profile")
	}
	return s, err
}

// UpdateStudent persists student profile fields with a version check.
func (r *ProfileRepository) UpdateStudent(ctx context.Context, s *model.StudentProfile, expectedVersion int64) error {
	err := r.db.QueryRow(ctx,
		`UPDATE student_profiles SET
			institution_id = $1, grade_level = $2, school_name = $3,
			updated_at = now(), version = version + 1
		 WHERE id = $4 AND version = $5
		 RETURNING version, updated_at`,
		s.InstitutionID, s.GradeLevel, s.SchoolName, s.ID, expectedVersion,
	).Scan(&s.Version, &s.UpdatedAt)
	if IsNoRows(err) {
		return apperr.ConcurrencyConflict("student profile")
	}
	return err
}

// ListStudentsByInstitution retrieves one page of student profiles
// affiliated with an institution.
func (r *ProfileRepository) ListStudentsByInstitution(ctx context.Context, institutionID string, limit, offset int) ([]model.StudentProfile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+studentColumns+` FROM student_profiles
		 WHERE institution_id = $1 ORDER BY created_at
		 LIMIT $2 OFFSET $3`, institutionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.StudentProfile
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

// ─── Parent profiles ────────────────────────────────────────────────────────

// CreateParent inserts a parent profile. One profile per user.
func (r *ProfileRepository) CreateParent(ctx context.Context, p *model.ParentProfile) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO parent_profiles (user_id, phone)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at, version`,
		p.UserID, p.Phone,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if IsUniqueViolation(err) {
		return apperr.Conflict("user already has a parent profile")
	}
	return err
}

// GetParentByUserID retrieves the parent profile owned by a user.
func (r *ProfileRepository) GetParentByUserID(ctx context.Context, userID string) (*model.ParentProfile, error) {
	p := &model.ParentProfile{}
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, phone, created_at, updated_at, version
		 FROM parent_profiles WHERE user_id = $1`, userID,
	).Scan(&p.ID, &p.UserID, &p.Phone, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if IsNoRows(err) {
		return nil, apperr.NotFound("parent profile")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
