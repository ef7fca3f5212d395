package repository

import (
	"context"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
)

const goalColumns = `id, student_profile_id, title, subject, target_date,
	progress, is_completed, completed_at, created_at, updated_at, version`

// GoalRepository handles academic goal data access.
type GoalRepository struct {
	db DBTX
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository(db DBTX) *GoalRepository {
	return &GoalRepository{db: db}
}

func scanGoal(row interface{ Scan(...any) error }) (*model.AcademicGoal, error) {
	g := &model.AcademicGoal{}
	err := row.Scan(&g.ID, &g.StudentProfileID, &g.Title, &g.Subject,
		&g.TargetDate, &g.Progress, &g.IsCompleted, &g.CompletedAt,
		&g.CreatedAt, &g.UpdatedAt, &g.Version)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a new goal.
func (r *GoalRepository) Create(ctx context.Context, g *model.AcademicGoal) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO academic_goals (student_profile_id, title, subject, target_date, progress)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at, version`,
		g.StudentProfileID, g.Title, g.Subject, g.TargetDate, g.Progress,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt, &g.Version)
}

// GetByID retrieves a goal by ID.
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*model.AcademicGoal, error) {
	g, err := scanGoal(r.db.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM academic_goals WHERE id = $1`, id))
	if IsNoRows(err) {
		return nil, apperr.NotFound("academic goal")
	}
	return g, err
}

// ListByStudentProfile retrieves all goals for a student profile.
func (r *GoalRepository) ListByStudentProfile(ctx context.Context, studentProfileID string) ([]model.AcademicGoal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+goalColumns+` FROM academic_goals
		 WHERE student_profile_id = $1 ORDER BY created_at`, studentProfileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []model.AcademicGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// Update persists goal fields with a version check.
func (r *GoalRepository) Update(ctx context.Context, g *model.AcademicGoal, expectedVersion int64) error {
	err := r.db.QueryRow(ctx,
		`UPDATE academic_goals SET
			title = $1, subject = $2, target_date = $3, progress = $4,
			is_completed = $5, completed_at = $6,
			updated_at = now(), version = version + 1
		 WHERE id = $7 AND version = $8
		 RETURNING version, updated_at`,
		g.Title, g.Subject, g.TargetDate, g.Progress, g.IsCompleted,
		g.CompletedAt, g.ID, expectedVersion,
	).Scan(&g.Version, &g.UpdatedAt)
	if IsNoRows(err) {
		return apperr.ConcurrencyConflict("academic goal")
	}
	return err
}
