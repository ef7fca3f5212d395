package repository

import (
	"context"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
)

const institutionColumns = `id, name, type, license_tier, max_students, max_teachers,
	subscription_end, is_active, created_at, updated_at, version`

// InstitutionRepository handles institution and institution-admin data access.
type InstitutionRepository struct {
	db DBTX
}

// NewInstitutionRepository creates a new InstitutionRepository.
func NewInstitutionRepository(db DBTX) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *InstitutionRepository) WithTx(tx DBTX) *InstitutionRepository {
	return &InstitutionRepository{db: tx}
}

func scanInstitution(row interface{ Scan(...any) error }) (*model.Institution, error) {
	i := &model.Institution{}
	err := row.Scan(&i.ID, &i.Name, &i.Type, &i.LicenseTier, &i.MaxStudents,
		&i.MaxTeachers, &i.SubscriptionEnd, &i.IsActive, &i.CreatedAt,
		&i.UpdatedAt, &i.Version)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// Create inserts a new institution.
func (r *InstitutionRepository) Create(ctx context.Context, i *model.Institution) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO institutions (name, type, license_tier, max_students,
			max_teachers, subscription_end, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at, version`,
		i.Name, i.Type, i.LicenseTier, i.MaxStudents, i.MaxTeachers,
		i.SubscriptionEnd, i.IsActive,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt, &i.Version)
}

// GetByID retrieves an institution by ID.
func (r *InstitutionRepository) GetByID(ctx context.Context, id string) (*model.Institution, error) {
	i, err := scanInstitution(r.db.QueryRow(ctx,
		`SELECT `+institutionColumns+` FROM institutions WHERE id = $1`, id))
	if IsNoRows(err) {
		return nil, apperr.NotFound("institution")
	}
	return i, err
}

// Update persists institution fields with an explicit version check. License
// upgrades ride this single versioned statement so tier, limits, and the
// subscription window change atomically.
func (r *InstitutionRepository) Update(ctx context.Context, i *model.Institution, expectedVersion int64) error {
	err := r.db.QueryRow(ctx,
		`UPDATE institutions SET
			name = $1, license_tier = $2, max_students = $3, max_teachers = $4,
			subscription_end = $5, is_active = $6,
			updated_at = now(), version = version + 1
		 WHERE id = $7 AND version = $8
		 RETURNING version, updated_at`,
		i.Name, i.LicenseTier, i.MaxStudents, i.MaxTeachers,
		i.SubscriptionEnd, i.IsActive, i.ID, expectedVersion,
	).Scan(&i.Version, &i.UpdatedAt)
	if IsNoRows(err) {
		return apperr.ConcurrencyConflict("institution")
	}
	return err
}

// CountActiveStudents counts student profiles currently affiliated with the
// institution. This feeds the capacity check that callers run before
// creating an affiliation.
func (r *InstitutionRepository) CountActiveStudents(ctx context.Context, institutionID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM student_profiles WHERE institution_id = $1`,
		institutionID).Scan(&count)
	return count, err
}

// CountActiveTeachers counts teacher profiles currently affiliated with the
// institution.
func (r *InstitutionRepository) CountActiveTeachers(ctx context.Context, institutionID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM teacher_profiles WHERE institution_id = $1`,
		institutionID).Scan(&count)
	return count, err
}

// CreateAdmin links a user as an institution admin. The (user, institution)
// pair is unique.
func (r *InstitutionRepository) CreateAdmin(ctx context.Context, a *model.InstitutionAdmin) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO institution_admins (user_id, institution_id, admin_tier, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.UserID, a.InstitutionID, a.AdminTier, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt)
	if IsUniqueViolation(err) {
		return apperr.Conflict("user is already an admin of this institution")
	}
	return err
}

// GetAdminByUserID retrieves the active admin link for a user, if any.
func (r *InstitutionRepository) GetAdminByUserID(ctx context.Context, userID string) (*model.InstitutionAdmin, error) {
	a := &model.InstitutionAdmin{}
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, institution_id, admin_tier, is_active, created_at
		 FROM institution_admins WHERE user_id = $1 AND is_active`, userID,
	).Scan(&a.ID, &a.UserID, &a.InstitutionID, &a.AdminTier, &a.IsActive, &a.CreatedAt)
	if IsNoRows(err) {
		return nil, apperr.NotFound("institution admin")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAdmins retrieves all admin links for an institution.
func (r *InstitutionRepository) ListAdmins(ctx context.Context, institutionID string) ([]model.InstitutionAdmin, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, institution_id, admin_tier, is_active, created_at
		 FROM institution_admins WHERE institution_id = $1 ORDER BY created_at`,
		institutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []model.InstitutionAdmin
	for rows.Next() {
		var a model.InstitutionAdmin
		if err := rows.Scan(&a.ID, &a.UserID, &a.InstitutionID, &a.AdminTier,
			&a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}
