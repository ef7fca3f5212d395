package repository

import (
	"context"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/model"
)

const invitationColumns = `id, inviter_id, invitee_email, invitee_user_id, type,
	institution_id, teacher_id, invitee_role, subject, message, status,
	expires_at, responded_at, created_at, version`

// InvitationRepository handles invitation data access.
type InvitationRepository struct {
	db DBTX
}

// NewInvitationRepository creates a new InvitationRepository.
func NewInvitationRepository(db DBTX) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *InvitationRepository) WithTx(tx DBTX) *InvitationRepository {
	return &InvitationRepository{db: tx}
}

func scanInvitation(row interface{ Scan(...any) error }) (*model.Invitation, error) {
	inv := &model.Invitation{}
	err := row.Scan(&inv.ID, &inv.InviterID, &inv.InviteeEmail, &inv.InviteeUserID,
		&inv.Type, &inv.InstitutionID, &inv.TeacherID, &inv.InviteeRole,
		&inv.Subject, &inv.Message, &inv.Status, &inv.ExpiresAt,
		&inv.RespondedAt, &inv.CreatedAt, &inv.Version)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Create inserts a new invitation. A partial unique index on pending rows
// turns a duplicate pending invite for the same email and target into a
// Conflict, closing the check-then-insert race.
func (r *InvitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO invitations (inviter_id, invitee_email, type, institution_id,
			teacher_id, invitee_role, subject, message, status, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, version`,
		inv.InviterID, inv.InviteeEmail, inv.Type, inv.InstitutionID,
		inv.TeacherID, inv.InviteeRole, inv.Subject, inv.Message,
		inv.Status, inv.ExpiresAt,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.Version)
	if IsUniqueViolation(err) {
		return apperr.Conflict("a pending invitation for %s already exists", inv.InviteeEmail)
	}
	return err
}

// GetByID retrieves an invitation by ID.
func (r *InvitationRepository) GetByID(ctx context.Context, id string) (*model.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id))
	if IsNoRows(err) {
		return nil, apperr.NotFound("invitation")
	}
	return inv, err
}

// GetPendingByEmail retrieves nominally pending invitations addressed to an
// email, newest first. Expired-but-unswept rows are included; callers use
// IsPending for the effective state.
func (r *InvitationRepository) GetPendingByEmail(ctx context.Context, email string) ([]model.Invitation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE invitee_email = $1 AND status = $2
		 ORDER BY created_at DESC`, email, model.InvitationPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

// ListByEmail retrieves every invitation addressed to an email, newest first.
func (r *InvitationRepository) ListByEmail(ctx context.Context, email string) ([]model.Invitation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE invitee_email = $1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

// Update persists status transitions with a version check, so two racing
// accept calls cannot both flip the same pending row.
func (r *InvitationRepository) Update(ctx context.Context, inv *model.Invitation, expectedVersion int64) error {
	err := r.db.QueryRow(ctx,
		`UPDATE invitations SET
			status = $1, invitee_user_id = $2, responded_at = $3,
			version = version + 1
		 WHERE id = $4 AND version = $5
		 RETURNING version`,
		inv.Status, inv.InviteeUserID, inv.RespondedAt, inv.ID, expectedVersion,
	).Scan(&inv.Version)
	if IsNoRows(err) {
		return apperr.ConcurrencyConflict("invitation")
	}
	return err
}
