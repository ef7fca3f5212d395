package model

import (
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

// InvitationType says who is inviting: an institution or an individual teacher.
type InvitationType string

const (
	InvitationTypeInstitution InvitationType = "institution"
	InvitationTypeTeacher     InvitationType = "teacher"
)

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
	InvitationExpired  InvitationStatus = "expired"
)

// InviteeRole is the role the invitee takes on acceptance.
type InviteeRole string

const (
	InviteeRoleTeacher InviteeRole = "teacher"
	InviteeRoleStudent InviteeRole = "student"
)

// DefaultInvitationDays is the expiry window applied when none is given.
const DefaultInvitationDays = 7

// Invitation bridges an email address into a concrete relationship.
// Accepted and Rejected are terminal; Expired is computed lazily from
// ExpiresAt and only made durable by MarkAsExpired.
type Invitation struct {
	ID            string           `json:"id"`
	InviterID     string           `json:"inviter_id"`
	InviteeEmail  string           `json:"invitee_email"`
	InviteeUserID *string          `json:"invitee_user_id,omitempty"`
	Type          InvitationType   `json:"type"`
	InstitutionID *string          `json:"institution_id,omitempty"`
	TeacherID     *string          `json:"teacher_id,omitempty"`
	InviteeRole   InviteeRole      `json:"invitee_role"`
	Subject       string           `json:"subject,omitempty"`
	Message       string           `json:"message,omitempty"`
	Status        InvitationStatus `json:"status"`
	ExpiresAt     time.Time        `json:"expires_at"`
	RespondedAt   *time.Time       `json:"responded_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	Version       int64            `json:"-"`
}

// NewInvitation always produces a Pending invitation. expirationDays falls
// back to DefaultInvitationDays when non-positive. The entity does not check
// for existing pending invitations to the same email; a partial unique index
// guards that race at the persistence boundary.
func NewInvitation(inviterID, inviteeEmail string, t InvitationType, role InviteeRole, expirationDays int, now time.Time) *Invitation {
	if expirationDays <= 0 {
		expirationDays = DefaultInvitationDays
	}
	return &Invitation{
		InviterID:    inviterID,
		InviteeEmail: inviteeEmail,
		Type:         t,
		InviteeRole:  role,
		Status:       InvitationPending,
		ExpiresAt:    now.Add(time.Duration(expirationDays) * 24 * time.Hour),
	}
}

// Accept transitions Pending → Accepted. Valid only while pending and not
// past expiry.
func (i *Invitation) Accept(inviteeUserID string, now time.Time) error {
	if i.Status != InvitationPending {
		return apperr.InvalidStateTransition("invitation is not pending (status %s)", i.Status)
	}
	if now.After(i.ExpiresAt) {
		return apperr.InvalidStateTransition("invitation expired at %s", i.ExpiresAt.Format(time.RFC3339))
	}
	i.Status = InvitationAccepted
	i.InviteeUserID = &inviteeUserID
	i.RespondedAt = &now
	return nil
}

// Reject transitions Pending → Rejected.
func (i *Invitation) Reject(now time.Time) error {
	if i.Status != InvitationPending {
		return apperr.InvalidStateTransition("invitation is not pending (status %s)", i.Status)
	}
	i.Status = InvitationRejected
	i.RespondedAt = &now
	return nil
}

// IsPending is the quick read used by listings: nominally pending and not
// yet past expiry.
func (i *Invitation) IsPending(now time.Time) bool {
	return i.Status == InvitationPending && !now.After(i.ExpiresAt)
}

// MarkAsExpired durably flips a stale Pending invitation to Expired. It is
// the only path that stores the Expired status.
func (i *Invitation) MarkAsExpired(now time.Time) error {
	if i.Status != InvitationPending {
		return apperr.InvalidStateTransition("invitation is not pending (status %s)", i.Status)
	}
	if !now.After(i.ExpiresAt) {
		return apperr.InvalidStateTransition("invitation has not expired yet")
	}
	i.Status = InvitationExpired
	return nil
}

// CreateInvitationRequest is the payload for invitation creation endpoints.
type CreateInvitationRequest struct {
	Email          string `json:"email" binding:"required,email,max=255"`
	Subject        string `json:"subject" binding:"omitempty,max=100"`
	Message        string `json:"message" binding:"omitempty,max=1000"`
	ExpirationDays int    `json:"expiration_days" binding:"omitempty,min=1,max=90"`
}
