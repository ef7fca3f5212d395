package model

import "time"

// Event names published on the identity event channel. Delivery mechanics
// (email rendering, push) belong to downstream consumers.
const (
	EventUserCreated        = "UserCreatedEvent"
	EventUserRegistered     = "UserRegisteredEvent"
	EventInvitationCreated  = "InvitationCreatedEvent"
	EventUserEmailConfirmed = "UserEmailConfirmedEvent"
	EventUserForgotPassword = "UserForgotPasswordEvent"
)

// Event is the envelope published on the Redis event channel.
type Event struct {
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// UserCreatedPayload announces an account created by an admin on someone's
// behalf; the temporary password lets the notifier compose a welcome mail.
type UserCreatedPayload struct {
	UserID            string `json:"user_id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	TemporaryPassword string `json:"temporary_password,omitempty"`
	InstitutionID     string `json:"institution_id,omitempty"`
	InstitutionName   string `json:"institution_name,omitempty"`
}

// UserRegisteredPayload announces a self-service registration and carries
// the email confirmation token.
type UserRegisteredPayload struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ConfirmToken string `json:"confirm_token"`
}

// InvitationCreatedPayload carries everything a notifier needs to send the
// invite mail without querying back.
type InvitationCreatedPayload struct {
	InvitationID    string `json:"invitation_id"`
	InviteeEmail    string `json:"invitee_email"`
	InviterName     string `json:"inviter_name"`
	InstitutionName string `json:"institution_name,omitempty"`
	InviteeRole     string `json:"invitee_role"`
	Message         string `json:"message,omitempty"`
	ExpiresAt       string `json:"expires_at"`
}

// UserEmailConfirmedPayload announces a confirmed address.
type UserEmailConfirmedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// UserForgotPasswordPayload carries the reset token for the reset mail.
type UserForgotPasswordPayload struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	ResetToken string `json:"reset_token"`
}
