package model

import (
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

// AcademicGoal tracks a student's progress toward a learning target.
// Completion is derived from progress reaching 100 and is reversible:
// lowering progress clears the completion stamp.
type AcademicGoal struct {
	ID               string     `json:"id"`
	StudentProfileID string     `json:"student_profile_id"`
	Title            string     `json:"title"`
	Subject          string     `json:"subject,omitempty"`
	TargetDate       *time.Time `json:"target_date,omitempty"`
	Progress         int        `json:"progress"`
	IsCompleted      bool       `json:"is_completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int64      `json:"-"`
}

// UpdateProgress sets progress in the 0–100 range. Reaching 100 marks the
// goal completed; any later value below 100 reopens it.
func (g *AcademicGoal) UpdateProgress(progress int, now time.Time) error {
	if progress < 0 || progress > 100 {
		return apperr.Validation("progress must be between 0 and 100, got %d", progress)
	}
	g.Progress = progress
	if progress == 100 {
		g.IsCompleted = true
		g.CompletedAt = &now
	} else {
		g.IsCompleted = false
		g.CompletedAt = nil
	}
	return nil
}

// CreateGoalRequest is the payload for creating an academic goal.
type CreateGoalRequest struct {
	Title      string     `json:"title" binding:"required,min=2,max=200"`
	Subject    string     `json:"subject" binding:"omitempty,max=100"`
	TargetDate *time.Time `json:"target_date"`
}

// UpdateGoalProgressRequest is the payload for progress updates.
type UpdateGoalProgressRequest struct {
	Progress *int `json:"progress" binding:"required,min=0,max=100"`
}
