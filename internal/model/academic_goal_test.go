package model

import (
	"testing"
	"time"

	"github.com/brightclass/brightclass-backend/internal/apperr"
)

func TestGoalUpdateProgress(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := &AcademicGoal{}

	for _, bad := range []int{-1, 101} {
		if err := g.UpdateProgress(bad, now); !apperr.Is(err, apperr.CodeValidation) {
			t.Errorf("UpdateProgress(%d) err = %v, want validation", bad, err)
		}
	}

	if err := g.UpdateProgress(60, now); err != nil {
		t.Fatalf("UpdateProgress(60): %v", err)
	}
	if g.Progress != 60 || g.IsCompleted {
		t.Errorf("after 60: progress=%d completed=%v", g.Progress, g.IsCompleted)
	}

	if err := g.UpdateProgress(100, now); err != nil {
		t.Fatalf("UpdateProgress(100): %v", err)
	}
	if !g.IsCompleted || g.CompletedAt == nil || !g.CompletedAt.Equal(now) {
		t.Errorf("after 100: completed=%v completedAt=%v", g.IsCompleted, g.CompletedAt)
	}

	// Lowering progress reopens the goal.
	if err := g.UpdateProgress(80, now.Add(time.Hour)); err != nil {
		t.Fatalf("UpdateProgress(80): %v", err)
	}
	if g.IsCompleted || g.CompletedAt != nil {
		t.Errorf("after reopening: completed=%v completedAt=%v", g.IsCompleted, g.CompletedAt)
	}
}
