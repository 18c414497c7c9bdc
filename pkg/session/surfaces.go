package session

import (
	"context"

	"github.com/modsmith/modsmith/pkg/review"
)

// ProgressSurface shows a long-running operation with a user-facing skip
// control. Run executes fn under a derived context; skipping cancels that
// context and fn is expected to wind down and return.
type ProgressSurface interface {
	Run(ctx context.Context, title string, fn func(ctx context.Context) error) error
}

// MessageSurface delivers error and warning text that the user must
// acknowledge before the flow continues.
type MessageSurface interface {
	Error(msg string)
	Warn(msg string)
}

// ReviewSurface presents the confirmation list and collects the user's
// decision: approve (optionally with deselections) or decline.
type ReviewSurface interface {
	Review(rows []review.Row) (review.Decision, error)
}
