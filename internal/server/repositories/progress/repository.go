// Package progress is the progress store: which levels each player has
// completed and the last level page they fetched.
package progress

import (
	"context"

	"github.com/dmitrijs2005/umbra/internal/server/models"
)

type Repository interface {
	// MarkCompleted records levelID as completed for username. Repeating it
	// is a no-op. common.ErrorNotFound if the user does not exist.
	MarkCompleted(ctx context.Context, username, levelID string) error
	// SetLastPage overwrites the user's last visited level page.
	SetLastPage(ctx context.Context, username, path string) error
	// GetState returns an empty state for users with no progress.
	GetState(ctx context.Context, username string) (*models.ProgressState, error)
	// Purge drops everything stored for username.
	Purge(ctx context.Context, username string) error
}

// UserChecker is the slice of the credential store the file backend needs to
// refuse writes for unknown users.
type UserChecker interface {
	Exists(ctx context.Context, username string) (bool, error)
}
