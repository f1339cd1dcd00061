// Package users is the credential store: username -> password digest.
// Usernames arriving here are already normalized by the service layer.
package users

import (
	"context"

	"github.com/dmitrijs2005/umbra/internal/server/models"
)

type Repository interface {
	// Create inserts user; common.ErrorAlreadyExists if the username is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound for unknown users.
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	// Delete removes the user; common.ErrorNotFound if absent.
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]*models.User, error)
}
