// Package services contains the server's business logic: accounts and
// sessions (UserService), level validation (ProgressionService) and page
// tracking (ProgressService). Callers pass the authenticated username
// explicitly; nothing here reads request state.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/cryptox"
	"github.com/dmitrijs2005/umbra/internal/logging"
	"github.com/dmitrijs2005/umbra/internal/server/auth"
	"github.com/dmitrijs2005/umbra/internal/server/models"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/repomanager"
)

// UserService registers players, checks their passwords and mints session
// tokens.
type UserService struct {
	repomanager             repomanager.RepositoryManager
	jwtSecret               []byte
	sessionValidityDuration time.Duration
	log                     logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, secret []byte, validity time.Duration, log logging.Logger) *UserService {
	return &UserService{
		repomanager:             m,
		jwtSecret:               secret,
		sessionValidityDuration: validity,
		log:                     log.With("module", "users"),
	}
}

// Register creates a user. Empty username or password is
// common.ErrorValidation; a taken name is common.ErrorAlreadyExists and the
// stored digest is left as it was.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = common.NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, common.ErrorValidation
	}

	digest, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		s.log.Error(ctx, "hash password", "error", err)
		return nil, common.ErrorInternal
	}

	u, err := s.repomanager.Users().Create(ctx, &models.User{Username: username, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user", username)
	return u, nil
}

// Login verifies the password and returns a fresh session token. Unknown
// users and wrong passwords are both common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	username = common.NormalizeUsername(username)
	if username == "" {
		return "", common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users().GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error fetching user: %w", err)
	}

	if !cryptox.CheckPassword([]byte(password), user.PasswordHash) {
		s.log.Info(ctx, "login rejected", "user", username)
		return "", common.ErrorUnauthorized
	}
	if cryptox.IsLegacyDigest(user.PasswordHash) {
		s.log.Warn(ctx, "user still has a legacy password digest", "user", username)
	}

	return s.IssueToken(user.Username)
}

// IssueToken mints a session token for an already authenticated username.
func (s *UserService) IssueToken(username string) (string, error) {
	token, err := auth.GenerateToken(username, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// SessionValidity is how long issued tokens stay valid.
func (s *UserService) SessionValidity() time.Duration {
	return s.sessionValidityDuration
}

// Delete removes the user and all their progress.
func (s *UserService) Delete(ctx context.Context, username string) error {
	username = common.NormalizeUsername(username)

	if err := s.repomanager.Users().Delete(ctx, username); err != nil {
		return err
	}
	if err := s.repomanager.Progress().Purge(ctx, username); err != nil {
		return fmt.Errorf("error purging progress: %w", err)
	}

	s.log.Info(ctx, "user deleted", "user", username)
	return nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users().List(ctx)
}
