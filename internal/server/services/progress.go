package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/logging"
	"github.com/dmitrijs2005/umbra/internal/server/models"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/progress"
)

type ProgressService struct {
	progress progress.Repository
	log      logging.Logger
}

func NewProgressService(repo progress.Repository, log logging.Logger) *ProgressService {
	return &ProgressService{progress: repo, log: log.With("module", "progress")}
}

// RecordPageVisit stores path as the user's last visited page.
func (s *ProgressService) RecordPageVisit(ctx context.Context, username, path string) error {
	if err := s.progress.SetLastPage(ctx, username, path); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("error recording page visit: %w", err)
	}
	s.log.Debug(ctx, "page visit recorded", "user", username, "path", path)
	return nil
}

func (s *ProgressService) State(ctx context.Context, username string) (*models.ProgressState, error) {
	return s.progress.GetState(ctx, username)
}
