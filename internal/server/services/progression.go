package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/logging"
	"github.com/dmitrijs2005/umbra/internal/server/levels"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/progress"
)

// ValidationResult is the outcome of one submission. Next is only set when
// Accepted is true.
type ValidationResult struct {
	Accepted bool
	Next     string
}

// ProgressionService checks submissions against the level catalog and records
// completions.
type ProgressionService struct {
	catalog  *levels.Catalog
	progress progress.Repository
	log      logging.Logger
}

func NewProgressionService(catalog *levels.Catalog, repo progress.Repository, log logging.Logger) *ProgressionService {
	return &ProgressionService{
		catalog:  catalog,
		progress: repo,
		log:      log.With("module", "progression"),
	}
}

// Validate evaluates sub for levelID on behalf of username. An unknown level
// or a failed check is a rejected result, not an error. The completion is
// stored before an accepted result is returned; if storing fails the error is
// returned and nothing is reported accepted.
func (s *ProgressionService) Validate(ctx context.Context, username, levelID string, sub levels.Submission) (*ValidationResult, error) {
	rule, ok := s.catalog.Get(levelID)
	if !ok {
		s.log.Info(ctx, "level validated", "level", levelID, "user", username, "accepted", false, "reason", "unknown level")
		return &ValidationResult{}, nil
	}

	if !rule.Evaluate(sub) {
		s.log.Info(ctx, "level validated", "level", levelID, "user", username, "accepted", false)
		return &ValidationResult{}, nil
	}

	if err := s.progress.MarkCompleted(ctx, username, levelID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "record completion", "level", levelID, "user", username, "error", err)
		return nil, fmt.Errorf("error recording completion: %w", err)
	}

	s.log.Info(ctx, "level validated", "level", levelID, "user", username, "accepted", true)
	return &ValidationResult{Accepted: true, Next: rule.Next}, nil
}
