// Package levels stores level definitions: the catalog file used by the file
// backend and the levels table used by the relational one. Both implement
// levels.Source from the server/levels package.
package levels

import (
	"context"

	"github.com/dmitrijs2005/umbra/internal/server/models"
)

type Repository interface {
	// List returns every definition ordered by id.
	List(ctx context.Context) ([]models.LevelDefinition, error)
	// Upsert inserts or replaces the given definitions.
	Upsert(ctx context.Context, defs []models.LevelDefinition) error
}
