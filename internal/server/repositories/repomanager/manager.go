// Package repomanager builds the set of stores the server runs on. The
// backend is picked once at startup: a non-empty DSN selects the relational
// backend, otherwise the JSON files under the data directory are used.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/umbra/internal/server/repositories/levels"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/progress"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/users"
)

const (
	BackendFile = "file"
	BackendSQL  = "sql"
)

type RepositoryManager interface {
	Backend() string
	// RunMigrations brings the schema up to date. No-op for the file backend.
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Progress() progress.Repository
	Levels() levels.Repository
	Close() error
}

// Options selects and locates the backend.
type Options struct {
	DSN        string
	DataDir    string
	LevelsFile string
}

// New opens the backend described by opts.
func New(ctx context.Context, opts Options) (RepositoryManager, error) {
	if opts.DSN != "" {
		m, err := NewSQLRepositoryManager(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	m, err := NewFileRepositoryManager(opts.DataDir, opts.LevelsFile)
	if err != nil {
		return nil, err
	}
	return m, nil
}
