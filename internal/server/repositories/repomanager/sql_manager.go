package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/umbra/internal/dbx"
	"github.com/dmitrijs2005/umbra/internal/server/migrations"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/levels"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/progress"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager serves every store from one PostgreSQL or SQLite
// database.
type SQLRepositoryManager struct {
	db       *sql.DB
	dialect  dbx.Dialect
	users    *users.SQLRepository
	progress *progress.SQLRepository
	levels   *levels.SQLRepository
}

// NewSQLRepositoryManager opens dsn and wires the repositories to it.
func NewSQLRepositoryManager(ctx context.Context, dsn string) (*SQLRepositoryManager, error) {
	db, dialect, err := dbx.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return newSQLRepositoryManager(db, dialect), nil
}

func newSQLRepositoryManager(db *sql.DB, dialect dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{
		db:       db,
		dialect:  dialect,
		users:    users.NewSQLRepository(db, dialect),
		progress: progress.NewSQLRepository(db, dialect),
		levels:   levels.NewSQLRepository(db, dialect),
	}
}

func (m *SQLRepositoryManager) Backend() string { return BackendSQL }

func (m *SQLRepositoryManager) Users() users.Repository { return m.users }

func (m *SQLRepositoryManager) Progress() progress.Repository { return m.progress }

func (m *SQLRepositoryManager) Levels() levels.Repository { return m.levels }

// Dialect reports which database the manager is connected to.
func (m *SQLRepositoryManager) Dialect() dbx.Dialect { return m.dialect }

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.GooseDialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
