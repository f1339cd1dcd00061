// Package repotest opens throwaway SQLite databases with the real schema for
// repository tests.
package repotest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/umbra/internal/dbx"
	"github.com/dmitrijs2005/umbra/internal/server/migrations"
	"github.com/pressly/goose/v3"
)

// OpenSQLite returns a migrated SQLite database in t.TempDir(). It is closed
// by t.Cleanup.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	ctx := context.Background()
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "umbra.db")

	db, dialect, err := dbx.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect.GooseDialect()); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	goose.SetLogger(goose.NopLogger())
	if err := goose.UpContext(ctx, db, "."); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// MustExec runs query on db and fails the test on error.
func MustExec(t testing.TB, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
