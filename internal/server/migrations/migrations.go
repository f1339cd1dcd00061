// Package migrations embeds the goose schema migrations for the relational
// backend. The SQL is kept portable between PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
