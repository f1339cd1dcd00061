package levels

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/umbra/internal/dbx"
	"github.com/dmitrijs2005/umbra/internal/server/models"
)

type SQLRepository struct {
	db      *sql.DB
	dialect dbx.Dialect
}

func NewSQLRepository(db *sql.DB, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) List(ctx context.Context) ([]models.LevelDefinition, error) {
	query := `SELECT id, answer, kind, login_user, login_pass, next_id FROM levels ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var defs []models.LevelDefinition
	for rows.Next() {
		var (
			def                        models.LevelDefinition
			answer                     sql.NullString
			kind, loginUser, loginPass sql.NullString
		)
		if err := rows.Scan(&def.ID, &answer, &kind, &loginUser, &loginPass, &def.Next); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if answer.Valid {
			def.Answer = &answer.String
		}
		def.Type = kind.String
		def.User = loginUser.String
		def.Pass = loginPass.String
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return defs, nil
}

// Upsert writes all defs in one transaction.
func (r *SQLRepository) Upsert(ctx context.Context, defs []models.LevelDefinition) error {
	query :=
		`INSERT INTO levels (id, answer, kind, login_user, login_pass, next_id)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   answer = excluded.answer,
		   kind = excluded.kind,
		   login_user = excluded.login_user,
		   login_pass = excluded.login_pass,
		   next_id = excluded.next_id`
	query = r.dialect.Rebind(query)

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, d := range defs {
			_, err := tx.ExecContext(ctx, query, d.ID, d.Answer, nullable(d.Type), nullable(d.User), nullable(d.Pass), d.Next)
			if err != nil {
				return fmt.Errorf("db error: level %q: %w", d.ID, err)
			}
		}
		return nil
	})
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
