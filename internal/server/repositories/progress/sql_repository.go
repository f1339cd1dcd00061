package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/dbx"
	"github.com/dmitrijs2005/umbra/internal/server/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) MarkCompleted(ctx context.Context, username, levelID string) error {
	query :=
		`INSERT INTO progress (username, level_id, completed, completed_at)
		 VALUES (?, ?, TRUE, ?)
		 ON CONFLICT (username, level_id) DO UPDATE SET completed = TRUE`

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), username, levelID, time.Now().UTC())
	return r.translate(err)
}

func (r *SQLRepository) SetLastPage(ctx context.Context, username, path string) error {
	query :=
		`INSERT INTO user_state (username, last_page, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (username) DO UPDATE SET last_page = excluded.last_page, updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), username, path, time.Now().UTC())
	return r.translate(err)
}

func (r *SQLRepository) GetState(ctx context.Context, username string) (*models.ProgressState, error) {
	query :=
		`SELECT level_id FROM progress
		 WHERE username = ? AND completed = TRUE
		 ORDER BY level_id`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	state := &models.ProgressState{Completed: []string{}}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		state.Completed = append(state.Completed, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var page sql.NullString
	err = r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT last_page FROM user_state WHERE username = ?`), username).Scan(&page)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("db error: %w", err)
	case page.Valid:
		state.LastPage = &page.String
	}

	return state, nil
}

func (r *SQLRepository) Purge(ctx context.Context, username string) error {
	for _, query := range []string{
		`DELETE FROM progress WHERE username = ?`,
		`DELETE FROM user_state WHERE username = ?`,
	} {
		if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), username); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *SQLRepository) translate(err error) error {
	if err == nil {
		return nil
	}
	if dbx.IsForeignKeyViolation(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
