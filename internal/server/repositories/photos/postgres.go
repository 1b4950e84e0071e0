package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactform/internal/common"
	"github.com/dmitrijs2005/contactform/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Put(ctx context.Context, userID int64, photo string) error {
	query :=
		`INSERT INTO user_photos (user_id, photo)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET photo = EXCLUDED.photo
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, photo); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (string, error) {
	query :=
		`SELECT photo FROM user_photos WHERE user_id = $1`

	var photo string
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&photo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return photo, nil
}
