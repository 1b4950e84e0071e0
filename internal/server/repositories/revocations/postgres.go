package revocations

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/contactform/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, token string, expiresAt time.Time) error {
	query :=
		`INSERT INTO revoked_tokens (token_hash, expires_at)
		 VALUES ($1, $2)
		 ON CONFLICT (token_hash) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, TokenHash(token), expiresAt.UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Contains(ctx context.Context, token string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_hash = $1)`

	var found bool
	if err := r.db.QueryRowContext(ctx, query, TokenHash(token)).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return found, nil
}

// Prune deletes entries whose token expired before now.
func (r *PostgresRepository) Prune(ctx context.Context, now time.Time) (int64, error) {
	query :=
		`DELETE FROM revoked_tokens WHERE expires_at < $1`

	res, err := r.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
