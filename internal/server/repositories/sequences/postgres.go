package sequences

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/contactform/internal/dbx"
)

// CounterIdentifier is the key of the single counter row.
const CounterIdentifier = "last-id"

// Each counter stores the next id to hand out. The upsert creates the row
// on first use and otherwise bumps one counter under the row lock, so the
// returned pre-increment value is unique across concurrent callers.
var nextQueries = map[Kind]string{
	KindUser: `
		INSERT INTO sequences AS s (identifier, user_counter, message_counter)
		VALUES ($1, 2, 1)
		ON CONFLICT (identifier)
		DO UPDATE SET user_counter = s.user_counter + 1
		RETURNING s.user_counter - 1
	`,
	KindMessage: `
		INSERT INTO sequences AS s (identifier, user_counter, message_counter)
		VALUES ($1, 1, 2)
		ON CONFLICT (identifier)
		DO UPDATE SET message_counter = s.message_counter + 1
		RETURNING s.message_counter - 1
	`,
}

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Next(ctx context.Context, kind Kind) (int64, error) {
	query, ok := nextQueries[kind]
	if !ok {
		return 0, fmt.Errorf("unknown sequence kind %q", kind)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, CounterIdentifier).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}
