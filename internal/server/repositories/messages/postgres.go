package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrijs2005/contactform/internal/common"
	"github.com/dmitrijs2005/contactform/internal/dbx"
	"github.com/dmitrijs2005/contactform/internal/server/models"
)

var (
	psql    = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	columns = []string{"id", "name", "message", "gender", "country", "creation_date", "read"}
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) error {
	query, args, err := psql.Insert("messages").
		Columns(columns...).
		Values(msg.ID, msg.Name, msg.Message, msg.Gender, msg.Country, msg.CreationDate, msg.Read).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// List returns every message in id order.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Message, error) {
	query, args, err := psql.Select(columns...).From("messages").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Message, 0)
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Message, &m.Gender, &m.Country, &m.CreationDate, &m.Read); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query, args, err := psql.Select(columns...).From("messages").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	m := &models.Message{}
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&m.ID, &m.Name, &m.Message, &m.Gender, &m.Country, &m.CreationDate, &m.Read)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id int64) error {
	query, args, err := psql.Update("messages").Set("read", true).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return r.execOne(ctx, query, args)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("messages").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return r.execOne(ctx, query, args)
}

// execOne runs a statement that must touch exactly one row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
