// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/contactform/internal/dbx"
	"github.com/dmitrijs2005/contactform/internal/server/migrations"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/messages"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/photos"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/sequences"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories. The photo
// store and the revocation ledger can be swapped for external backends;
// those ignore the DBTX and do not take part in its transaction.
type PostgresRepositoryManager struct {
	photos      photos.Repository
	revocations revocations.Repository
}

// Option customises a PostgresRepositoryManager.
type Option func(*PostgresRepositoryManager)

// WithPhotoStore replaces the user_photos table with r.
func WithPhotoStore(r photos.Repository) Option {
	return func(m *PostgresRepositoryManager) { m.photos = r }
}

// WithRevocationStore replaces the revoked_tokens table with r.
func WithRevocationStore(r revocations.Repository) Option {
	return func(m *PostgresRepositoryManager) { m.revocations = r }
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sequences(db dbx.DBTX) sequences.Repository {
	return sequences.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Photos(db dbx.DBTX) photos.Repository {
	if m.photos != nil {
		return m.photos
	}
	return photos.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Revocations(db dbx.DBTX) revocations.Repository {
	if m.revocations != nil {
		return m.revocations
	}
	return revocations.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(opts ...Option) *PostgresRepositoryManager {
	m := &PostgresRepositoryManager{}
	for _, o := range opts {
		o(m)
	}
	return m
}
