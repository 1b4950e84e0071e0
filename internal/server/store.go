package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/contactform/internal/server/config"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/photos"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/revocations"
)

// Store bundles the database handle, the repository manager built for the
// configured backends, and whatever extra clients those backends opened.
type Store struct {
	DB      *sql.DB
	Manager *repomanager.PostgresRepositoryManager
	closers []func() error
}

// Close releases the database and any backend clients.
func (s *Store) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	return errors.Join(errs...)
}

// OpenStore connects to PostgreSQL, applies migrations and wires the
// revocation and photo backends selected in c.
func OpenStore(ctx context.Context, c *config.Config) (*Store, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	s := &Store{DB: db}

	opts, err := s.backendOptions(ctx, c)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	s.Manager = repomanager.NewPostgresRepositoryManager(opts...)

	if err := s.Manager.RunMigrations(ctx, db); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return s, nil
}

func (s *Store) backendOptions(ctx context.Context, c *config.Config) ([]repomanager.Option, error) {
	var opts []repomanager.Option

	if c.RevocationBackend == config.BackendRedis {
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword})
		s.closers = append(s.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping error: %w", err)
		}
		opts = append(opts, repomanager.WithRevocationStore(revocations.NewRedisRepository(rdb)))
	}

	if c.PhotoBackend == config.BackendS3 {
		client, err := photos.NewS3Client(ctx, photos.S3Config{
			Region:          c.S3Region,
			AccessKeyID:     c.S3RootUser,
			SecretAccessKey: c.S3RootPassword,
			BaseEndpoint:    c.S3BaseEndpoint,
			Bucket:          c.S3Bucket,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 client error: %w", err)
		}
		opts = append(opts, repomanager.WithPhotoStore(photos.NewS3Repository(client, c.S3Bucket)))
	}

	return opts, nil
}
