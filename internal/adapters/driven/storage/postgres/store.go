// Package postgres provides the PostgreSQL-backed annotation store, for
// teams that share one database between several pdfmark installations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/custodia-labs/pdfmark/internal/adapters/driven/storage/postgres/migrations"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/storage/sqlstore"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/logger"
)

// Config holds connection settings.
type Config struct {
	DSN              string
	MaxConns         int32
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DefaultConfig returns conservative pool settings for dsn.
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:         dsn,
		MaxConns:    4,
		DialTimeout: 10 * time.Second,
	}
}

// Store is a migrated PostgreSQL database.
type Store struct {
	pool *pgxpool.Pool
	db   *sql.DB
	log  *logger.Logger
}

// Open connects, pings and migrates the database.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres: empty DSN")
	}

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "pdfmark"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.StatementTimeout.Milliseconds())
	}

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	// Wrap pool as *sql.DB for the shared queries
	db := stdlib.OpenDBFromPool(pool)

	if err := sqlstore.Migrate(ctx, db, migrations.FS, sqlstore.Postgres); err != nil {
		db.Close()
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	log.Info("connected to postgres %s/%s", pc.ConnConfig.Host, pc.ConnConfig.Database)
	return &Store{pool: pool, db: db, log: log}, nil
}

// Close closes the database connections.
func (s *Store) Close() error {
	err := s.db.Close()
	s.pool.Close()
	s.log.Debug("postgres connections closed")
	return err
}

// AnnotationStore returns an AnnotationStore backed by this database.
func (s *Store) AnnotationStore() driven.AnnotationStore {
	return sqlstore.NewAnnotationStore(s.db, sqlstore.Postgres)
}
