// Package store is the Postgres-backed system of record for products,
// accounts, portfolios, and orders. Every mutation the order engine
// performs happens inside a single transaction opened with WithTx, with
// the account and portfolio rows locked via SELECT ... FOR UPDATE to
// serialize concurrent orders for the same user.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fireorder/gateway/internal/apierr"
)

// Store owns a Postgres connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open connects to Postgres and verifies connectivity with a ping.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{
		pool:   pool,
		logger: logger.With("component", "store"),
	}, nil
}

// Close drains the connection pool. It blocks until all in-flight
// queries finish or the pool is forcibly closed by the process exiting.
func (s *Store) Close() {
	s.pool.Close()
}

// WithTx runs fn inside a single transaction, committing on a nil
// return and rolling back otherwise. fn's own errors pass through
// untouched so callers can inspect the original apierr.Kind.
func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apierr.Wrap(apierr.Database, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op once committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apierr.Wrap(apierr.Database, err)
	}
	return nil
}
