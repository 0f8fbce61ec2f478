// Package postgres implements the media catalog on PostgreSQL via lib/pq,
// with pgvector for neighbor lookups.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"github.com/kailas-cloud/photosearch/internal/db"
)

// Compile-time checks.
var (
	_ db.Store          = (*Store)(nil)
	_ db.VectorSearcher = (*Store)(nil)
	_ db.VectorScanner  = (*Store)(nil)
)

// Config holds connection parameters.
type Config struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// Store is a PostgreSQL connection pool serving catalog reads.
type Store struct {
	db *sql.DB
}

// NewStore opens a pool. It does not wait for the server; use WaitForReady.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("database URL is required")
	}

	conn, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	conn.SetConnMaxLifetime(time.Hour)
	conn.SetConnMaxIdleTime(10 * time.Minute)

	return &Store{db: conn}, nil
}

// DB returns the underlying sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, "database", timeout, 200*time.Millisecond, s.Ping)
}

// BeginSession starts a read-only repeatable-read transaction, so count,
// page and id set all see one snapshot.
func (s *Store) BeginSession(ctx context.Context) (db.Session, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, &db.Error{Op: db.OpBegin, Err: err}
	}
	return &session{tx: tx}, nil
}

// querier is the subset of *sql.DB and *sql.Tx used for reads.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type session struct {
	tx   *sql.Tx
	once sync.Once
}

// Close rolls back the read-only transaction, releasing its connection.
func (ss *session) Close() error {
	var err error
	ss.once.Do(func() {
		if rerr := ss.tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			err = rerr
		}
	})
	return err
}
