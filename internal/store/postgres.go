package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/variant-studio/internal/types"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS generation_results (
	id         TEXT PRIMARY KEY,
	goal       TEXT NOT NULL DEFAULT '',
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generation_results_expires_at ON generation_results (expires_at);
`

// PostgresStore keeps results in PostgreSQL as JSONB rows with an expiry time.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// ConnectPostgres establishes a connection pool and creates the results table if needed.
func ConnectPostgres(ctx context.Context, databaseURL string, ttl time.Duration) (*PostgresStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create results table: %w", err)
	}

	return &PostgresStore{pool: pool, ttl: ttl}, nil
}

// Save upserts result under its request id.
func (s *PostgresStore) Save(ctx context.Context, result types.GenerationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO generation_results (id, goal, payload, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET goal = $2, payload = $3, expires_at = $4`,
		result.RequestID, result.Goal, payload, time.Now().Add(s.ttl),
	)
	if err != nil {
		return fmt.Errorf("failed to save result %s: %w", result.RequestID, err)
	}
	return nil
}

// Get returns the live result for id or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, id string) (types.GenerationResult, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM generation_results WHERE id = $1 AND expires_at > NOW()`,
		id,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.GenerationResult{}, ErrNotFound
		}
		return types.GenerationResult{}, fmt.Errorf("failed to get result %s: %w", id, err)
	}

	var result types.GenerationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return types.GenerationResult{}, fmt.Errorf("failed to unmarshal result %s: %w", id, err)
	}
	return result, nil
}

// DeleteExpired removes expired rows and returns how many were deleted.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM generation_results WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired results: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
