package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PGQuerier is the subset of pgxpool.Pool used by PostgresStore.
type PGQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps view state in the list_view_states table so it follows a
// manager across devices.
type PostgresStore struct {
	db PGQuerier
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db PGQuerier) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get implements ViewStateStore.
func (s *PostgresStore) Get(ctx context.Context, key string) (Query, bool, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT state FROM list_view_states WHERE state_key = $1`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Query{}, false, nil
		}
		return Query{}, false, fmt.Errorf("listing: select view state: %w", err)
	}
	q, err := DecodeState(raw)
	if err != nil {
		return Query{}, false, err
	}
	return q, true, nil
}

// Set implements ViewStateStore.
func (s *PostgresStore) Set(ctx context.Context, key string, q Query) error {
	raw, err := EncodeState(q)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO list_view_states (state_key, state, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (state_key) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()`, key, raw)
	if err != nil {
		return fmt.Errorf("listing: upsert view state: %w", err)
	}
	return nil
}

// Delete implements ViewStateStore.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM list_view_states WHERE state_key = $1`, key); err != nil {
		return fmt.Errorf("listing: delete view state: %w", err)
	}
	return nil
}

var _ ViewStateStore = (*PostgresStore)(nil)
