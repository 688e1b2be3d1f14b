package pricing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads records from the pricing_sessions table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource constructs a Postgres-backed Source.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// OpenPostgresSource connects to databaseURL and verifies the connection.
func OpenPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewPostgresSource(pool), nil
}

// EnsureSchema creates the sessions table when it does not already exist.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS pricing_sessions (
	id           BIGSERIAL PRIMARY KEY,
	scope        TEXT    NOT NULL,
	position     INTEGER NOT NULL DEFAULT 0,
	signature    TEXT    NOT NULL,
	session_date TEXT    NOT NULL DEFAULT '',
	participants INTEGER NOT NULL DEFAULT 0,
	stake        TEXT    NOT NULL DEFAULT '',
	view_label   TEXT    NOT NULL DEFAULT 'View',
	action_label TEXT    NOT NULL DEFAULT 'Vote'
);`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Sessions returns the rows for scope ordered by position then id.
func (s *PostgresSource) Sessions(ctx context.Context, scope Scope) ([]SessionRecord, error) {
	if scope != ScopeLive && scope != ScopeMine {
		return nil, ErrUnknownScope
	}
	const query = `
SELECT signature, session_date, participants, stake, view_label, action_label
FROM pricing_sessions
WHERE scope = $1
ORDER BY position, id`

	rows, err := s.pool.Query(ctx, query, string(scope))
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	records := make([]SessionRecord, 0)
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.Signature, &rec.Date, &rec.ParticipantCount, &rec.StakeAmount, &rec.ViewLabel, &rec.ActionLabel); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

// Insert appends records to scope, continuing the position sequence.
func (s *PostgresSource) Insert(ctx context.Context, scope Scope, records []SessionRecord) (err error) {
	if scope != ScopeLive && scope != ScopeMine {
		return ErrUnknownScope
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var next int
	if err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM pricing_sessions WHERE scope = $1`, string(scope)).Scan(&next); err != nil {
		return err
	}

	const insert = `
INSERT INTO pricing_sessions (scope, position, signature, session_date, participants, stake, view_label, action_label)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, rec := range records {
		if _, err = tx.Exec(ctx, insert, string(scope), next+i, rec.Signature, rec.Date, rec.ParticipantCount, rec.StakeAmount, rec.ViewLabel, rec.ActionLabel); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Health pings the database.
func (s *PostgresSource) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}
