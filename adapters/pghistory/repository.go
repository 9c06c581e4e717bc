// Package pghistory persists the exchange log in PostgreSQL.
package pghistory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visualdoc/ragservice/history"
)

type Repository struct {
	pool *pgxpool.Pool
}

// New creates a repository over an existing connection pool.
func New(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, errors.New("pghistory: connection pool is required")
	}
	return &Repository{pool: pool}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS exchanges (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    contexts INT NOT NULL DEFAULT 0,
    latency_ms BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exchanges_created_at ON exchanges(created_at);
`

// InitSchema creates the exchanges table.
func (r *Repository) InitSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

func (r *Repository) Append(ctx context.Context, ex history.Exchange) error {
	history.Fill(&ex)

	query := `
		INSERT INTO exchanges (id, question, answer, contexts, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		ex.ID, ex.Question, ex.Answer, ex.Contexts, ex.LatencyMS, ex.CreatedAt)
	if err != nil {
		return fmt.Errorf("error appending exchange: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]history.Exchange, error) {
	query := `
		SELECT id, question, answer, contexts, latency_ms, created_at
		FROM exchanges
		ORDER BY created_at DESC, id
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing exchanges: %w", err)
	}
	defer rows.Close()

	var out []history.Exchange
	for rows.Next() {
		var ex history.Exchange
		if err := rows.Scan(&ex.ID, &ex.Question, &ex.Answer, &ex.Contexts, &ex.LatencyMS, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning exchange: %w", err)
		}
		out = append(out, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchanges: %w", err)
	}
	return out, nil
}

func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM exchanges"); err != nil {
		return fmt.Errorf("error clearing exchanges: %w", err)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM exchanges").Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting exchanges: %w", err)
	}
	return count, nil
}

var _ history.Repository = (*Repository)(nil)
