// Package pgvector stores vectors in PostgreSQL with the pgvector
// extension. It keeps the raw cosine distance in search results so the
// caller owns score mapping.
package pgvector

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visualdoc/ragservice/vectorstore"
)

type Store struct {
	pool      *pgxpool.Pool
	tableName string
	dimension int
}

type Options struct {
	TableName string
	Dimension int
}

// NewStore connects to PostgreSQL and prepares a store over the given
// table. The schema is created lazily by Init.
func NewStore(ctx context.Context, connString string, opts Options) (*Store, error) {
	if opts.TableName == "" {
		opts.TableName = "chunks"
	}
	if opts.Dimension <= 0 {
		return nil, fmt.Errorf("pgvector: dimension must be positive, got %d", opts.Dimension)
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("error parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	return &Store{
		pool:      pool,
		tableName: opts.TableName,
		dimension: opts.Dimension,
	}, nil
}

// Init initializes the database schema
func (p *Store) Init(ctx context.Context, forceRecreate bool) error {
	_, err := p.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("error creating vector extension: %w", err)
	}

	if forceRecreate {
		_, err = p.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", p.tableName))
		if err != nil {
			return fmt.Errorf("error dropping table: %w", err)
		}
	}

	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			chunk_id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`, p.tableName, p.dimension)

	_, err = p.pool.Exec(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}

	indexSQL := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)
	`, p.tableName, p.tableName)

	_, err = p.pool.Exec(ctx, indexSQL)
	if err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}

	return nil
}

// Upsert inserts records, replacing any row that shares a chunk id.
func (p *Store) Upsert(ctx context.Context, records []vectorstore.Record, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("pgvector: %d records but %d vectors", len(records), len(vectors))
	}

	batch := &pgx.Batch{}

	insertSQL := fmt.Sprintf(`
		INSERT INTO %s (chunk_id, content, metadata, embedding)
		VALUES ($1, $2, $3, $4::vector)
		ON CONFLICT (chunk_id) DO UPDATE
		SET content = EXCLUDED.content,
		    metadata = EXCLUDED.metadata,
		    embedding = EXCLUDED.embedding
	`, p.tableName)

	for i, rec := range records {
		if len(vectors[i]) != p.dimension {
			return vectorstore.NewInvalidDimensionsError(p.tableName, p.dimension, len(vectors[i]))
		}
		vectorStr := formatVectorForPG(vectors[i])
		batch.Queue(insertSQL, rec.ID, rec.Text, rec.Metadata, vectorStr)
	}

	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(records); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error upserting record %d: %w", i, err)
		}
	}

	return nil
}

// Search returns the nearest records by cosine distance, closest
// first.
func (p *Store) Search(ctx context.Context, vector []float32, limit int) ([]vectorstore.Match, error) {
	vectorStr := formatVectorForPG(vector)

	query := fmt.Sprintf(`
		SELECT
			chunk_id,
			content,
			metadata,
			embedding <=> $1::vector AS distance
		FROM %s
		ORDER BY embedding <=> $1::vector
		LIMIT $2
	`, p.tableName)

	rows, err := p.pool.Query(ctx, query, vectorStr, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing similarity search: %w", err)
	}
	defer rows.Close()

	var matches []vectorstore.Match
	for rows.Next() {
		var m vectorstore.Match
		if err := rows.Scan(&m.ID, &m.Text, &m.Metadata, &m.Distance); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		matches = append(matches, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return matches, nil
}

// Delete removes records by chunk id.
func (p *Store) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE chunk_id = ANY($1)", p.tableName)
	if _, err := p.pool.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("error deleting records: %w", err)
	}

	return nil
}

// Count returns the number of stored records.
func (p *Store) Count(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", p.tableName)
	if err := p.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting records: %w", err)
	}
	return count, nil
}

// Close closes the database connection pool
func (p *Store) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

var _ vectorstore.Store = (*Store)(nil)

// formatVectorForPG converts a float32 slice to a PostgreSQL vector format
func formatVectorForPG(vector []float32) string {
	var b strings.Builder
	b.WriteString("[")
	for i, v := range vector {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("%.9f", float64(v)))
	}
	b.WriteString("]")
	return b.String()
}
