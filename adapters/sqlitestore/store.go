// Package sqlitestore persists vectors in a local SQLite database,
// one file per collection directory. Search is a brute force cosine
// scan, which is fine for the corpus sizes a single process indexes.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/visualdoc/ragservice/vectorstore"
)

type Store struct {
	db         *sql.DB
	collection string
}

// Open creates or opens the collection database under dir.
func Open(dir, collection string) (*Store, error) {
	if collection == "" {
		collection = "default"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating store directory: %w", err)
	}

	path := filepath.Join(dir, collection+".db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	return &Store{db: db, collection: collection}, nil
}

// Init creates the chunks table, dropping any existing data when
// forceRecreate is set.
func (s *Store) Init(ctx context.Context, forceRecreate bool) error {
	if forceRecreate {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS chunks"); err != nil {
			return fmt.Errorf("error dropping table: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS chunks (
			chunk_id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			metadata TEXT,
			embedding BLOB NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}
	return nil
}

// Upsert stores records, replacing rows that share a chunk id.
func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("sqlitestore: %d records but %d vectors", len(records), len(vectors))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, content, metadata, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (chunk_id) DO UPDATE
		SET content = excluded.content,
		    metadata = excluded.metadata,
		    embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("error preparing upsert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("error encoding metadata for %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Text, string(meta), encodeVector(vectors[i])); err != nil {
			return fmt.Errorf("error upserting record %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// Search scans every stored vector and returns the nearest matches by
// cosine distance, closest first.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]vectorstore.Match, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT chunk_id, content, metadata, embedding FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("error querying chunks: %w", err)
	}
	defer rows.Close()

	var matches []vectorstore.Match
	for rows.Next() {
		var (
			m    vectorstore.Match
			meta string
			blob []byte
		)
		if err := rows.Scan(&m.ID, &m.Text, &meta, &blob); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		if meta != "" {
			if err := json.Unmarshal([]byte(meta), &m.Metadata); err != nil {
				return nil, fmt.Errorf("error decoding metadata for %s: %w", m.ID, err)
			}
		}
		m.Distance = cosineDistance(vector, decodeVector(blob))
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Delete removes records by chunk id.
func (s *Store) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM chunks WHERE chunk_id = ?")
	if err != nil {
		return fmt.Errorf("error preparing delete: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("error deleting record %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting records: %w", err)
	}
	return count, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ vectorstore.Store = (*Store)(nil)

// encodeVector packs a vector as little endian float32 bits.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	vector := make([]float32, len(buf)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vector
}

// cosineDistance computes 1 minus the cosine similarity of two
// vectors. Mismatched lengths and zero vectors count as maximally
// distant for unit-length inputs.
func cosineDistance(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
