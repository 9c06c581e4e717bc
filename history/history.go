// Package history records question and answer exchanges so clients
// can show what was asked against the index and when.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Exchange is one question and its answer.
type Exchange struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Contexts  int       `json:"contexts"`
	LatencyMS int64     `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository stores exchanges in insertion order.
type Repository interface {
	// Append records an exchange. A missing ID or CreatedAt is filled
	// in by the implementation.
	Append(ctx context.Context, ex Exchange) error

	// List returns up to limit exchanges, most recent first. A non
	// positive limit returns all of them.
	List(ctx context.Context, limit int) ([]Exchange, error)

	// Clear removes all exchanges.
	Clear(ctx context.Context) error

	// Count reports the number of stored exchanges.
	Count(ctx context.Context) (int, error)
}

// Fill populates the generated fields of an exchange.
func Fill(ex *Exchange) {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now()
	}
}
