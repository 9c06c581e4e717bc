// Package memhistory keeps the exchange log in memory, bounded to the
// most recent entries.
package memhistory

import (
	"context"
	"sync"

	"github.com/visualdoc/ragservice/history"
)

// DefaultMaxExchanges bounds the log when no limit is configured.
const DefaultMaxExchanges = 1000

// Repository implements history.Repository in memory.
type Repository struct {
	mu           sync.RWMutex
	exchanges    []history.Exchange
	maxExchanges int
}

// New creates a repository keeping at most maxExchanges entries. A non
// positive value uses DefaultMaxExchanges.
func New(maxExchanges int) *Repository {
	if maxExchanges <= 0 {
		maxExchanges = DefaultMaxExchanges
	}
	return &Repository{maxExchanges: maxExchanges}
}

func (r *Repository) Append(_ context.Context, ex history.Exchange) error {
	history.Fill(&ex)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges = append(r.exchanges, ex)
	if len(r.exchanges) > r.maxExchanges {
		r.exchanges = r.exchanges[len(r.exchanges)-r.maxExchanges:]
	}
	return nil
}

func (r *Repository) List(_ context.Context, limit int) ([]history.Exchange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.exchanges)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]history.Exchange, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.exchanges[i])
	}
	return out, nil
}

func (r *Repository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges = nil
	return nil
}

func (r *Repository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.exchanges), nil
}

var _ history.Repository = (*Repository)(nil)
