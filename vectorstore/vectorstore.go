package vectorstore

import (
	"context"
	"sort"

	"github.com/visualdoc/ragservice/document"
	"github.com/visualdoc/ragservice/embedding"
)

// Record is a stored chunk: id, text and provenance metadata. The id is
// the dedup key; upserting an existing id overwrites the prior record.
type Record struct {
	ID       string                 `json:"id"`
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Match is a stored record paired with its cosine distance to a query
// vector. Distance is in [0,2] for unit-length vectors.
type Match struct {
	Record
	Distance float32 `json:"distance"`
}

// Result is what retrieval hands to callers: the chunk text, its
// metadata and a similarity-like score in [0,1]. Metadata values carry
// the backing store's decoding types: stores that persist metadata as
// JSON return every number as float64, while in-memory stores keep the
// original Go types. Callers should not assume a concrete numeric
// type for keys like page.
type Result struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	Score    float32                `json:"score"`
}

// Store is the interface a vector database adapter must implement.
type Store interface {
	// Init prepares the backing collection, optionally recreating it.
	Init(ctx context.Context, forceRecreate bool) error

	// Upsert stores records with their embedding vectors, overwriting
	// records that share an id.
	Upsert(ctx context.Context, records []Record, vectors [][]float32) error

	// Search returns up to limit matches ordered nearest first.
	Search(ctx context.Context, vector []float32, limit int) ([]Match, error)

	// Delete removes the records with the given ids.
	Delete(ctx context.Context, ids []string) error

	// Count reports the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases the store's resources.
	Close() error
}

// distanceSlack absorbs floating point drift at the [0,2] boundaries.
const distanceSlack = 1e-3

// VectorStore pairs a Store with an Embedder: it embeds chunk text on
// the way in and query text on the way out, and maps cosine distance to
// a score via score = 1 - distance/2.
type VectorStore struct {
	store    Store
	embedder embedding.Embedder
	opts     *Options
}

// New creates a new VectorStore instance
func New(store Store, embedder embedding.Embedder, opts ...Option) *VectorStore {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return &VectorStore{
		store:    store,
		embedder: embedder,
		opts:     options,
	}
}

// Add embeds the chunks and upserts them into the store.
func (vs *VectorStore) Add(ctx context.Context, chunks []document.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	records := make([]Record, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
		records[i] = Record{
			ID:       chunk.ID,
			Text:     chunk.Text,
			Metadata: chunk.Metadata,
		}
	}

	vectors, err := vs.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return NewEmbeddingFailedError(vs.storeName(), err)
	}

	if err := vs.store.Upsert(ctx, records, vectors); err != nil {
		return err
	}
	return nil
}

// Query embeds the query text, searches the store and converts
// distances to scores. Results come back ordered by non-increasing
// score. A distance outside [0,2] means the backing store is not using
// cosine distance over normalized vectors and is reported as an error
// rather than silently mapped.
func (vs *VectorStore) Query(ctx context.Context, query string, topK int) ([]Result, error) {
	vector, err := vs.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, NewEmbeddingFailedError(vs.storeName(), err)
	}

	matches, err := vs.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		if m.Distance < -distanceSlack || m.Distance > 2+distanceSlack {
			return nil, NewInvalidDistanceError(vs.storeName(), m.Distance)
		}
		d := m.Distance
		if d < 0 {
			d = 0
		}
		if d > 2 {
			d = 2
		}
		score := 1 - d/2
		if vs.opts.ScoreThreshold > 0 && score < vs.opts.ScoreThreshold {
			continue
		}
		results = append(results, Result{
			Text:     m.Text,
			Metadata: m.Metadata,
			Score:    score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

// Delete removes records by id.
func (vs *VectorStore) Delete(ctx context.Context, ids []string) error {
	return vs.store.Delete(ctx, ids)
}

// Count reports the number of stored records.
func (vs *VectorStore) Count(ctx context.Context) (int, error) {
	return vs.store.Count(ctx)
}

func (vs *VectorStore) storeName() string {
	if vs.opts.Name != "" {
		return vs.opts.Name
	}
	return "vectorstore"
}
