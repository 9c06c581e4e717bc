package sqlitestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/visualdoc/ragservice/vectorstore"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Init(context.Background(), false))
	return s
}

func TestStore_UpsertAndSearch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records := []vectorstore.Record{
		{ID: "a", Text: "alpha", Metadata: map[string]interface{}{"page": 1}},
		{ID: "b", Text: "beta", Metadata: map[string]interface{}{"page": 2}},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
	}
	require.NoError(t, s.Upsert(ctx, records, vectors))

	matches, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "a", matches[0].ID)
	require.InDelta(t, 0, matches[0].Distance, 1e-6)
	require.InDelta(t, 1, matches[1].Distance, 1e-6)
	require.Equal(t, float64(1), matches[0].Metadata["page"])
}

func TestStore_UpsertReplacesById(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := []vectorstore.Record{{ID: "a", Text: "first", Metadata: nil}}
	require.NoError(t, s.Upsert(ctx, rec, [][]float32{{1, 0}}))
	rec[0].Text = "second"
	require.NoError(t, s.Upsert(ctx, rec, [][]float32{{0, 1}}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	matches, err := s.Search(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Equal(t, "second", matches[0].Text)
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records := []vectorstore.Record{
		{ID: "a", Text: "alpha"},
		{ID: "b", Text: "beta"},
	}
	require.NoError(t, s.Upsert(ctx, records, [][]float32{{1, 0}, {0, 1}}))
	require.NoError(t, s.Delete(ctx, []string{"a"}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, s.Delete(ctx, nil))
}

func TestStore_InitForceRecreate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []vectorstore.Record{{ID: "a", Text: "x"}}, [][]float32{{1}}))
	require.NoError(t, s.Init(ctx, true))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir, "persist")
	require.NoError(t, err)
	require.NoError(t, s.Init(ctx, false))
	require.NoError(t, s.Upsert(ctx, []vectorstore.Record{{ID: "a", Text: "kept"}}, [][]float32{{1, 0}}))
	require.NoError(t, s.Close())

	s2, err := Open(dir, "persist")
	require.NoError(t, err)
	defer s2.Close()
	require.NoError(t, s2.Init(ctx, false))

	matches, err := s2.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "kept", matches[0].Text)
}

func TestEncodeDecodeVector(t *testing.T) {
	in := []float32{0.25, -1.5, 3.75}
	require.Equal(t, in, decodeVector(encodeVector(in)))
}

func TestCosineDistance(t *testing.T) {
	require.InDelta(t, 0, cosineDistance([]float32{1, 0}, []float32{1, 0}), 1e-6)
	require.InDelta(t, 1, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-6)
	require.InDelta(t, 2, cosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	require.InDelta(t, 1, cosineDistance([]float32{1, 0}, []float32{0, 0}), 1e-6)
	require.InDelta(t, 1, cosineDistance([]float32{1}, []float32{1, 0}), 1e-6)
}
