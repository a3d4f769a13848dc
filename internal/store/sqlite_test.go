package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err, "Open(:memory:)")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := map[string]any{"name": "Sands Restaurant", "category": "restaurant", "rating": 4.5}
	require.NoError(t, s.Create(ctx, "businesses", "b1", doc))

	got, err := s.Get(ctx, "businesses", "b1")
	require.NoError(t, err)
	require.Equal(t, "Sands Restaurant", got["name"])
	require.Equal(t, 4.5, got["rating"])
}

func TestGetMissingReturnsNil(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Get(context.Background(), "businesses", "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCreateOverwritesExisting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "businesses", "b1", map[string]any{"name": "Old"}))
	require.NoError(t, s.Create(ctx, "businesses", "b1", map[string]any{"name": "New"}))

	got, err := s.Get(ctx, "businesses", "b1")
	require.NoError(t, err)
	require.Equal(t, "New", got["name"])
}

func TestUpdateMergesPartialData(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "businesses", "b1", map[string]any{
		"name":   "Sands Restaurant",
		"rating": 4.5,
	}))
	require.NoError(t, s.Update(ctx, "businesses", "b1", map[string]any{
		"rating": 4.8,
	}))

	got, err := s.Get(ctx, "businesses", "b1")
	require.NoError(t, err)
	require.Equal(t, "Sands Restaurant", got["name"], "untouched fields survive a partial update")
	require.Equal(t, 4.8, got["rating"])
}

func TestUpdateMissingDocument(t *testing.T) {
	s := openTestStore(t)

	err := s.Update(context.Background(), "businesses", "missing", map[string]any{"rating": 1.0})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "businesses", "b1", map[string]any{"name": "X"}))
	require.NoError(t, s.Delete(ctx, "businesses", "b1"))

	got, err := s.Get(ctx, "businesses", "b1")
	require.NoError(t, err)
	require.Nil(t, got)

	// Deleting again is not an error.
	require.NoError(t, s.Delete(ctx, "businesses", "b1"))
}

func TestQueryByField(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "businesses", "b1", map[string]any{"category": "hotel", "rating": 4.0}))
	require.NoError(t, s.Create(ctx, "businesses", "b2", map[string]any{"category": "restaurant", "rating": 4.5}))
	require.NoError(t, s.Create(ctx, "businesses", "b3", map[string]any{"category": "hotel", "rating": 3.0}))

	hotels, err := s.Query(ctx, "businesses", "category", "==", "hotel")
	require.NoError(t, err)
	require.Len(t, hotels, 2)

	highRated, err := s.Query(ctx, "businesses", "rating", ">=", 4.0)
	require.NoError(t, err)
	require.Len(t, highRated, 2)
}

func TestQueryRejectsUnknownOperator(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Query(context.Background(), "businesses", "category", "LIKE", "hotel")
	require.Error(t, err)
}

func TestQueryIsScopedToCollection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "businesses", "b1", map[string]any{"owner": "u1"}))
	require.NoError(t, s.Create(ctx, "reviews", "r1", map[string]any{"owner": "u1"}))

	docs, err := s.Query(ctx, "businesses", "owner", "==", "u1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "b1", docs[0].ID)
}

func TestGetAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "reviews", "r1", map[string]any{"rating": 5.0}))
	require.NoError(t, s.Create(ctx, "reviews", "r2", map[string]any{"rating": 3.0}))

	docs, err := s.GetAll(ctx, "reviews")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	empty, err := s.GetAll(ctx, "bookings")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	type listing struct {
		Name   string  `json:"name"`
		Rating float64 `json:"rating"`
	}

	data, err := Encode(listing{Name: "Kite Centre", Rating: 4.9})
	require.NoError(t, err)

	var out listing
	require.NoError(t, Decode(data, &out))
	require.Equal(t, "Kite Centre", out.Name)
	require.Equal(t, 4.9, out.Rating)
}
