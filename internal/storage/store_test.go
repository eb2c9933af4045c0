package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levenuts/storefront/internal/model"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	ctx := context.Background()
	res := map[string]Backend{
		"memory": NewMemory(),
	}

	sq, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	res["sqlite"] = sq

	if dsn := os.Getenv("TEST_DATABASE_URI"); dsn != "" {
		pg, err := NewPostgres(ctx, dsn)
		require.NoError(t, err)
		res["postgres"] = pg
	}

	t.Cleanup(func() {
		for _, b := range res {
			_ = b.Close()
		}
	})

	return res
}

func TestStore_GetSetDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := "test/" + name

			_, err := s.Get(ctx, key)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, key, []byte(`[1]`)))
			require.NoError(t, s.Set(ctx, key, []byte(`[1,2]`)))

			got, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))

			require.NoError(t, s.Delete(ctx, key))
			require.NoError(t, s.Delete(ctx, key))

			_, err = s.Get(ctx, key)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_CartRoundTrip(t *testing.T) {
	cart := model.Cart{
		{ID: "a", Name: "Castanha de caju", Price: 10, Quantity: 2, Image: "img/caju.jpg"},
		{ID: "b", Name: "Pistache", Price: 5.49, Quantity: 1},
		{ID: "c", Name: "Amêndoa", Price: 0.1, Quantity: 7},
	}

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := ProfileKey("p-"+name, CartKey)

			require.NoError(t, WriteJSON(ctx, s, key, cart))

			var got model.Cart
			ok, err := ReadJSON(ctx, s, key, &got)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, cart, got)
		})
	}
}

func TestReadJSON_MalformedIsAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "garbage", raw: `not json`},
		{name: "object instead of array", raw: `{"id":"a"}`},
		{name: "truncated", raw: `[{"id":"a","quantity":1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, CartKey, []byte(tt.raw)))

			var got model.Cart
			ok, err := ReadJSON(ctx, s, CartKey, &got)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}

	var got model.Cart
	ok, err := ReadJSON(ctx, s, "absent", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileKey(t *testing.T) {
	assert.Equal(t, CartKey, ProfileKey("", CartKey))
	assert.Equal(t, "profile/abc/"+CartKey, ProfileKey("abc", CartKey))
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)

	b, err = Open(ctx, filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	defer b.Close()
	assert.IsType(t, &SQLite{}, b)
}
