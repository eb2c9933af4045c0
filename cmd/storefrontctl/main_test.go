package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levenuts/storefront/internal/order"
	"github.com/levenuts/storefront/internal/storage"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()

	s, err := storage.NewSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "orders_v1", []byte(`[
		{"orderId":"x1","date":"2025-03-01T10:00:00Z","buyer":{"name":"Maria"},"total":25,"paymentMethod":"pix","status":"pending"}
	]`)))
	require.NoError(t, s.Set(ctx, storage.AdminHashKey, []byte("bef57ec7f53a6d40beb640a780a639c83bc29ac8a9816f1fc6c5c6dcd93c4721")))
}

func TestStorefrontctl(t *testing.T) {
	t.Setenv("DATABASE_URI", "")
	db := filepath.Join(t.TempDir(), "store.db")
	seed(t, db)

	out, err := run(t, "migrate", "-d", db)
	require.NoError(t, err)
	assert.Equal(t, "migrated 1 legacy orders\n", out)

	out, err = run(t, "orders", "list", "-d", db)
	require.NoError(t, err)
	assert.Contains(t, out, "x1")
	assert.Contains(t, out, "Maria")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "25.00")

	out, err = run(t, "orders", "mark-paid", "x1", "-d", db)
	require.NoError(t, err)
	assert.Equal(t, "order x1 is paid\n", out)

	_, err = run(t, "orders", "mark-paid", "x1", "-d", db)
	assert.ErrorIs(t, err, order.ErrInvalidTransition)

	_, err = run(t, "orders", "mark-paid", "nope", "-d", db)
	assert.ErrorIs(t, err, order.ErrNotFound)

	out, err = run(t, "admin", "reset", "-d", db)
	require.NoError(t, err)
	assert.Equal(t, "admin password removed\n", out)

	s, err := storage.NewSQLite(context.Background(), db)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Get(context.Background(), storage.AdminHashKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorefrontctl_DatabaseFromEnv(t *testing.T) {
	db := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("DATABASE_URI", db)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "migrated 0 legacy orders\n", out)
}

func TestStorefrontctl_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URI", "")

	_, err := run(t, "orders", "list")
	assert.ErrorIs(t, err, errNoDatabase)
}
