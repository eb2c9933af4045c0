package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levenuts/storefront/internal/model"
	"github.com/levenuts/storefront/internal/order"
	"github.com/levenuts/storefront/internal/storage"
	"github.com/levenuts/storefront/internal/validation"
)

func newGate(t *testing.T) (*Gate, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	return NewGate(store, order.NewRepository(store), nil), store
}

func TestGate_SetupAndLoginScenario(t *testing.T) {
	ctx := context.Background()
	g, store := newGate(t)

	mode, err := g.Mode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeSetup, mode)

	token, err := g.Setup(ctx, "abcdef", "abcdef")
	require.NoError(t, err)
	assert.True(t, g.Authenticated(ctx, token))

	digest, err := store.Get(ctx, storage.AdminHashKey)
	require.NoError(t, err)
	assert.Equal(t, "bef57ec7f53a6d40beb640a780a639c83bc29ac8a9816f1fc6c5c6dcd93c4721", string(digest))

	mode, err = g.Mode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeLogin, mode)

	bad, err := g.Login(ctx, "wrongpw")
	require.ErrorIs(t, err, ErrInvalidPassword)
	assert.Empty(t, bad)
	assert.True(t, g.Authenticated(ctx, token))

	second, err := g.Login(ctx, "abcdef")
	require.NoError(t, err)
	assert.True(t, g.Authenticated(ctx, second))
	assert.NotEqual(t, token, second)
}

func TestGate_SetupValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		password string
		confirm  string
		message  string
	}{
		{name: "too short", password: "abc", confirm: "abc", message: "Senha mínima 6 caracteres."},
		{name: "mismatch", password: "abcdef", confirm: "abcdeg", message: "Senhas não coincidem."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, store := newGate(t)

			_, err := g.Setup(ctx, tt.password, tt.confirm)
			require.ErrorIs(t, err, validation.ErrInvalid)
			assert.Equal(t, tt.message, err.Error())

			_, err = store.Get(ctx, storage.AdminHashKey)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestGate_ModeErrors(t *testing.T) {
	ctx := context.Background()
	g, _ := newGate(t)

	_, err := g.Login(ctx, "abcdef")
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = g.Setup(ctx, "abcdef", "abcdef")
	require.NoError(t, err)

	_, err = g.Setup(ctx, "other1", "other1")
	require.ErrorIs(t, err, ErrAlreadyConfigured)

	_, err = g.Login(ctx, "")
	require.ErrorIs(t, err, validation.ErrInvalid)
}

func TestGate_LogoutAndReset(t *testing.T) {
	ctx := context.Background()
	g, store := newGate(t)

	token, err := g.Setup(ctx, "abcdef", "abcdef")
	require.NoError(t, err)

	g.Logout(token)
	assert.False(t, g.Authenticated(ctx, token))

	token, err = g.Login(ctx, "abcdef")
	require.NoError(t, err)

	require.NoError(t, g.Reset(ctx))
	assert.False(t, g.Authenticated(ctx, token))

	_, err = store.Get(ctx, storage.AdminHashKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	mode, err := g.Mode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeSetup, mode)

	assert.False(t, g.Authenticated(ctx, ""))
}

func TestGate_AcceptsDigestFromBrowser(t *testing.T) {
	ctx := context.Background()
	g, store := newGate(t)

	require.NoError(t, store.Set(ctx, storage.AdminHashKey,
		[]byte("BEF57EC7F53A6D40BEB640A780A639C83BC29AC8A9816F1FC6C5C6DCD93C4721\n")))

	_, err := g.Login(ctx, "abcdef")
	require.NoError(t, err)
}

func TestGate_Orders(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	repo := order.NewRepository(store)
	g := NewGate(store, repo, SHA256Verifier{})

	require.NoError(t, repo.Append(ctx, model.Order{ID: "o1", Status: model.OrderStatusPending}))

	orders, err := g.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}

type plainVerifier struct{}

func (plainVerifier) Digest(p string) string { return "plain:" + p }
func (plainVerifier) Verify(p, digest string) bool { return digest == "plain:"+p }

func TestGate_PluggableVerifier(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	g := NewGate(store, order.NewRepository(store), plainVerifier{})

	_, err := g.Setup(ctx, "secret1", "secret1")
	require.NoError(t, err)

	d, err := store.Get(ctx, storage.AdminHashKey)
	require.NoError(t, err)
	assert.Equal(t, "plain:secret1", string(d))

	_, err = g.Login(ctx, "secret1")
	require.NoError(t, err)
}

func TestGate_ResetByAnotherProcessClosesSessions(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	server := NewGate(store, order.NewRepository(store), nil)

	token, err := server.Setup(ctx, "abcdef", "abcdef")
	require.NoError(t, err)
	require.True(t, server.Authenticated(ctx, token))

	cli := NewGate(store, order.NewRepository(store), nil)
	require.NoError(t, cli.Reset(ctx))

	assert.False(t, server.Authenticated(ctx, token))

	mode, err := server.Mode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeSetup, mode)

	_, err = cli.Setup(ctx, "abcdef", "abcdef")
	require.NoError(t, err)
	assert.False(t, server.Authenticated(ctx, token), "closed session must not come back")
}

func TestGate_PasswordChangedElsewhereClosesSessions(t *testing.T) {
	ctx := context.Background()
	g, store := newGate(t)

	token, err := g.Setup(ctx, "abcdef", "abcdef")
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, storage.AdminHashKey, []byte(SHA256Verifier{}.Digest("another"))))
	assert.False(t, g.Authenticated(ctx, token))
}
