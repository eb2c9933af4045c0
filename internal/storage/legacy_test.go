package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levenuts/storefront/internal/model"
)

func TestMigrateLegacyOrders(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Set(ctx, "orders", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "orders_v1", []byte(`[
		{"orderId":"x1","date":"2025-03-01T10:00:00Z","cart":[{"id":"a","price":4,"quantity":0},{"id":"b","price":3,"quantity":2}]},
		{"id":"x2","createdAt":"2025-03-02T11:00:00Z","total":12.5,"paymentMethod":"card","status":"paid"},
		"broken"
	]`)))

	n, err := MigrateLegacyOrders(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var orders []model.Order
	ok, err := ReadJSON(ctx, s, OrdersKey, &orders)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.Equal(t, "x1", first.ID)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, 10.0, first.Total)
	assert.Equal(t, 1, first.Cart[0].Quantity)
	assert.Equal(t, model.PaymentMethodPix, first.PaymentMethod)
	assert.Equal(t, model.OrderStatusPending, first.Status)

	second := orders[1]
	assert.Equal(t, "x2", second.ID)
	assert.Equal(t, 12.5, second.Total)
	assert.Equal(t, model.PaymentMethodCard, second.PaymentMethod)
	assert.Equal(t, model.OrderStatusPaid, second.Status)

	_, err = s.Get(ctx, "orders_v1")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = MigrateLegacyOrders(ctx, s)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMigrateLegacyOrders_CanonicalPresent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Set(ctx, OrdersKey, []byte(`[{"id":"keep"}]`)))
	require.NoError(t, s.Set(ctx, "orders", []byte(`[{"id":"legacy"}]`)))

	n, err := MigrateLegacyOrders(ctx, s)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.Get(ctx, "orders")
	assert.NoError(t, err)
}
