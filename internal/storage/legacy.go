package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/levenuts/storefront/internal/model"
)

// LegacyOrderKeys перечисляет ключи, под которыми ранние версии витрины хранили заказы.
var LegacyOrderKeys = []string{"orders", "orders_v1"}

type legacyOrder struct {
	ID            string           `json:"id"`
	OrderID       string           `json:"orderId"`
	CreatedAt     string           `json:"createdAt"`
	Date          string           `json:"date"`
	Buyer         model.Buyer      `json:"buyer"`
	Cart          []model.LineItem `json:"cart"`
	Total         *float64         `json:"total"`
	PaymentMethod string           `json:"paymentMethod"`
	Status        string           `json:"status"`
}

// MigrateLegacyOrders переносит заказы из устаревших ключей под канонический ключ.
// Перенос выполняется, только если под каноническим ключом заказов нет; берётся
// первый устаревший ключ с непустым списком, после переноса он удаляется.
// Возвращает число перенесённых заказов.
func MigrateLegacyOrders(ctx context.Context, s Store) (int, error) {
	var current []json.RawMessage
	ok, err := ReadJSON(ctx, s, OrdersKey, &current)
	if err != nil {
		return 0, err
	}
	if ok && len(current) > 0 {
		return 0, nil
	}

	for _, key := range LegacyOrderKeys {
		var raw []json.RawMessage
		ok, err := ReadJSON(ctx, s, key, &raw)
		if err != nil {
			return 0, err
		}
		if !ok || len(raw) == 0 {
			continue
		}

		orders := make([]model.Order, 0, len(raw))
		for i, r := range raw {
			var lo legacyOrder
			if err := json.Unmarshal(r, &lo); err != nil {
				continue
			}
			orders = append(orders, lo.normalize(i))
		}

		if err := WriteJSON(ctx, s, OrdersKey, orders); err != nil {
			return 0, err
		}
		if err := s.Delete(ctx, key); err != nil {
			return 0, fmt.Errorf("delete legacy key %s: %w", key, err)
		}

		return len(orders), nil
	}

	return 0, nil
}

func (lo legacyOrder) normalize(pos int) model.Order {
	o := model.Order{
		ID:            lo.ID,
		Buyer:         lo.Buyer,
		PaymentMethod: model.PaymentMethod(lo.PaymentMethod),
		Status:        model.OrderStatus(lo.Status),
	}

	if o.ID == "" {
		o.ID = lo.OrderID
	}
	if o.ID == "" {
		o.ID = fmt.Sprintf("legacy-%d", pos+1)
	}

	created := lo.CreatedAt
	if created == "" {
		created = lo.Date
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		o.CreatedAt = t.UTC()
	}

	o.Cart = make([]model.LineItem, 0, len(lo.Cart))
	for _, it := range lo.Cart {
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		o.Cart = append(o.Cart, it)
	}

	if lo.Total != nil {
		o.Total = *lo.Total
	} else {
		o.Total = model.Cart(o.Cart).Totals().Subtotal
	}

	if o.PaymentMethod != model.PaymentMethodCard {
		o.PaymentMethod = model.PaymentMethodPix
	}
	if o.Status != model.OrderStatusPaid {
		o.Status = model.OrderStatusPending
	}

	return o
}
