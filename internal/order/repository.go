// Package order хранит список оформленных заказов витрины.
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/levenuts/storefront/internal/model"
	"github.com/levenuts/storefront/internal/storage"
)

var (
	// ErrNotFound возвращается, если заказа с таким идентификатором нет.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidTransition возвращается при попытке перевести заказ не из статуса pending.
	ErrInvalidTransition = errors.New("order is not pending")
	// ErrDuplicateID возвращается, если заказ с таким идентификатором уже сохранён.
	ErrDuplicateID = errors.New("order id already exists")
)

// Repository хранит заказы одним JSON-массивом под ключом storage.OrdersKey.
// Список только дополняется; на месте меняется лишь поле status.
type Repository struct {
	store storage.Store
	mu    sync.Mutex
}

// NewRepository создаёт репозиторий заказов поверх хранилища.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) load(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	ok, err := storage.ReadJSON(ctx, r.store, storage.OrdersKey, &orders)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Order{}, nil
	}
	return orders, nil
}

// List возвращает все заказы в порядке создания.
func (r *Repository) List(ctx context.Context) ([]model.Order, error) {
	return r.load(ctx)
}

// Get возвращает заказ по идентификатору.
func (r *Repository) Get(ctx context.Context, id string) (model.Order, error) {
	orders, err := r.load(ctx)
	if err != nil {
		return model.Order{}, err
	}

	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}

	return model.Order{}, ErrNotFound
}

// Append добавляет заказ в конец списка.
func (r *Repository) Append(ctx context.Context, o model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load(ctx)
	if err != nil {
		return err
	}

	for _, existing := range orders {
		if existing.ID == o.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, o.ID)
		}
	}

	orders = append(orders, o)
	if err := storage.WriteJSON(ctx, r.store, storage.OrdersKey, orders); err != nil {
		return fmt.Errorf("append order: %w", err)
	}

	return nil
}

// MarkPaid переводит заказ из pending в paid, остальные поля не меняются.
func (r *Repository) MarkPaid(ctx context.Context, id string) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load(ctx)
	if err != nil {
		return model.Order{}, err
	}

	idx := -1
	for i, o := range orders {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Order{}, ErrNotFound
	}

	if orders[idx].Status != model.OrderStatusPending {
		return orders[idx], ErrInvalidTransition
	}

	orders[idx].Status = model.OrderStatusPaid
	if err := storage.WriteJSON(ctx, r.store, storage.OrdersKey, orders); err != nil {
		return model.Order{}, fmt.Errorf("update order status: %w", err)
	}

	return orders[idx], nil
}
