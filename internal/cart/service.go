// Package cart реализует корзину посетителя поверх хранилища ключ-значение.
package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/levenuts/storefront/internal/model"
	"github.com/levenuts/storefront/internal/storage"
)

// Service управляет корзинами посетителей. Каждая изменяющая операция
// перечитывает корзину, меняет её и записывает целиком до возврата.
type Service struct {
	store storage.Store
	mu    sync.Mutex
}

// NewService создаёт сервис корзины поверх указанного хранилища.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

func key(profile string) string {
	return storage.ProfileKey(profile, storage.CartKey)
}

func (s *Service) load(ctx context.Context, profile string) (model.Cart, error) {
	c, _, err := s.loadRaw(ctx, profile)
	return c, err
}

// loadRaw возвращает нормализованную корзину и признак того, что сохранённая
// версия отличается от нормализованной.
func (s *Service) loadRaw(ctx context.Context, profile string) (model.Cart, bool, error) {
	var raw model.Cart
	ok, err := storage.ReadJSON(ctx, s.store, key(profile), &raw)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return model.Cart{}, false, nil
	}

	c := raw.Normalize()
	return c, !slices.Equal(raw, c), nil
}

func (s *Service) save(ctx context.Context, profile string, c model.Cart) error {
	if c == nil {
		c = model.Cart{}
	}
	return storage.WriteJSON(ctx, s.store, key(profile), c)
}

// update выполняет чтение-изменение-запись под мьютексом. Корзина перезаписывается,
// если fn её изменила или если сохранённая версия содержала некорректные позиции.
func (s *Service) update(ctx context.Context, profile string, fn func(c *model.Cart) bool) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, dirty, err := s.loadRaw(ctx, profile)
	if err != nil {
		return nil, err
	}

	if !fn(&c) && !dirty {
		return c, nil
	}

	if err := s.save(ctx, profile, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	return c, nil
}

// Items возвращает текущие позиции корзины.
func (s *Service) Items(ctx context.Context, profile string) (model.Cart, error) {
	return s.load(ctx, profile)
}

// Totals возвращает количество и сумму по корзине.
func (s *Service) Totals(ctx context.Context, profile string) (model.Totals, error) {
	c, err := s.load(ctx, profile)
	if err != nil {
		return model.Totals{}, err
	}
	return c.Totals(), nil
}

// Add добавляет товар в корзину. Товар без идентификатора молча игнорируется.
func (s *Service) Add(ctx context.Context, profile string, p model.Product) (model.Cart, error) {
	return s.update(ctx, profile, func(c *model.Cart) bool {
		return c.Add(p)
	})
}

// SetQuantity устанавливает количество позиции; ноль удаляет позицию,
// неизвестный идентификатор игнорируется.
func (s *Service) SetQuantity(ctx context.Context, profile, id string, qty float64) (model.Cart, error) {
	return s.update(ctx, profile, func(c *model.Cart) bool {
		return c.SetQuantity(id, qty)
	})
}

// Increment увеличивает количество позиции на единицу.
func (s *Service) Increment(ctx context.Context, profile, id string) (model.Cart, error) {
	return s.update(ctx, profile, func(c *model.Cart) bool {
		it, ok := c.Find(id)
		if !ok {
			return false
		}
		return c.SetQuantity(id, float64(it.Quantity+1))
	})
}

// Decrement уменьшает количество позиции на единицу. Позиция с количеством 1 удаляется.
func (s *Service) Decrement(ctx context.Context, profile, id string) (model.Cart, error) {
	return s.update(ctx, profile, func(c *model.Cart) bool {
		it, ok := c.Find(id)
		if !ok {
			return false
		}
		return c.SetQuantity(id, float64(it.Quantity-1))
	})
}

// Remove удаляет позицию из корзины.
func (s *Service) Remove(ctx context.Context, profile, id string) (model.Cart, error) {
	return s.update(ctx, profile, func(c *model.Cart) bool {
		return c.Remove(id)
	})
}

// Clear удаляет сохранённую корзину целиком.
func (s *Service) Clear(ctx context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, key(profile)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Take забирает корзину: возвращает её позиции и удаляет сохранённую корзину
// за одну операцию, так что параллельное оформление получит пустую корзину.
func (s *Service) Take(ctx context.Context, profile string) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, profile)
	if err != nil {
		return nil, err
	}
	if len(c) == 0 {
		return c, nil
	}

	if err := s.store.Delete(ctx, key(profile)); err != nil {
		return nil, fmt.Errorf("take cart: %w", err)
	}
	return c, nil
}

// Restore возвращает в корзину позиции, забранные Take. Позиции, добавленные
// за это время, сохраняются, количества совпадающих товаров складываются.
func (s *Service) Restore(ctx context.Context, profile string, items model.Cart) (model.Cart, error) {
	return s.update(ctx, profile, func(c *model.Cart) bool {
		if len(items) == 0 {
			return false
		}
		*c = append(items.Clone(), *c...).Normalize()
		return true
	})
}
