// Package storage содержит хранилище ключ-значение, в котором витрина держит
// корзины, заказы и дайджест пароля администратора в виде JSON-записей.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Фиксированные ключи записей. Имена совпадают с ключами localStorage
// браузерной версии витрины и не должны меняться.
const (
	CartKey      = "levenuts_cart_v1"
	OrdersKey    = "levenuts_orders"
	AdminHashKey = "levenuts_admin_hash"
)

// ErrNotFound возвращается, если по ключу ничего не сохранено.
var ErrNotFound = errors.New("key not found")

// Store описывает хранилище ключ-значение. Set перезаписывает значение целиком,
// Delete отсутствующего ключа не считается ошибкой.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ReadJSON читает запись и декодирует её в v. Отсутствующая и повреждённая
// запись одинаково дают false без ошибки, содержимое v при этом не определено.
// Ошибкой считаются только сбои самого хранилища.
func ReadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}

	return true, nil
}

// WriteJSON сериализует v и перезаписывает им значение по ключу.
func WriteJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

// ProfileKey возвращает ключ в пространстве имён профиля посетителя.
func ProfileKey(profile, key string) string {
	if profile == "" {
		return key
	}
	return "profile/" + profile + "/" + key
}
