package storage

import (
	"context"
	"strings"
)

// Backend описывает хранилище, которое нужно закрыть по завершении работы.
type Backend interface {
	Store
	Close() error
}

// Open выбирает хранилище по строке подключения: для пустой строки
// используется память, для postgres:// PostgreSQL, остальное считается путём к файлу SQLite.
func Open(ctx context.Context, dsn string) (Backend, error) {
	switch {
	case dsn == "":
		return NewMemory(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgres(ctx, dsn)
	default:
		return NewSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	}
}
