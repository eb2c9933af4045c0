package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Postgres хранит записи в таблице kv_store базы PostgreSQL.
type Postgres struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgres создаёт пул соединений и накатывает миграции схемы.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := runMigrations(ctx, db, "postgres"); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{
		pool:   pool,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}, nil
}

// Close закрывает пул соединений.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Get возвращает значение по ключу.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.withRetry(ctx, func() error {
		return p.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select value: %w", err)
	}

	return []byte(value), nil
}

// Set перезаписывает значение по ключу.
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	err := p.withRetry(ctx, func() error {
		_, err := p.pool.Exec(ctx,
			`INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			key, string(value),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert value: %w", err)
	}
	return nil
}

// Delete удаляет значение по ключу.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	err := p.withRetry(ctx, func() error {
		_, err := p.pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete value: %w", err)
	}
	return nil
}

func (p *Postgres) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(p.delays); i++ {
		err = fn()
		if err == nil || !isRetryable(err) || i == len(p.delays) {
			return err
		}

		timer := time.NewTimer(p.delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}

	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset by peer")
}
