package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Row, Rows and CommandTag mirror the pgx result types so services can be
// tested against fakes without a live database.
type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

type CommandTag interface {
	RowsAffected() int64
}

// DBConn is the database surface services depend on.
type DBConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a database transaction over the same surface.
type Tx interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// PoolAdapter adapts a pgxpool.Pool to DBConn.
type PoolAdapter struct {
	pool *pgxpool.Pool
}

func NewPoolAdapter(pool *pgxpool.Pool) *PoolAdapter {
	return &PoolAdapter{pool: pool}
}

func (a *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return a.pool.QueryRow(ctx, sql, args...)
}

func (a *PoolAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := a.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (a *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	tag, err := a.pool.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (a *PoolAdapter) Begin(ctx context.Context) (Tx, error) {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &txAdapter{tx: tx}, nil
}

type txAdapter struct {
	tx pgx.Tx
}

func (a *txAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return a.tx.QueryRow(ctx, sql, args...)
}

func (a *txAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := a.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (a *txAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	tag, err := a.tx.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (a *txAdapter) Commit(ctx context.Context) error {
	return a.tx.Commit(ctx)
}

func (a *txAdapter) Rollback(ctx context.Context) error {
	return a.tx.Rollback(ctx)
}

// ErrCacheMiss is returned by RedisConn.Get for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// RedisConn is the key-value surface the token registry depends on.
type RedisConn interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisAdapter adapts a go-redis client to RedisConn.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (a *RedisAdapter) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return a.client.Set(ctx, key, value, ttl).Err()
}

func (a *RedisAdapter) Get(ctx context.Context, key string) (string, error) {
	val, err := a.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (a *RedisAdapter) Del(ctx context.Context, keys ...string) error {
	return a.client.Del(ctx, keys...).Err()
}
