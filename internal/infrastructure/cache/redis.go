// Package cache guarda en Redis las respuestas de peticiones idempotentes.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idempotency"

type cmdable interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyStore claves de idempotencia con TTL.
type IdempotencyStore struct {
	store  cmdable
	raw    *redis.Client
	prefix string
}

// New conecta a redisURL (redis://...) y verifica con PING.
func New(ctx context.Context, redisURL, prefix string) (*IdempotencyStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: parsear REDIS_URL: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}
	return &IdempotencyStore{store: raw, raw: raw, prefix: prefix}, nil
}

// Get devuelve el valor guardado o "" si la clave no existe.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// SetNX guarda value solo si la clave no existe.
func (s *IdempotencyStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.store.SetNX(ctx, key, value, ttl).Result()
}

// Set sobrescribe el valor de key.
func (s *IdempotencyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.store.Set(ctx, key, value, ttl).Err()
}

// Del borra key; no falla si no existe.
func (s *IdempotencyStore) Del(ctx context.Context, key string) error {
	return s.store.Del(ctx, key).Err()
}

// Key clave con espacio de nombres: <prefix>:idempotency:<scope>:<id>.
func (s *IdempotencyStore) Key(scope, id string) string {
	parts := []string{idempotencyPrefix, scope, id}
	if s.prefix != "" {
		parts = append([]string{s.prefix}, parts...)
	}
	return strings.Join(parts, ":")
}

// Ping verifica la conexión.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx).Err()
}

// Close libera el pool de conexiones.
func (s *IdempotencyStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
