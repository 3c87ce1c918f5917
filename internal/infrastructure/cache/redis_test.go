package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCmdable struct {
	data map[string]string
	ttl  map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, ok := m.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = value.(string)
	m.ttl[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.data[key] = value.(string)
	m.ttl[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			delete(m.ttl, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestIdempotencyStore_GetInexistenteDevuelveVacio(t *testing.T) {
	s := &IdempotencyStore{store: newMockCmdable()}
	v, err := s.Get(context.Background(), "nada")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestIdempotencyStore_SetNXSoloUnaVez(t *testing.T) {
	mock := newMockCmdable()
	s := &IdempotencyStore{store: mock, prefix: "taller"}
	ctx := context.Background()
	key := s.Key("user|svc|POST|/api/sales/checkout", "abc")
	assert.Equal(t, "taller:idempotency:user|svc|POST|/api/sales/checkout:abc", key)

	ok, err := s.SetNX(ctx, key, "primero", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.SetNX(ctx, key, "segundo", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "primero", v)
	assert.Equal(t, time.Hour, mock.ttl[key])
	assert.NoError(t, s.Ping(ctx))
	assert.NoError(t, s.Close())
}

func TestIdempotencyStore_SetSobrescribeYDelLibera(t *testing.T) {
	mock := newMockCmdable()
	s := &IdempotencyStore{store: mock}
	ctx := context.Background()

	ok, err := s.SetNX(ctx, "k", "pendiente", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Set(ctx, "k", "final", 24*time.Hour))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "final", v)
	assert.Equal(t, 24*time.Hour, mock.ttl["k"])

	require.NoError(t, s.Del(ctx, "k"))
	require.NoError(t, s.Del(ctx, "k"))
	ok, err = s.SetNX(ctx, "k", "otra vez", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
