// Package memory implementa los repositorios en memoria (STORE_DRIVER=memory y tests).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain"
)

// collection guarda copias de T indexadas por ID.
type collection[T any] struct {
	mu      sync.RWMutex
	items   map[string]T
	id      func(*T) string
	created func(*T) time.Time
}

func newCollection[T any](id func(*T) string, created func(*T) time.Time) *collection[T] {
	return &collection[T]{items: make(map[string]T), id: id, created: created}
}

func (c *collection[T]) Create(_ context.Context, rec *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.id(rec)
	if _, ok := c.items[key]; ok {
		return domain.ErrDuplicate
	}
	c.items[key] = *rec
	return nil
}

func (c *collection[T]) GetByID(_ context.Context, id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (c *collection[T]) Update(_ context.Context, rec *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.id(rec)
	if _, ok := c.items[key]; !ok {
		return domain.ErrNotFound
	}
	c.items[key] = *rec
	return nil
}

func (c *collection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}

// where devuelve copias de los registros que cumplen match, más recientes primero.
func (c *collection[T]) where(match func(*T) bool) []*T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*T
	for _, v := range c.items {
		if match(&v) {
			out = append(out, &v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return c.created(out[i]).After(c.created(out[j]))
	})
	return out
}

// mutate aplica fn sobre el registro bajo el lock de escritura; si fn falla no se guarda nada.
// (nil, nil) si no existe.
func (c *collection[T]) mutate(id string, fn func(*T) error) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	if err := fn(&v); err != nil {
		return nil, err
	}
	c.items[id] = v
	out := v
	return &out, nil
}
