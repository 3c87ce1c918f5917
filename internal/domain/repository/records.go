package repository

import "context"

// Records operaciones comunes a toda entidad persistida por ID.
// GetByID devuelve (nil, nil) cuando el registro no existe.
type Records[T any] interface {
	Create(ctx context.Context, rec *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id string) error
}
