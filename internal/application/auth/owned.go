package auth

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain"
)

// Owned carga el registro id con get y verifica que pertenezca al taller de la sesión.
// Un registro de otro taller se reporta igual que uno inexistente.
func Owned[T any](ctx context.Context, sess Session, id string,
	get func(context.Context, string) (*T, error),
	serviceOf func(*T) string,
) (*T, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	rec, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || !sess.Owns(serviceOf(rec)) {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}
