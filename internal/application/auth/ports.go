package auth

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// TxRunner ejecuta el alta de dueño + taller de forma atómica.
type TxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		users repository.UserRepository,
		services repository.ServiceRepository,
	) error) error
}
