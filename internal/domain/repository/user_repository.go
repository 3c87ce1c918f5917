package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Records[entity.User]
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByService(ctx context.Context, serviceID string) ([]*entity.User, error)
}
