package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ServiceRepository define el puerto de persistencia para el taller (tenant).
type ServiceRepository interface {
	Records[entity.Service]
	GetByOwner(ctx context.Context, ownerID string) (*entity.Service, error)
}
