package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// VehicleRepository define el puerto de persistencia para Vehicle.
type VehicleRepository interface {
	Records[entity.Vehicle]
	ListByService(ctx context.Context, serviceID string) ([]*entity.Vehicle, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Vehicle, error)
}
