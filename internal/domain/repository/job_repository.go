package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// JobRepository define el puerto de persistencia para órdenes de trabajo.
type JobRepository interface {
	Records[entity.Job]
	ListByService(ctx context.Context, serviceID string) ([]*entity.Job, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Job, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]*entity.Job, error)
}
