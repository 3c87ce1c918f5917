package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas.
type SaleRepository interface {
	Records[entity.Sale]
	ListByService(ctx context.Context, serviceID string) ([]*entity.Sale, error)
}
