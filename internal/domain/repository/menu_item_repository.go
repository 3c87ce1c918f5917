package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// MenuItemRepository define el puerto de persistencia para el menú de servicios.
type MenuItemRepository interface {
	Records[entity.MenuItem]
	ListByService(ctx context.Context, serviceID string) ([]*entity.MenuItem, error)
}
