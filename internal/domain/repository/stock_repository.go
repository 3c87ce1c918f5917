package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia para artículos de inventario.
type InventoryRepository interface {
	Records[entity.InventoryItem]
	ListByService(ctx context.Context, serviceID string) ([]*entity.InventoryItem, error)
	// AdjustQuantity aplica delta de forma atómica (sin carreras entre ajustes concurrentes)
	// y devuelve el artículo resultante. (nil, nil) si no existe.
	AdjustQuantity(ctx context.Context, id string, delta int) (*entity.InventoryItem, error)
	// Modify aplica fn sobre el registro vigente bajo bloqueo y lo persiste. Si fn falla no se
	// escribe nada y se devuelve su error. (nil, nil) si no existe.
	Modify(ctx context.Context, id string, fn func(*entity.InventoryItem) error) (*entity.InventoryItem, error)
}

// PartRepository define el puerto de persistencia para repuestos.
type PartRepository interface {
	Records[entity.Part]
	ListByService(ctx context.Context, serviceID string) ([]*entity.Part, error)
	AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Part, error)
	Modify(ctx context.Context, id string, fn func(*entity.Part) error) (*entity.Part, error)
}
