package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/stock"
)

// InventoryItem artículo de inventario del taller (insumos, aceites, consumibles).
type InventoryItem struct {
	ID            string
	ServiceID     string
	Name          string
	SKU           *string
	Category      *string
	Description   *string
	Quantity      int
	MinStockLevel *int
	MaxStockLevel *int
	UnitPrice     decimal.Decimal
	CostPrice     *decimal.Decimal
	Supplier      *string
	Location      *string
	Status        stock.Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Restock recalcula el estado a partir de la cantidad actual.
func (i *InventoryItem) Restock() {
	i.Status = stock.DeriveStatus(i.Quantity, i.MinStockLevel, i.Status)
}

// Adjust suma delta a la cantidad (sin bajar de cero) y recalcula el estado.
func (i *InventoryItem) Adjust(delta int) {
	i.Quantity = stock.ClampQuantity(i.Quantity, delta)
	i.Restock()
}
