package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem trabajo predefinido con precio (ej. "Cambio de aceite"), opcionalmente ligado a un artículo de inventario.
type MenuItem struct {
	ID                string
	ServiceID         string
	Name              string
	Description       *string
	Category          *string
	Price             decimal.Decimal
	TaxRate           decimal.Decimal
	EstimatedDuration *int // minutos
	InventoryID       *string
	InventoryQuantity int // unidades que consume del artículo ligado por cada unidad vendida
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
