package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/stock"
)

// Part repuesto del taller. Mismo modelo de existencias que InventoryItem.
type Part struct {
	ID                 string
	ServiceID          string
	Name               string
	PartNumber         *string
	Brand              *string
	Category           *string
	Description        *string
	Quantity           int
	MinStockLevel      *int
	MaxStockLevel      *int
	Price              decimal.Decimal
	Cost               *decimal.Decimal
	Supplier           *string
	Location           *string
	CompatibleVehicles []string
	Status             stock.Status
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Restock recalcula el estado a partir de la cantidad actual.
func (p *Part) Restock() {
	p.Status = stock.DeriveStatus(p.Quantity, p.MinStockLevel, p.Status)
}

// Adjust suma delta a la cantidad (sin bajar de cero) y recalcula el estado.
func (p *Part) Adjust(delta int) {
	p.Quantity = stock.ClampQuantity(p.Quantity, delta)
	p.Restock()
}
