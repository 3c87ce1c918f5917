package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/domain/stock"
)

// Tipos de existencia en la lista de reposición.
const (
	KindInventory = "inventory"
	KindPart      = "part"
)

// ReplenishmentUseCase genera la lista de reposición del taller a partir de inventario y repuestos.
type ReplenishmentUseCase struct {
	inventoryRepo repository.InventoryRepository
	partRepo      repository.PartRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(inventoryRepo repository.InventoryRepository, partRepo repository.PartRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{inventoryRepo: inventoryRepo, partRepo: partRepo}
}

// GenerateReplenishmentList devuelve los artículos y repuestos activos en o bajo su mínimo (o agotados)
// con la cantidad sugerida de pedido. Los inactivos no se sugieren.
// Orden: agotados primero, luego mayor déficit frente al mínimo.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, sess auth.Session) ([]dto.RestockItemDTO, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	items, err := uc.inventoryRepo.ListByService(ctx, sess.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("reposición: inventario: %w", err)
	}
	parts, err := uc.partRepo.ListByService(ctx, sess.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("reposición: repuestos: %w", err)
	}

	out := make([]dto.RestockItemDTO, 0)
	for _, i := range items {
		if i.Status == stock.StatusInactive || !stock.BelowMinimum(i.Quantity, i.MinStockLevel) {
			continue
		}
		out = append(out, suggestion(KindInventory, i.ID, i.Name, i.SKU, i.Quantity, i.MinStockLevel, i.MaxStockLevel, i.CostPrice, i.Status))
	}
	for _, p := range parts {
		if p.Status == stock.StatusInactive || !stock.BelowMinimum(p.Quantity, p.MinStockLevel) {
			continue
		}
		out = append(out, suggestion(KindPart, p.ID, p.Name, p.PartNumber, p.Quantity, p.MinStockLevel, p.MaxStockLevel, p.Cost, p.Status))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Quantity == 0) != (b.Quantity == 0) {
			return a.Quantity == 0
		}
		return deficit(a) > deficit(b)
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

func suggestion(kind, id, name string, ref *string, qty int, min, max *int, cost *decimal.Decimal, status stock.Status) dto.RestockItemDTO {
	s := dto.RestockItemDTO{
		Kind:          kind,
		ID:            id,
		Name:          name,
		Quantity:      qty,
		MinStockLevel: min,
		MaxStockLevel: max,
		SuggestedQty:  stock.SuggestedOrder(qty, min, max),
		Status:        string(status),
	}
	if ref != nil {
		s.Reference = *ref
	}
	if cost != nil {
		c := cost.Mul(decimal.NewFromInt(int64(s.SuggestedQty))).Round(2)
		s.EstimatedCost = &c
	}
	return s
}

func deficit(s dto.RestockItemDTO) int {
	if s.MinStockLevel == nil {
		return 0
	}
	return *s.MinStockLevel - s.Quantity
}
