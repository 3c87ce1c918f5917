package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// StockDraw unidades que una venta retira de un artículo o repuesto.
type StockDraw struct {
	Kind     string // entity.LineItemInventory | entity.LineItemPart
	ID       string
	Quantity int
}

// LineResolver convierte las líneas recibidas en líneas con precio, completando
// descripción, precio e impuesto desde el catálogo del taller cuando vienen vacíos.
type LineResolver struct {
	inventoryRepo repository.InventoryRepository
	partRepo      repository.PartRepository
	menuRepo      repository.MenuItemRepository
}

// NewLineResolver construye el resolvedor de líneas.
func NewLineResolver(inventoryRepo repository.InventoryRepository, partRepo repository.PartRepository, menuRepo repository.MenuItemRepository) *LineResolver {
	return &LineResolver{inventoryRepo: inventoryRepo, partRepo: partRepo, menuRepo: menuRepo}
}

// Resolve devuelve las líneas (sin totales) y las salidas de stock que implican.
// Un ítem de menú ligado a inventario retira quantity × inventory_quantity unidades de ese artículo.
func (r *LineResolver) Resolve(ctx context.Context, sess auth.Session, reqs []dto.LineItemRequest) ([]entity.LineItem, []StockDraw, error) {
	if len(reqs) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	lines := make([]entity.LineItem, 0, len(reqs))
	var draws []StockDraw
	for i, in := range reqs {
		if in.Quantity <= 0 || in.UnitPrice.IsNegative() || in.TaxRate.IsNegative() {
			return nil, nil, fmt.Errorf("%w: línea %d", domain.ErrInvalidInput, i+1)
		}
		li := entity.LineItem{
			ItemType:    in.ItemType,
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxRate:     in.TaxRate,
		}
		switch in.ItemType {
		case entity.LineItemInventory:
			item, err := resolveRef(ctx, sess, in, i, r.inventoryRepo.GetByID, func(v *entity.InventoryItem) string { return v.ServiceID })
			if err != nil {
				return nil, nil, err
			}
			fill(&li, item.ID, item.Name, item.UnitPrice)
			draws = append(draws, StockDraw{Kind: entity.LineItemInventory, ID: item.ID, Quantity: in.Quantity})
		case entity.LineItemPart:
			part, err := resolveRef(ctx, sess, in, i, r.partRepo.GetByID, func(v *entity.Part) string { return v.ServiceID })
			if err != nil {
				return nil, nil, err
			}
			fill(&li, part.ID, part.Name, part.Price)
			draws = append(draws, StockDraw{Kind: entity.LineItemPart, ID: part.ID, Quantity: in.Quantity})
		case entity.LineItemMenu:
			m, err := resolveRef(ctx, sess, in, i, r.menuRepo.GetByID, func(v *entity.MenuItem) string { return v.ServiceID })
			if err != nil {
				return nil, nil, err
			}
			if !m.IsActive {
				return nil, nil, fmt.Errorf("%w: línea %d: el ítem del menú está inactivo", domain.ErrInvalidInput, i+1)
			}
			fill(&li, m.ID, m.Name, m.Price)
			if li.TaxRate.IsZero() {
				li.TaxRate = m.TaxRate
			}
			if m.InventoryID != nil && m.InventoryQuantity > 0 {
				draws = append(draws, StockDraw{Kind: entity.LineItemInventory, ID: *m.InventoryID, Quantity: in.Quantity * m.InventoryQuantity})
			}
		case entity.LineItemLabor, entity.LineItemCustom:
			if li.Description == "" {
				return nil, nil, fmt.Errorf("%w: línea %d: falta la descripción", domain.ErrInvalidInput, i+1)
			}
		default:
			return nil, nil, fmt.Errorf("%w: línea %d: tipo %q", domain.ErrInvalidInput, i+1, in.ItemType)
		}
		lines = append(lines, li)
	}
	return lines, draws, nil
}

func resolveRef[T any](ctx context.Context, sess auth.Session, in dto.LineItemRequest, idx int,
	get func(context.Context, string) (*T, error), serviceOf func(*T) string,
) (*T, error) {
	if in.ItemID == "" {
		return nil, fmt.Errorf("%w: línea %d: falta item_id", domain.ErrInvalidInput, idx+1)
	}
	rec, err := auth.Owned(ctx, sess, in.ItemID, get, serviceOf)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: línea %d: %s %s no existe", domain.ErrInvalidInput, idx+1, in.ItemType, in.ItemID)
	}
	return rec, err
}

func fill(li *entity.LineItem, id, name string, price decimal.Decimal) {
	li.ItemID = &id
	if li.Description == "" {
		li.Description = name
	}
	if li.UnitPrice.IsZero() {
		li.UnitPrice = price
	}
}

// ToLineResponses mapea las líneas calculadas a DTO.
func ToLineResponses(items []entity.LineItem) []dto.LineItemResponse {
	out := make([]dto.LineItemResponse, 0, len(items))
	for _, li := range items {
		out = append(out, dto.LineItemResponse{
			ItemType:    li.ItemType,
			ItemID:      li.ItemID,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TaxRate:     li.TaxRate,
			Subtotal:    li.Subtotal,
			TaxAmount:   li.TaxAmount,
			Total:       li.Total,
		})
	}
	return out
}
