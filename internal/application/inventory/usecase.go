// Package inventory casos de uso de existencias: artículos de inventario, repuestos y reposición.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/listing"
	"github.com/jhoicas/Taller-api/internal/application/patch"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/domain/stock"
)

// InventoryUseCase CRUD y ajustes de artículos de inventario.
// El estado se recalcula cada vez que cambia la cantidad o el mínimo.
type InventoryUseCase struct {
	repo repository.InventoryRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(repo repository.InventoryRepository) *InventoryUseCase {
	return &InventoryUseCase{repo: repo}
}

// Create registra un artículo.
func (uc *InventoryUseCase) Create(ctx context.Context, sess auth.Session, in dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Quantity < 0 || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Status != "" && !stock.Status(in.Status).Valid() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	item := &entity.InventoryItem{
		ID:            uuid.New().String(),
		ServiceID:     sess.ServiceID,
		Name:          name,
		SKU:           patch.Optional(in.SKU),
		Category:      patch.Optional(in.Category),
		Description:   patch.Optional(in.Description),
		Quantity:      in.Quantity,
		MinStockLevel: in.MinStockLevel,
		MaxStockLevel: in.MaxStockLevel,
		UnitPrice:     in.UnitPrice,
		CostPrice:     in.CostPrice,
		Supplier:      patch.Optional(in.Supplier),
		Location:      patch.Optional(in.Location),
		Status:        stock.Status(in.Status),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	item.Restock()
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toInventoryResponse(item), nil
}

// GetByID obtiene un artículo del taller.
func (uc *InventoryUseCase) GetByID(ctx context.Context, sess auth.Session, id string) (*dto.InventoryResponse, error) {
	item, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(item), nil
}

// List lista los artículos. search busca en nombre, SKU, categoría y proveedor.
func (uc *InventoryUseCase) List(ctx context.Context, sess auth.Session, q dto.ListQuery) (*dto.ListResponse[dto.InventoryResponse], error) {
	list, err := uc.all(ctx, sess)
	if err != nil {
		return nil, err
	}
	list = listing.Filter(list, func(i *entity.InventoryItem) bool {
		return listing.MatchesSearch(q.Search, &i.Name, i.SKU, i.Category, i.Supplier) &&
			listing.MatchesFilter(q.Status, string(i.Status)) &&
			listing.MatchesOptional(q.Category, i.Category)
	})
	items := make([]dto.InventoryResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *toInventoryResponse(i))
	}
	return &dto.ListResponse[dto.InventoryResponse]{Items: items, Total: len(items)}, nil
}

// Update aplica una actualización parcial sobre el registro vigente y recalcula el estado.
// La cantidad solo cambia si la petición la trae; un ajuste concurrente no se pierde.
func (uc *InventoryUseCase) Update(ctx context.Context, sess auth.Session, id string, in dto.UpdateInventoryRequest) (*dto.InventoryResponse, error) {
	if _, err := uc.load(ctx, sess, id); err != nil {
		return nil, err
	}
	item, err := uc.repo.Modify(ctx, id, func(item *entity.InventoryItem) error {
		patch.String(&item.Name, in.Name)
		patch.OptionalString(&item.SKU, in.SKU)
		patch.OptionalString(&item.Category, in.Category)
		patch.OptionalString(&item.Description, in.Description)
		patch.Set(&item.Quantity, in.Quantity)
		patch.Pointer(&item.MinStockLevel, in.MinStockLevel)
		patch.Pointer(&item.MaxStockLevel, in.MaxStockLevel)
		patch.Set(&item.UnitPrice, in.UnitPrice)
		patch.Pointer(&item.CostPrice, in.CostPrice)
		patch.OptionalString(&item.Supplier, in.Supplier)
		patch.OptionalString(&item.Location, in.Location)
		if in.Status != nil {
			st := stock.Status(*in.Status)
			if !st.Valid() {
				return domain.ErrInvalidInput
			}
			item.Status = st
		}
		if item.Name == "" || item.Quantity < 0 || item.UnitPrice.IsNegative() {
			return domain.ErrInvalidInput
		}
		item.Restock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toInventoryResponse(item), nil
}

// Delete elimina un artículo.
func (uc *InventoryUseCase) Delete(ctx context.Context, sess auth.Session, id string) error {
	item, err := uc.load(ctx, sess, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, item.ID)
}

// Adjust suma delta a la cantidad (nunca queda negativa) y devuelve el artículo con su nuevo estado.
func (uc *InventoryUseCase) Adjust(ctx context.Context, sess auth.Session, id string, delta int) (*dto.InventoryResponse, error) {
	if _, err := uc.load(ctx, sess, id); err != nil {
		return nil, err
	}
	item, err := uc.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toInventoryResponse(item), nil
}

// Stats conteo por estado, unidades y valor del inventario.
func (uc *InventoryUseCase) Stats(ctx context.Context, sess auth.Session) (*dto.StockStats, error) {
	list, err := uc.all(ctx, sess)
	if err != nil {
		return nil, err
	}
	out := &dto.StockStats{
		Total:      len(list),
		ByStatus:   listing.CountBy(list, func(i *entity.InventoryItem) string { return string(i.Status) }),
		StockValue: decimal.Zero,
	}
	for _, i := range list {
		out.Units += i.Quantity
		out.StockValue = out.StockValue.Add(i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))))
	}
	out.StockValue = out.StockValue.Round(2)
	return out, nil
}

func (uc *InventoryUseCase) load(ctx context.Context, sess auth.Session, id string) (*entity.InventoryItem, error) {
	return auth.Owned(ctx, sess, id, uc.repo.GetByID, func(i *entity.InventoryItem) string { return i.ServiceID })
}

func (uc *InventoryUseCase) all(ctx context.Context, sess auth.Session) ([]*entity.InventoryItem, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	return uc.repo.ListByService(ctx, sess.ServiceID)
}

func toInventoryResponse(i *entity.InventoryItem) *dto.InventoryResponse {
	return &dto.InventoryResponse{
		ID:            i.ID,
		ServiceID:     i.ServiceID,
		Name:          i.Name,
		SKU:           i.SKU,
		Category:      i.Category,
		Description:   i.Description,
		Quantity:      i.Quantity,
		MinStockLevel: i.MinStockLevel,
		MaxStockLevel: i.MaxStockLevel,
		UnitPrice:     i.UnitPrice,
		CostPrice:     i.CostPrice,
		Supplier:      i.Supplier,
		Location:      i.Location,
		Status:        string(i.Status),
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
