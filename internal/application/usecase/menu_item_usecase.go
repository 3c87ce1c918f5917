package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/listing"
	"github.com/jhoicas/Taller-api/internal/application/patch"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// MenuItemUseCase menú de servicios con precio fijo.
type MenuItemUseCase struct {
	repo          repository.MenuItemRepository
	inventoryRepo repository.InventoryRepository
}

// NewMenuItemUseCase construye el caso de uso. inventoryRepo valida el artículo ligado.
func NewMenuItemUseCase(repo repository.MenuItemRepository, inventoryRepo repository.InventoryRepository) *MenuItemUseCase {
	return &MenuItemUseCase{repo: repo, inventoryRepo: inventoryRepo}
}

// Create agrega un ítem al menú.
func (uc *MenuItemUseCase) Create(ctx context.Context, sess auth.Session, in dto.CreateMenuItemRequest) (*dto.MenuItemResponse, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price.IsNegative() || in.TaxRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	invID := patch.Optional(in.InventoryID)
	if err := uc.checkInventory(ctx, sess, invID); err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	qty := in.InventoryQuantity
	if invID != nil && qty == 0 {
		qty = 1
	}
	now := time.Now().UTC()
	m := &entity.MenuItem{
		ID:                uuid.New().String(),
		ServiceID:         sess.ServiceID,
		Name:              name,
		Description:       patch.Optional(in.Description),
		Category:          patch.Optional(in.Category),
		Price:             in.Price,
		TaxRate:           in.TaxRate,
		EstimatedDuration: in.EstimatedDuration,
		InventoryID:       invID,
		InventoryQuantity: qty,
		IsActive:          active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMenuItemResponse(m), nil
}

// GetByID obtiene un ítem del menú.
func (uc *MenuItemUseCase) GetByID(ctx context.Context, sess auth.Session, id string) (*dto.MenuItemResponse, error) {
	m, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return toMenuItemResponse(m), nil
}

// List lista el menú. status acepta active / inactive; category filtra por categoría.
func (uc *MenuItemUseCase) List(ctx context.Context, sess auth.Session, q dto.ListQuery) (*dto.ListResponse[dto.MenuItemResponse], error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByService(ctx, sess.ServiceID)
	if err != nil {
		return nil, err
	}
	list = listing.Filter(list, func(m *entity.MenuItem) bool {
		state := "inactive"
		if m.IsActive {
			state = "active"
		}
		return listing.MatchesSearch(q.Search, &m.Name, m.Description, m.Category) &&
			listing.MatchesOptional(q.Category, m.Category) &&
			listing.MatchesFilter(q.Status, state)
	})
	items := make([]dto.MenuItemResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMenuItemResponse(m))
	}
	return &dto.ListResponse[dto.MenuItemResponse]{Items: items, Total: len(items)}, nil
}

// Update aplica una actualización parcial.
func (uc *MenuItemUseCase) Update(ctx context.Context, sess auth.Session, id string, in dto.UpdateMenuItemRequest) (*dto.MenuItemResponse, error) {
	m, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	patch.String(&m.Name, in.Name)
	patch.OptionalString(&m.Description, in.Description)
	patch.OptionalString(&m.Category, in.Category)
	patch.Set(&m.Price, in.Price)
	patch.Set(&m.TaxRate, in.TaxRate)
	patch.Pointer(&m.EstimatedDuration, in.EstimatedDuration)
	if in.InventoryID != nil {
		invID := patch.Optional(*in.InventoryID)
		if err := uc.checkInventory(ctx, sess, invID); err != nil {
			return nil, err
		}
		m.InventoryID = invID
	}
	patch.Set(&m.InventoryQuantity, in.InventoryQuantity)
	patch.Set(&m.IsActive, in.IsActive)
	if m.Name == "" || m.Price.IsNegative() || m.TaxRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	m.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMenuItemResponse(m), nil
}

// Delete elimina un ítem del menú.
func (uc *MenuItemUseCase) Delete(ctx context.Context, sess auth.Session, id string) error {
	m, err := uc.load(ctx, sess, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, m.ID)
}

func (uc *MenuItemUseCase) load(ctx context.Context, sess auth.Session, id string) (*entity.MenuItem, error) {
	return auth.Owned(ctx, sess, id, uc.repo.GetByID, func(m *entity.MenuItem) string { return m.ServiceID })
}

func (uc *MenuItemUseCase) checkInventory(ctx context.Context, sess auth.Session, id *string) error {
	if id == nil {
		return nil
	}
	_, err := auth.Owned(ctx, sess, *id, uc.inventoryRepo.GetByID, func(i *entity.InventoryItem) string { return i.ServiceID })
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidInput
	}
	return err
}

func toMenuItemResponse(m *entity.MenuItem) *dto.MenuItemResponse {
	return &dto.MenuItemResponse{
		ID:                m.ID,
		ServiceID:         m.ServiceID,
		Name:              m.Name,
		Description:       m.Description,
		Category:          m.Category,
		Price:             m.Price,
		TaxRate:           m.TaxRate,
		EstimatedDuration: m.EstimatedDuration,
		InventoryID:       m.InventoryID,
		InventoryQuantity: m.InventoryQuantity,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
