package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
)

func newSession(t *testing.T, st *memory.Store) auth.Session {
	t.Helper()
	now := time.Now().UTC()
	svc := &entity.Service{ID: uuid.NewString(), OwnerID: uuid.NewString(), Name: "Taller Norte", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.Services.Create(context.Background(), svc))
	return auth.Session{UserID: svc.OwnerID, ServiceID: svc.ID, Role: entity.RoleOwner}
}

func intPtr(v int) *int { return &v }

func TestInventoryAdjust_BajoActivoAgotado(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newSession(t, st)
	uc := inventory.NewInventoryUseCase(st.Inventory)

	item, err := uc.Create(ctx, sess, dto.CreateInventoryRequest{
		Name:          "Aceite 5W-30",
		Quantity:      5,
		MinStockLevel: intPtr(5),
		UnitPrice:     decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	assert.Equal(t, "low-stock", item.Status)

	item, err = uc.Adjust(ctx, sess, item.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 15, item.Quantity)
	assert.Equal(t, "active", item.Status)

	item, err = uc.Adjust(ctx, sess, item.ID, -100)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, "out-of-stock", item.Status)
}

func TestInventoryAdjust_OtroTallerEsNoEncontrado(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	owner := newSession(t, st)
	intruder := newSession(t, st)
	uc := inventory.NewInventoryUseCase(st.Inventory)

	item, err := uc.Create(ctx, owner, dto.CreateInventoryRequest{Name: "Filtro", Quantity: 3})
	require.NoError(t, err)

	_, err = uc.Adjust(ctx, intruder, item.ID, -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := st.Inventory.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity, "el ajuste rechazado no toca el stock")
}

func TestInventoryUpdate_InactivoSeConservaConStock(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newSession(t, st)
	uc := inventory.NewInventoryUseCase(st.Inventory)

	item, err := uc.Create(ctx, sess, dto.CreateInventoryRequest{Name: "Refrigerante", Quantity: 20, MinStockLevel: intPtr(5)})
	require.NoError(t, err)

	inactive := "inactive"
	out, err := uc.Update(ctx, sess, item.ID, dto.UpdateInventoryRequest{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "inactive", out.Status)

	zero := 0
	out, err = uc.Update(ctx, sess, item.ID, dto.UpdateInventoryRequest{Quantity: &zero})
	require.NoError(t, err)
	assert.Equal(t, "out-of-stock", out.Status)
}

func TestInventoryStatsYFiltros(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newSession(t, st)
	uc := inventory.NewInventoryUseCase(st.Inventory)

	_, err := uc.Create(ctx, sess, dto.CreateInventoryRequest{Name: "Aceite", Category: "Lubricantes", Quantity: 10, UnitPrice: decimal.NewFromInt(3)})
	require.NoError(t, err)
	_, err = uc.Create(ctx, sess, dto.CreateInventoryRequest{Name: "Trapo", Quantity: 0, UnitPrice: decimal.NewFromInt(1)})
	require.NoError(t, err)

	stats, err := uc.Stats(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 10, stats.Units)
	assert.True(t, decimal.NewFromInt(30).Equal(stats.StockValue))
	assert.Equal(t, 1, stats.ByStatus["out-of-stock"])

	list, err := uc.List(ctx, sess, dto.ListQuery{Category: "lubricantes"})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Aceite", list.Items[0].Name)
}

func TestPartAdjust_NuncaNegativo(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newSession(t, st)
	uc := inventory.NewPartUseCase(st.Parts)

	p, err := uc.Create(ctx, sess, dto.CreatePartRequest{
		Name: "Pastillas de freno", Quantity: 2, Price: decimal.NewFromInt(40),
		CompatibleVehicles: []string{"Mazda 3", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mazda 3"}, p.CompatibleVehicles)

	p, err = uc.Adjust(ctx, sess, p.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, "out-of-stock", p.Status)

	found, err := uc.List(ctx, sess, dto.ListQuery{Search: "mazda"})
	require.NoError(t, err)
	assert.Equal(t, 1, found.Total)
}

func TestReplenishment_AgotadosPrimero(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newSession(t, st)
	items := inventory.NewInventoryUseCase(st.Inventory)
	parts := inventory.NewPartUseCase(st.Parts)

	_, err := items.Create(ctx, sess, dto.CreateInventoryRequest{Name: "Aceite", Quantity: 2, MinStockLevel: intPtr(5), MaxStockLevel: intPtr(20)})
	require.NoError(t, err)
	_, err = items.Create(ctx, sess, dto.CreateInventoryRequest{Name: "Grasa", Quantity: 50, MinStockLevel: intPtr(5)})
	require.NoError(t, err)
	cost := decimal.NewFromInt(10)
	_, err = parts.Create(ctx, sess, dto.CreatePartRequest{Name: "Bujía", Quantity: 0, MinStockLevel: intPtr(4), Cost: &cost})
	require.NoError(t, err)

	list, err := inventory.NewReplenishmentUseCase(st.Inventory, st.Parts).GenerateReplenishmentList(ctx, sess)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Bujía", list[0].Name)
	assert.Equal(t, inventory.KindPart, list[0].Kind)
	assert.Equal(t, 8, list[0].SuggestedQty)
	require.NotNil(t, list[0].EstimatedCost)
	assert.True(t, decimal.NewFromInt(80).Equal(*list[0].EstimatedCost))
	assert.Equal(t, 1, list[0].Priority)

	assert.Equal(t, "Aceite", list[1].Name)
	assert.Equal(t, 18, list[1].SuggestedQty)
	assert.Equal(t, 2, list[1].Priority)
}

// adjustAfterRead descuenta stock justo después de la primera lectura, como un checkout concurrente.
type adjustAfterRead struct {
	*memory.InventoryRepo
	delta int
	done  bool
}

func (r *adjustAfterRead) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	item, err := r.InventoryRepo.GetByID(ctx, id)
	if err != nil || item == nil || r.done {
		return item, err
	}
	r.done = true
	if _, err := r.AdjustQuantity(ctx, id, r.delta); err != nil {
		return nil, err
	}
	return item, nil
}

func TestInventoryUpdate_SinCantidadNoPisaAjusteConcurrente(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newSession(t, st)

	item, err := inventory.NewInventoryUseCase(st.Inventory).Create(ctx, sess, dto.CreateInventoryRequest{
		Name: "Aceite", Quantity: 10, UnitPrice: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	uc := inventory.NewInventoryUseCase(&adjustAfterRead{InventoryRepo: st.Inventory, delta: -3})
	name := "Aceite sintético"
	out, err := uc.Update(ctx, sess, item.ID, dto.UpdateInventoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Aceite sintético", out.Name)
	assert.Equal(t, 7, out.Quantity)

	stored, err := st.Inventory.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Quantity)
}

func TestInventory_EstadoDesconocidoEsInvalido(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newSession(t, st)
	uc := inventory.NewInventoryUseCase(st.Inventory)

	_, err := uc.Create(ctx, sess, dto.CreateInventoryRequest{Name: "Filtro", Quantity: 3, Status: "discontinued"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	item, err := uc.Create(ctx, sess, dto.CreateInventoryRequest{Name: "Filtro", Quantity: 3})
	require.NoError(t, err)
	bad := "discontinued"
	_, err = uc.Update(ctx, sess, item.ID, dto.UpdateInventoryRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, err := st.Inventory.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", string(stored.Status), "un parche rechazado no se escribe")
}
