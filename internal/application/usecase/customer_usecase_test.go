package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
)

// newTenant crea un taller vacío y la sesión de su dueño.
func newTenant(t *testing.T, st *memory.Store) auth.Session {
	t.Helper()
	now := time.Now().UTC()
	svc := &entity.Service{
		ID:           uuid.NewString(),
		OwnerID:      uuid.NewString(),
		Name:         "Taller Centro",
		Currency:     "USD",
		InvoiceTerms: 30,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Services.Create(context.Background(), svc))
	return auth.Session{UserID: svc.OwnerID, ServiceID: svc.ID, Role: entity.RoleOwner}
}

func newCustomerUseCase(st *memory.Store) *usecase.CustomerUseCase {
	return usecase.NewCustomerUseCase(st.Customers, st.Vehicles, st.Jobs, st.Invoices)
}

func TestCustomerCreate_OpcionalesVaciosQuedanNull(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newTenant(t, st)
	uc := newCustomerUseCase(st)

	out, err := uc.Create(ctx, sess, dto.CreateCustomerRequest{Name: "Jane Doe", Email: "", Phone: "  "})
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Jane Doe", out.Name)
	assert.Nil(t, out.Email)
	assert.Nil(t, out.Phone)
	assert.Nil(t, out.Address)
	assert.Nil(t, out.CompanyName)
	assert.Nil(t, out.LastVisit)
	assert.Equal(t, 0, out.JobCount)
	assert.True(t, out.TotalSpent.IsZero())
	assert.Equal(t, entity.CustomerTypeIndividual, out.CustomerType)
	assert.Equal(t, entity.CustomerStatusActive, out.Status)
	assert.Equal(t, sess.ServiceID, out.ServiceID)
	assert.Equal(t, time.UTC, out.CreatedAt.Location())
}

func TestCustomerGet_OtroTallerEsNoEncontrado(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	owner := newTenant(t, st)
	intruder := newTenant(t, st)
	uc := newCustomerUseCase(st)

	c, err := uc.Create(ctx, owner, dto.CreateCustomerRequest{Name: "Jane Doe"})
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, intruder, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Update(ctx, intruder, c.ID, dto.UpdateCustomerRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Delete(ctx, intruder, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, intruder, dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
}

func TestCustomerList_BusquedaYFiltros(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newTenant(t, st)
	uc := newCustomerUseCase(st)

	_, err := uc.Create(ctx, sess, dto.CreateCustomerRequest{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, sess, dto.CreateCustomerRequest{Name: "Flota Andina", CustomerType: entity.CustomerTypeBusiness, CompanyName: "Andina SAS"})
	require.NoError(t, err)

	all, err := uc.List(ctx, sess, dto.ListQuery{Search: "", Status: "all", Type: "all"})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	byEmail, err := uc.List(ctx, sess, dto.ListQuery{Search: "EXAMPLE"})
	require.NoError(t, err)
	require.Equal(t, 1, byEmail.Total)
	assert.Equal(t, "Jane Doe", byEmail.Items[0].Name)

	business, err := uc.List(ctx, sess, dto.ListQuery{Type: entity.CustomerTypeBusiness})
	require.NoError(t, err)
	require.Equal(t, 1, business.Total)
	assert.Equal(t, "Flota Andina", business.Items[0].Name)
}

func TestCustomerUpdate_VacioBorraOpcional(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newTenant(t, st)
	uc := newCustomerUseCase(st)

	c, err := uc.Create(ctx, sess, dto.CreateCustomerRequest{Name: "Jane Doe", Phone: "555-0101"})
	require.NoError(t, err)
	require.NotNil(t, c.Phone)

	empty := ""
	inactive := entity.CustomerStatusInactive
	out, err := uc.Update(ctx, sess, c.ID, dto.UpdateCustomerRequest{Phone: &empty, Status: &inactive})
	require.NoError(t, err)
	assert.Nil(t, out.Phone)
	assert.Equal(t, "Jane Doe", out.Name)
	assert.Equal(t, entity.CustomerStatusInactive, out.Status)
}

func TestCustomerDelete_InformaHuerfanos(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newTenant(t, st)
	customers := newCustomerUseCase(st)
	vehicles := usecase.NewVehicleUseCase(st.Vehicles, st.Customers)
	jobs := usecase.NewJobUseCase(st.Jobs, st.Customers, st.Vehicles)

	c, err := customers.Create(ctx, sess, dto.CreateCustomerRequest{Name: "Jane Doe"})
	require.NoError(t, err)
	v, err := vehicles.Create(ctx, sess, dto.CreateVehicleRequest{CustomerID: c.ID, Make: "Toyota", Model: "Corolla"})
	require.NoError(t, err)
	_, err = jobs.Create(ctx, sess, dto.CreateJobRequest{CustomerID: c.ID, VehicleID: v.ID, Title: "Cambio de aceite"})
	require.NoError(t, err)

	out, err := customers.Delete(ctx, sess, c.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"vehicles": 1, "jobs": 1, "invoices": 0}, out.Orphaned)

	_, err = customers.GetByID(ctx, sess, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = vehicles.GetByID(ctx, sess, v.ID)
	assert.NoError(t, err, "el vehículo se conserva")
}

func TestCustomerStats(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	sess := newTenant(t, st)
	uc := newCustomerUseCase(st)

	_, err := uc.Create(ctx, sess, dto.CreateCustomerRequest{Name: "Jane Doe"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, sess, dto.CreateCustomerRequest{Name: "Flota Andina", CustomerType: entity.CustomerTypeBusiness})
	require.NoError(t, err)

	stats, err := uc.Stats(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Business)
}
