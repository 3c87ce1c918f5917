package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
)

type fixture struct {
	st       *memory.Store
	sess     auth.Session
	invoices *billing.InvoiceUseCase
	customer *entity.Customer
	job      *entity.Job
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()
	now := time.Now().UTC()
	svc := &entity.Service{ID: uuid.NewString(), OwnerID: uuid.NewString(), Name: "Taller Oeste", InvoiceTerms: 10, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.Services.Create(ctx, svc))
	email := "jane@example.com"
	c := &entity.Customer{ID: uuid.NewString(), ServiceID: svc.ID, Name: "Jane Doe", Email: &email, Status: entity.CustomerStatusActive, CreatedAt: now}
	require.NoError(t, st.Customers.Create(ctx, c))
	v := &entity.Vehicle{ID: uuid.NewString(), ServiceID: svc.ID, CustomerID: c.ID, Make: "Kia", Model: "Rio", CreatedAt: now}
	require.NoError(t, st.Vehicles.Create(ctx, v))
	j := &entity.Job{ID: uuid.NewString(), ServiceID: svc.ID, CustomerID: c.ID, VehicleID: v.ID, Title: "Frenos", Status: entity.JobStatusCompleted, CreatedAt: now}
	require.NoError(t, st.Jobs.Create(ctx, j))

	lines := billing.NewLineResolver(st.Inventory, st.Parts, st.MenuItems)
	return &fixture{
		st:       st,
		sess:     auth.Session{UserID: svc.OwnerID, ServiceID: svc.ID, Role: entity.RoleOwner},
		invoices: billing.NewInvoiceUseCase(st.Invoices, st.Services, st.Customers, st.Vehicles, st.Jobs, lines),
		customer: c,
		job:      j,
	}
}

func labor(desc string, qty int, price int64) dto.LineItemRequest {
	return dto.LineItemRequest{ItemType: entity.LineItemLabor, Description: desc, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func TestCreateFromJob_TomaClienteYVehiculoDeLaOrden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	inv, err := f.invoices.CreateFromJob(ctx, f.sess, f.job.ID, dto.InvoiceFromJobRequest{
		Items: []dto.LineItemRequest{labor("Mano de obra", 2, 25)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "Jane Doe", inv.CustomerName)
	require.NotNil(t, inv.CustomerEmail)
	assert.Equal(t, "jane@example.com", *inv.CustomerEmail)
	require.NotNil(t, inv.JobID)
	assert.Equal(t, f.job.ID, *inv.JobID)
	assert.Equal(t, f.job.VehicleID, *inv.VehicleID)
	assert.True(t, decimal.NewFromInt(50).Equal(inv.Total))
	assert.Contains(t, inv.InvoiceNumber, "INV-")
	assert.Nil(t, inv.DueDate)
}

func TestCreate_SinClienteEsInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.invoices.Create(context.Background(), f.sess, dto.CreateInvoiceRequest{
		Items: []dto.LineItemRequest{labor("Diagnóstico", 1, 30)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_LineaSinDescripcionEsInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.invoices.Create(context.Background(), f.sess, dto.CreateInvoiceRequest{
		CustomerName: "Mostrador",
		Items:        []dto.LineItemRequest{labor("", 1, 30)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_EnviadaCalculaVencimientoYPagadaSumaGasto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv, err := f.invoices.Create(ctx, f.sess, dto.CreateInvoiceRequest{
		CustomerID: f.customer.ID,
		Items:      []dto.LineItemRequest{labor("Alineación", 1, 80)},
	})
	require.NoError(t, err)

	sent, err := f.invoices.UpdateStatus(ctx, f.sess, inv.ID, dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusSent})
	require.NoError(t, err)
	require.NotNil(t, sent.DueDate)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 10), *sent.DueDate, time.Minute)

	_, err = f.invoices.Update(ctx, f.sess, inv.ID, dto.UpdateInvoiceRequest{Items: &[]dto.LineItemRequest{labor("Otra", 1, 1)}})
	assert.ErrorIs(t, err, domain.ErrConflict, "las líneas solo cambian en borrador")

	paid, err := f.invoices.UpdateStatus(ctx, f.sess, inv.ID, dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusPaid, PaymentMethod: entity.PaymentTransfer})
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, entity.PaymentTransfer, *paid.PaymentMethod)

	c, err := f.st.Customers.GetByID(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(80).Equal(c.TotalSpent))

	_, err = f.invoices.UpdateStatus(ctx, f.sess, inv.ID, dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusDraft})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, f.invoices.Delete(ctx, f.sess, inv.ID), domain.ErrConflict)
}

func TestMarkOverdue_SoloEnviadasVencidas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	past := time.Now().UTC().AddDate(0, 0, -3)
	future := time.Now().UTC().AddDate(0, 0, 3)

	late, err := f.invoices.Create(ctx, f.sess, dto.CreateInvoiceRequest{
		CustomerName: "A", Status: entity.InvoiceStatusSent, DueDate: &past,
		Items: []dto.LineItemRequest{labor("x", 1, 10)},
	})
	require.NoError(t, err)
	onTime, err := f.invoices.Create(ctx, f.sess, dto.CreateInvoiceRequest{
		CustomerName: "B", Status: entity.InvoiceStatusSent, DueDate: &future,
		Items: []dto.LineItemRequest{labor("x", 1, 10)},
	})
	require.NoError(t, err)
	draft, err := f.invoices.Create(ctx, f.sess, dto.CreateInvoiceRequest{
		CustomerName: "C", DueDate: &past,
		Items: []dto.LineItemRequest{labor("x", 1, 10)},
	})
	require.NoError(t, err)

	n, err := billing.NewOverdueUseCase(f.st.Invoices).MarkOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	get := func(id string) string {
		out, err := f.invoices.GetByID(ctx, f.sess, id)
		require.NoError(t, err)
		return out.Status
	}
	assert.Equal(t, entity.InvoiceStatusOverdue, get(late.ID))
	assert.Equal(t, entity.InvoiceStatusSent, get(onTime.ID))
	assert.Equal(t, entity.InvoiceStatusDraft, get(draft.ID))

	stats, err := f.invoices.Stats(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.True(t, decimal.NewFromInt(20).Equal(stats.Outstanding))
}

// payingRepo cobra las facturas justo después de listarlas, como un pago que entra durante el barrido.
type payingRepo struct {
	*memory.InvoiceRepo
}

func (r payingRepo) ListDue(ctx context.Context, now time.Time) ([]*entity.Invoice, error) {
	due, err := r.InvoiceRepo.ListDue(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, inv := range due {
		current, err := r.GetByID(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		current.Status = entity.InvoiceStatusPaid
		if err := r.Update(ctx, current); err != nil {
			return nil, err
		}
	}
	return due, nil
}

func TestMarkOverdue_NoRevierteFacturaCobradaDuranteElBarrido(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	past := time.Now().UTC().AddDate(0, 0, -3)

	inv, err := f.invoices.Create(ctx, f.sess, dto.CreateInvoiceRequest{
		CustomerName: "A", Status: entity.InvoiceStatusSent, DueDate: &past,
		Items: []dto.LineItemRequest{labor("x", 1, 10)},
	})
	require.NoError(t, err)

	n, err := billing.NewOverdueUseCase(payingRepo{f.st.Invoices}).MarkOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	out, err := f.invoices.GetByID(ctx, f.sess, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, out.Status)
}
