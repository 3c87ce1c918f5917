package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/sales"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

type stubPDF struct{ err error }

func (s stubPDF) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice, _ *entity.Service) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF " + inv.InvoiceNumber), nil
}

type memStorage struct {
	mu   sync.Mutex
	objs map[string][]byte
}

func (m *memStorage) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objs == nil {
		m.objs = map[string][]byte{}
	}
	m.objs[key] = body
	return "https://files.test/" + key, nil
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objs[key]
	if !ok {
		return nil, errors.New("no existe")
	}
	return b, nil
}

// failingInvoices falla al crear facturas para forzar la compensación.
type failingInvoices struct {
	*memory.InvoiceRepo
}

func (failingInvoices) Create(context.Context, *entity.Invoice) error {
	return errors.New("almacén no disponible")
}

type fixture struct {
	st      *memory.Store
	sess    auth.Session
	reg     *prometheus.Registry
	storage *memStorage
	itemID  string
	partID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()
	now := time.Now().UTC()
	svc := &entity.Service{ID: uuid.NewString(), OwnerID: uuid.NewString(), Name: "Taller Sur", InvoiceTerms: 15, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.Services.Create(ctx, svc))
	min := 5
	item := &entity.InventoryItem{ID: uuid.NewString(), ServiceID: svc.ID, Name: "Aceite", Quantity: 10, MinStockLevel: &min, UnitPrice: decimal.NewFromInt(10), CreatedAt: now}
	item.Restock()
	require.NoError(t, st.Inventory.Create(ctx, item))
	part := &entity.Part{ID: uuid.NewString(), ServiceID: svc.ID, Name: "Filtro", Quantity: 4, Price: decimal.NewFromInt(20), CreatedAt: now}
	part.Restock()
	require.NoError(t, st.Parts.Create(ctx, part))
	return &fixture{
		st:      st,
		sess:    auth.Session{UserID: svc.OwnerID, ServiceID: svc.ID, Role: entity.RoleOwner},
		reg:     prometheus.NewRegistry(),
		storage: &memStorage{},
		itemID:  item.ID,
		partID:  part.ID,
	}
}

func (f *fixture) checkout(invoices repository.InvoiceRepository, gen billing.InvoicePDFGenerator) *sales.CheckoutUseCase {
	lines := billing.NewLineResolver(f.st.Inventory, f.st.Parts, f.st.MenuItems)
	return sales.NewCheckoutUseCase(sales.CheckoutDeps{
		Sales:     f.st.Sales,
		Invoices:  invoices,
		Inventory: f.st.Inventory,
		Parts:     f.st.Parts,
		Services:  f.st.Services,
		Customers: f.st.Customers,
		Lines:     lines,
		PDF:       billing.NewPDFUseCase(invoices, f.st.Services, gen, f.storage),
		Metrics:   metrics.NewCheckoutMetrics(f.reg),
	})
}

func (f *fixture) request() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		CustomerName: "Jane Doe",
		Items: []dto.LineItemRequest{
			{ItemType: entity.LineItemInventory, ItemID: f.itemID, Quantity: 2, UnitPrice: decimal.NewFromInt(10), TaxRate: decimal.NewFromInt(5)},
			{ItemType: entity.LineItemPart, ItemID: f.partID, Quantity: 1, UnitPrice: decimal.NewFromInt(20)},
		},
		DiscountRate:  decimal.NewFromInt(10),
		PaymentMethod: entity.PaymentCash,
	}
}

func TestCheckout_TotalesStockYFactura(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.checkout(f.st.Invoices, stubPDF{})

	out, err := uc.Checkout(ctx, f.sess, f.request())
	require.NoError(t, err)
	assert.Empty(t, out.PDFError)

	assert.Equal(t, "40", out.Sale.Subtotal.String())
	assert.Equal(t, "1", out.Sale.TaxAmount.String())
	assert.Equal(t, "4.1", out.Sale.DiscountAmount.String())
	assert.Equal(t, "36.9", out.Sale.Total.String())
	assert.Equal(t, entity.SaleStatusCompleted, out.Sale.Status)
	require.NotNil(t, out.Sale.InvoiceID)
	assert.Equal(t, out.Invoice.ID, *out.Sale.InvoiceID)

	assert.Equal(t, entity.InvoiceStatusPaid, out.Invoice.Status)
	assert.True(t, out.Invoice.Total.Equal(out.Sale.Total))
	require.NotNil(t, out.Invoice.SaleID)
	assert.Equal(t, out.Sale.ID, *out.Invoice.SaleID)
	require.NotNil(t, out.Invoice.PDFURL)
	assert.Contains(t, *out.Invoice.PDFURL, "invoices/"+f.sess.ServiceID)

	item, _ := f.st.Inventory.GetByID(ctx, f.itemID)
	assert.Equal(t, 8, item.Quantity)
	part, _ := f.st.Parts.GetByID(ctx, f.partID)
	assert.Equal(t, 3, part.Quantity)

	n, err := testutil.GatherAndCount(f.reg, "checkout_outcomes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCheckout_FalloDeFacturaCompensa(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.checkout(failingInvoices{f.st.Invoices}, stubPDF{})

	_, err := uc.Checkout(ctx, f.sess, f.request())
	require.Error(t, err)

	item, _ := f.st.Inventory.GetByID(ctx, f.itemID)
	assert.Equal(t, 10, item.Quantity, "el stock vuelve a su valor original")
	part, _ := f.st.Parts.GetByID(ctx, f.partID)
	assert.Equal(t, 4, part.Quantity)

	salesList, _ := f.st.Sales.ListByService(ctx, f.sess.ServiceID)
	assert.Empty(t, salesList, "la venta se elimina")

	assert.Equal(t, 3.0, counterValue(t, f.reg, "checkout_compensations_total"))
}

func TestCheckout_StockInsuficienteCompensaSoloLoRetirado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.checkout(failingInvoices{f.st.Invoices}, stubPDF{})

	req := f.request()
	req.Items[1].Quantity = 9 // solo hay 4 repuestos
	_, err := uc.Checkout(ctx, f.sess, req)
	require.Error(t, err)

	part, _ := f.st.Parts.GetByID(ctx, f.partID)
	assert.Equal(t, 4, part.Quantity)
}

func TestCheckout_FalloDelPDFNoRevierteLaVenta(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.checkout(f.st.Invoices, stubPDF{err: errors.New("fuente no encontrada")})

	out, err := uc.Checkout(ctx, f.sess, f.request())
	require.NoError(t, err)
	assert.Contains(t, out.PDFError, "fuente no encontrada")
	assert.Nil(t, out.Invoice.PDFURL)

	stored, _ := f.st.Invoices.GetByID(ctx, out.Invoice.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.InvoiceStatusPaid, stored.Status)
	item, _ := f.st.Inventory.GetByID(ctx, f.itemID)
	assert.Equal(t, 8, item.Quantity)
}

func TestCheckout_MenuLigadoDescuentaInventario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC()
	menu := &entity.MenuItem{
		ID: uuid.NewString(), ServiceID: f.sess.ServiceID, Name: "Cambio de aceite",
		Price: decimal.NewFromInt(35), TaxRate: decimal.NewFromInt(19),
		InventoryID: &f.itemID, InventoryQuantity: 4, IsActive: true, CreatedAt: now,
	}
	require.NoError(t, f.st.MenuItems.Create(ctx, menu))

	out, err := f.checkout(f.st.Invoices, stubPDF{}).Checkout(ctx, f.sess, dto.CheckoutRequest{
		Items:         []dto.LineItemRequest{{ItemType: entity.LineItemMenu, ItemID: menu.ID, Quantity: 2}},
		PaymentMethod: entity.PaymentCard,
	})
	require.NoError(t, err)
	require.Len(t, out.Sale.Items, 1)
	assert.Equal(t, "Cambio de aceite", out.Sale.Items[0].Description)
	assert.Equal(t, "70", out.Sale.Subtotal.String())
	assert.Equal(t, "13.3", out.Sale.TaxAmount.String())

	item, _ := f.st.Inventory.GetByID(ctx, f.itemID)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "low-stock", string(item.Status))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("métrica %s no registrada", name)
	return 0
}

// concurrentDraw retira stock por otra vía justo antes del primer descuento del checkout.
type concurrentDraw struct {
	*memory.PartRepo
	taken int
	done  bool
}

func (r *concurrentDraw) Modify(ctx context.Context, id string, fn func(*entity.Part) error) (*entity.Part, error) {
	if !r.done {
		r.done = true
		if _, err := r.PartRepo.AdjustQuantity(ctx, id, -r.taken); err != nil {
			return nil, err
		}
	}
	return r.PartRepo.Modify(ctx, id, fn)
}

func TestCheckout_CompensacionUsaLoRetiradoBajoBloqueo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	parts := &concurrentDraw{PartRepo: f.st.Parts, taken: 3}
	uc := sales.NewCheckoutUseCase(sales.CheckoutDeps{
		Sales:     f.st.Sales,
		Invoices:  failingInvoices{f.st.Invoices},
		Inventory: f.st.Inventory,
		Parts:     parts,
		Services:  f.st.Services,
		Customers: f.st.Customers,
		Lines:     billing.NewLineResolver(f.st.Inventory, f.st.Parts, f.st.MenuItems),
	})

	req := f.request()
	req.Items[1].Quantity = 4
	_, err := uc.Checkout(ctx, f.sess, req)
	require.Error(t, err)

	part, err := f.st.Parts.GetByID(ctx, f.partID)
	require.NoError(t, err)
	assert.Equal(t, 1, part.Quantity, "solo se devuelve la unidad que el checkout llegó a retirar")

	item, err := f.st.Inventory.GetByID(ctx, f.itemID)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
}
