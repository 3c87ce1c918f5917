package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/sales"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Taller-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Taller-api/internal/infrastructure/storage"
	"github.com/jhoicas/Taller-api/internal/infrastructure/stores"
	apphttp "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

// memIdempotency reemplaza a Redis en los tests.
type memIdempotency struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memIdempotency) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memIdempotency) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memIdempotency) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memIdempotency) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memIdempotency) Key(scope, id string) string { return scope + ":" + id }

type apiFixture struct {
	app *fiber.App
	reg *prometheus.Registry
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	repos := stores.FromMemory(memory.NewStore())
	objects, err := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	reg := prometheus.NewRegistry()

	lines := billing.NewLineResolver(repos.Inventory, repos.Parts, repos.MenuItems)
	pdfUC := billing.NewPDFUseCase(repos.Invoices, repos.Services, infrapdf.NewMarotoPDFGenerator(), objects)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(repos.Tx, repos.Users, repos.Services, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		UserUC:        usecase.NewUserUseCase(repos.Users),
		ServiceUC:     usecase.NewServiceUseCase(repos.Services),
		CustomerUC:    usecase.NewCustomerUseCase(repos.Customers, repos.Vehicles, repos.Jobs, repos.Invoices),
		VehicleUC:     usecase.NewVehicleUseCase(repos.Vehicles, repos.Customers),
		JobUC:         usecase.NewJobUseCase(repos.Jobs, repos.Customers, repos.Vehicles),
		MenuItemUC:    usecase.NewMenuItemUseCase(repos.MenuItems, repos.Inventory),
		InventoryUC:   inventory.NewInventoryUseCase(repos.Inventory),
		PartUC:        inventory.NewPartUseCase(repos.Parts),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Inventory, repos.Parts),
		InvoiceUC:     billing.NewInvoiceUseCase(repos.Invoices, repos.Services, repos.Customers, repos.Vehicles, repos.Jobs, lines),
		InvoicePDF:    pdfUC,
		CheckoutUC: sales.NewCheckoutUseCase(sales.CheckoutDeps{
			Sales: repos.Sales, Invoices: repos.Invoices, Inventory: repos.Inventory, Parts: repos.Parts,
			Services: repos.Services, Customers: repos.Customers, Lines: lines, PDF: pdfUC,
		}),
		SaleUC: sales.NewSaleUseCase(repos.Sales),
		DashboardUC: appanalytics.NewDashboardUseCase(appanalytics.Sources{
			Customers: repos.Customers, Vehicles: repos.Vehicles, Jobs: repos.Jobs,
			Inventory: repos.Inventory, Parts: repos.Parts, Sales: repos.Sales, Invoices: repos.Invoices,
		}),
		JWTSecret:   testJWTSecret,
		Registry:    reg,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Idempotency: &memIdempotency{data: map[string]string{}},
	})
	return &apiFixture{app: app, reg: reg}
}

// call envía body como JSON y decodifica la respuesta en out (si no es nil).
func (f *apiFixture) call(t *testing.T, method, path, token string, body any, out any, headers ...string) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func (f *apiFixture) register(t *testing.T, email string) dto.LoginResponse {
	t.Helper()
	var out dto.LoginResponse
	status := f.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": email, "password": "secreto123", "name": "Dueño", "service_name": "Taller " + email,
	}, &out)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, out.Token)
	return out
}

func TestRegistroLoginYMe(t *testing.T) {
	api := newAPI(t)
	reg := api.register(t, "dueno@taller.test")
	assert.Equal(t, "owner", reg.User.Role)
	require.NotNil(t, reg.Service)
	assert.Equal(t, reg.Service.ID, reg.User.ServiceID)

	var dup dto.ErrorResponse
	status := api.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": "DUENO@taller.test", "password": "secreto123", "name": "Otro", "service_name": "Otro",
	}, &dup)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", dup.Code)

	var bad dto.ErrorResponse
	status = api.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "dueno@taller.test", "password": "incorrecta"}, &bad)
	assert.Equal(t, http.StatusUnauthorized, status)

	var login dto.LoginResponse
	status = api.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "dueno@taller.test", "password": "secreto123"}, &login)
	require.Equal(t, http.StatusOK, status)

	var me dto.UserResponse
	status = api.call(t, http.MethodGet, "/api/auth/me", login.Token, nil, &me)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "dueno@taller.test", me.Email)
}

func TestValidacion_CamposConNombreJSON(t *testing.T) {
	api := newAPI(t)
	var out dto.ErrorResponse
	status := api.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{"email": "no-es-email", "password": "corta"}, &out)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Fields, "email")
	assert.Contains(t, out.Fields, "password")
	assert.Contains(t, out.Fields, "service_name")
}

func TestClientes_OpcionalesNulosYAislamientoEntreTalleres(t *testing.T) {
	api := newAPI(t)
	a := api.register(t, "a@taller.test")
	b := api.register(t, "b@taller.test")

	var c dto.CustomerResponse
	status := api.call(t, http.MethodPost, "/api/customers", a.Token, fiber.Map{"name": "Jane Doe"}, &c)
	require.Equal(t, http.StatusCreated, status)
	assert.Nil(t, c.Email)
	assert.Nil(t, c.Phone)
	assert.Nil(t, c.Address)
	assert.Nil(t, c.LastVisit)
	assert.Equal(t, 0, c.JobCount)
	assert.True(t, c.TotalSpent.IsZero())

	var list dto.ListResponse[dto.CustomerResponse]
	status = api.call(t, http.MethodGet, "/api/customers?search=JANE&status=all", a.Token, nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, list.Total)

	var notFound dto.ErrorResponse
	status = api.call(t, http.MethodGet, "/api/customers/"+c.ID, b.Token, nil, &notFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", notFound.Code)

	status = api.call(t, http.MethodGet, "/api/customers", b.Token, nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, list.Total)
}

func TestInventario_AjusteYEstado(t *testing.T) {
	api := newAPI(t)
	owner := api.register(t, "inv@taller.test")

	var item dto.InventoryResponse
	status := api.call(t, http.MethodPost, "/api/inventory", owner.Token, fiber.Map{
		"name": "Pastillas de freno", "quantity": 5, "min_stock_level": 5, "unit_price": 25,
	}, &item)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "low-stock", item.Status)

	status = api.call(t, http.MethodPost, "/api/inventory/"+item.ID+"/adjust", owner.Token, fiber.Map{"delta": 10}, &item)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 15, item.Quantity)
	assert.Equal(t, "active", item.Status)

	status = api.call(t, http.MethodPost, "/api/inventory/"+item.ID+"/adjust", owner.Token, fiber.Map{"delta": -100}, &item)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, "out-of-stock", item.Status)

	var restock []dto.RestockItemDTO
	status = api.call(t, http.MethodGet, "/api/inventory/restock", owner.Token, nil, &restock)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, restock, 1)
	assert.Equal(t, item.ID, restock[0].ID)
}

func TestRutasDeDueno_MiembroRecibe403(t *testing.T) {
	api := newAPI(t)
	owner := api.register(t, "jefe@taller.test")

	var member dto.UserResponse
	status := api.call(t, http.MethodPost, "/api/users", owner.Token, fiber.Map{
		"email": "mecanico@taller.test", "password": "secreto123", "name": "Mecánico", "role": "member",
	}, &member)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, owner.Service.ID, member.ServiceID)

	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, api.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "mecanico@taller.test", "password": "secreto123",
	}, &login))

	var forbidden dto.ErrorResponse
	status = api.call(t, http.MethodPut, "/api/service", login.Token, fiber.Map{"name": "Nuevo nombre"}, &forbidden)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", forbidden.Code)

	var svc dto.ServiceResponse
	status = api.call(t, http.MethodGet, "/api/service", login.Token, nil, &svc)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, owner.Service.ID, svc.ID)
}

func TestCheckout_IdempotenteYConTotales(t *testing.T) {
	api := newAPI(t)
	owner := api.register(t, "caja@taller.test")

	var oil, filter dto.InventoryResponse
	require.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/inventory", owner.Token, fiber.Map{
		"name": "Aceite", "quantity": 10, "min_stock_level": 2, "unit_price": 10,
	}, &oil))
	require.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/inventory", owner.Token, fiber.Map{
		"name": "Filtro", "quantity": 4, "unit_price": 20,
	}, &filter))

	body := fiber.Map{
		"customer_name":  "Jane Doe",
		"payment_method": "cash",
		"discount_rate":  10,
		"items": []fiber.Map{
			{"item_type": "inventory", "item_id": oil.ID, "quantity": 2, "unit_price": 10, "tax_rate": 5},
			{"item_type": "inventory", "item_id": filter.ID, "quantity": 1, "unit_price": 20},
		},
	}

	var missingKey dto.ErrorResponse
	status := api.call(t, http.MethodPost, "/api/sales/checkout", owner.Token, body, &missingKey)
	assert.Equal(t, http.StatusBadRequest, status)

	var first dto.CheckoutResponse
	status = api.call(t, http.MethodPost, "/api/sales/checkout", owner.Token, body, &first, "Idempotency-Key", "venta-1")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "40", first.Sale.Subtotal.String())
	assert.Equal(t, "1", first.Sale.TaxAmount.String())
	assert.Equal(t, "4.1", first.Sale.DiscountAmount.String())
	assert.Equal(t, "36.9", first.Sale.Total.String())
	assert.Equal(t, "paid", first.Invoice.Status)
	assert.NotNil(t, first.Invoice.PDFURL)

	var replay dto.CheckoutResponse
	status = api.call(t, http.MethodPost, "/api/sales/checkout", owner.Token, body, &replay, "Idempotency-Key", "venta-1")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, first.Sale.ID, replay.Sale.ID)

	var item dto.InventoryResponse
	require.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/inventory/"+oil.ID, owner.Token, nil, &item))
	assert.Equal(t, 8, item.Quantity, "la repetición no vuelve a descontar stock")

	var list dto.ListResponse[dto.SaleResponse]
	require.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/sales", owner.Token, nil, &list))
	assert.Equal(t, 1, list.Total)

	var mismatch dto.ErrorResponse
	body["notes"] = "otro cuerpo"
	status = api.call(t, http.MethodPost, "/api/sales/checkout", owner.Token, body, &mismatch, "Idempotency-Key", "venta-1")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "IDEMPOTENCY_MISMATCH", mismatch.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+first.Invoice.ID+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+owner.Token)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	n, err := testutil.GatherAndCount(api.reg, "http_requests_total")
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestCheckout_MismaClaveConcurrenteCobraUnaVez(t *testing.T) {
	api := newAPI(t)
	owner := api.register(t, "doble@taller.test")

	var oil dto.InventoryResponse
	require.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/inventory", owner.Token, fiber.Map{
		"name": "Aceite", "quantity": 100, "unit_price": 10,
	}, &oil))
	raw, err := json.Marshal(fiber.Map{
		"customer_name":  "Jane Doe",
		"payment_method": "cash",
		"items":          []fiber.Map{{"item_type": "inventory", "item_id": oil.ID, "quantity": 1, "unit_price": 10}},
	})
	require.NoError(t, err)

	const clients = 8
	statuses := make(chan int, clients)
	var wg sync.WaitGroup
	for range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/sales/checkout", bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+owner.Token)
			req.Header.Set("Idempotency-Key", "doble-click")
			resp, err := api.app.Test(req, -1)
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)
	for status := range statuses {
		assert.Contains(t, []int{http.StatusCreated, http.StatusConflict}, status)
	}

	var list dto.ListResponse[dto.SaleResponse]
	require.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/sales", owner.Token, nil, &list))
	assert.Equal(t, 1, list.Total)

	var item dto.InventoryResponse
	require.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/inventory/"+oil.ID, owner.Token, nil, &item))
	assert.Equal(t, 99, item.Quantity)
}

func TestMetricas_Expuestas(t *testing.T) {
	api := newAPI(t)
	api.register(t, "metricas@taller.test")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `route="/api/auth/register"`)
}
