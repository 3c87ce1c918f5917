package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/sales"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	ServiceUC     *usecase.ServiceUseCase
	CustomerUC    *usecase.CustomerUseCase
	VehicleUC     *usecase.VehicleUseCase
	JobUC         *usecase.JobUseCase
	MenuItemUC    *usecase.MenuItemUseCase
	InventoryUC   *inventory.InventoryUseCase
	PartUC        *inventory.PartUseCase
	Replenishment *inventory.ReplenishmentUseCase
	InvoiceUC     *billing.InvoiceUseCase
	InvoicePDF    *billing.PDFUseCase
	CheckoutUC    *sales.CheckoutUseCase
	SaleUC        *sales.SaleUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string

	// Opcionales: sin Registry no se expone /metrics; sin Idempotency el checkout no exige la cabecera.
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics
	Idempotency IdempotencyStore
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	if deps.HTTPMetrics != nil {
		app.Use(MetricsMiddleware(deps.HTTPMetrics))
	}
	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	ownerOnly := RequireRole(entity.RoleOwner)

	protected.Get("/auth/me", authHandler.Me)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", ownerOnly, userHandler.Create)
	users.Delete("/:id", ownerOnly, userHandler.Delete)

	serviceHandler := NewServiceHandler(deps.ServiceUC)
	protected.Get("/service", serviceHandler.Get)
	protected.Put("/service", ownerOnly, serviceHandler.Update)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/stats", customerHandler.Stats)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", ownerOnly, customerHandler.Delete)

	vehicles := protected.Group("/vehicles")
	vehicleHandler := NewVehicleHandler(deps.VehicleUC)
	vehicles.Post("/", vehicleHandler.Create)
	vehicles.Get("/", vehicleHandler.List)
	vehicles.Get("/:id", vehicleHandler.GetByID)
	vehicles.Put("/:id", vehicleHandler.Update)
	vehicles.Delete("/:id", vehicleHandler.Delete)

	jobs := protected.Group("/jobs")
	jobHandler := NewJobHandler(deps.JobUC, deps.InvoiceUC)
	jobs.Get("/stats", jobHandler.Stats)
	jobs.Post("/", jobHandler.Create)
	jobs.Get("/", jobHandler.List)
	jobs.Get("/:id", jobHandler.GetByID)
	jobs.Put("/:id", jobHandler.Update)
	jobs.Patch("/:id/status", jobHandler.UpdateStatus)
	jobs.Post("/:id/invoice", jobHandler.CreateInvoice)
	jobs.Delete("/:id", jobHandler.Delete)

	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.Replenishment)
	inv.Get("/stats", inventoryHandler.Stats)
	inv.Get("/restock", inventoryHandler.GetReplenishmentList)
	inv.Post("/", inventoryHandler.Create)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/:id", inventoryHandler.GetByID)
	inv.Put("/:id", inventoryHandler.Update)
	inv.Post("/:id/adjust", inventoryHandler.Adjust)
	inv.Delete("/:id", inventoryHandler.Delete)

	parts := protected.Group("/parts")
	partHandler := NewPartHandler(deps.PartUC)
	parts.Get("/stats", partHandler.Stats)
	parts.Post("/", partHandler.Create)
	parts.Get("/", partHandler.List)
	parts.Get("/:id", partHandler.GetByID)
	parts.Put("/:id", partHandler.Update)
	parts.Post("/:id/adjust", partHandler.Adjust)
	parts.Delete("/:id", partHandler.Delete)

	menu := protected.Group("/menu-items")
	menuHandler := NewMenuItemHandler(deps.MenuItemUC)
	menu.Post("/", menuHandler.Create)
	menu.Get("/", menuHandler.List)
	menu.Get("/:id", menuHandler.GetByID)
	menu.Put("/:id", menuHandler.Update)
	menu.Delete("/:id", menuHandler.Delete)

	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CheckoutUC, deps.SaleUC)
	salesGroup.Post("/checkout", Idempotency(deps.Idempotency, log.Named("idempotency")), saleHandler.Checkout)
	salesGroup.Get("/stats", saleHandler.Stats)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", ownerOnly, saleHandler.Delete)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices.Get("/stats", invoiceHandler.Stats)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Post("/:id/pdf", invoiceHandler.GeneratePDF)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Delete("/:id", ownerOnly, invoiceHandler.Delete)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
