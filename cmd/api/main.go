package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	appanalytics "github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/sales"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/infrastructure/cache"
	"github.com/jhoicas/Taller-api/internal/infrastructure/dynamo"
	infrapdf "github.com/jhoicas/Taller-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Taller-api/internal/infrastructure/storage"
	"github.com/jhoicas/Taller-api/internal/infrastructure/stores"
	httpRouter "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/internal/scheduler"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// La config de AWS solo se carga si algún componente (DynamoDB, S3) la necesita.
	awsCfg := sync.OnceValues(func() (aws.Config, error) {
		return dynamo.LoadAWSConfig(ctx, cfg.AWS)
	})

	repos, err := stores.Open(ctx, cfg, awsCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("repositorios")
	}
	defer repos.Close()

	objects, err := openStorage(cfg, awsCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de archivos")
	}

	var registry *prometheus.Registry
	var registerer prometheus.Registerer
	if cfg.App.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		registerer = registry
	}

	var idempotency httpRouter.IdempotencyStore
	if cfg.Redis.URL != "" {
		store, err := cache.New(ctx, cfg.Redis.URL, cfg.Redis.KeyPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer store.Close()
		idempotency = store
	} else {
		log.Warn().Msg("REDIS_URL vacío: checkout sin control de idempotencia")
	}

	lines := billing.NewLineResolver(repos.Inventory, repos.Parts, repos.MenuItems)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(repos.Invoices, repos.Services, pdfGenerator, objects)
	invoiceUC := billing.NewInvoiceUseCase(repos.Invoices, repos.Services, repos.Customers, repos.Vehicles, repos.Jobs, lines)
	checkoutUC := sales.NewCheckoutUseCase(sales.CheckoutDeps{
		Sales:     repos.Sales,
		Invoices:  repos.Invoices,
		Inventory: repos.Inventory,
		Parts:     repos.Parts,
		Services:  repos.Services,
		Customers: repos.Customers,
		Lines:     lines,
		PDF:       invoicePDFUC,
		Metrics:   metrics.NewCheckoutMetrics(registerer),
		Logger:    log,
	})
	dashboardUC := appanalytics.NewDashboardUseCase(appanalytics.Sources{
		Customers: repos.Customers,
		Vehicles:  repos.Vehicles,
		Jobs:      repos.Jobs,
		Inventory: repos.Inventory,
		Parts:     repos.Parts,
		Sales:     repos.Sales,
		Invoices:  repos.Invoices,
	})
	authUC := auth.NewAuthUseCase(repos.Tx, repos.Users, repos.Services, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	jobs := scheduler.New(log, metrics.NewCronJobMetrics(registerer))
	if cfg.Scheduler.OverdueCron != "" {
		overdue := scheduler.NewOverdueJob(billing.NewOverdueUseCase(repos.Invoices), log.Named("overdue"))
		if err := jobs.Add(cfg.Scheduler.OverdueCron, overdue); err != nil {
			log.Fatal().Err(err).Msg("programar barrido de facturas vencidas")
		}
	}
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Named("http")),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Taller API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(repos.Users),
		ServiceUC:     usecase.NewServiceUseCase(repos.Services),
		CustomerUC:    usecase.NewCustomerUseCase(repos.Customers, repos.Vehicles, repos.Jobs, repos.Invoices),
		VehicleUC:     usecase.NewVehicleUseCase(repos.Vehicles, repos.Customers),
		JobUC:         usecase.NewJobUseCase(repos.Jobs, repos.Customers, repos.Vehicles),
		MenuItemUC:    usecase.NewMenuItemUseCase(repos.MenuItems, repos.Inventory),
		InventoryUC:   inventory.NewInventoryUseCase(repos.Inventory),
		PartUC:        inventory.NewPartUseCase(repos.Parts),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Inventory, repos.Parts),
		InvoiceUC:     invoiceUC,
		InvoicePDF:    invoicePDFUC,
		CheckoutUC:    checkoutUC,
		SaleUC:        sales.NewSaleUseCase(repos.Sales),
		DashboardUC:   dashboardUC,
		JWTSecret:     cfg.JWT.Secret,
		Registry:      registry,
		HTTPMetrics:   metrics.NewHTTPMetrics(registerer),
		Idempotency:   idempotency,
		Logger:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	jobs.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}

func openStorage(cfg *config.Config, awsCfg func() (aws.Config, error)) (billing.ObjectStorage, error) {
	if cfg.Storage.Driver == "s3" {
		ac, err := awsCfg()
		if err != nil {
			return nil, err
		}
		return storage.NewS3(storage.NewS3Client(ac, cfg.Storage), cfg.Storage.Bucket, cfg.AWS.Region, cfg.Storage.PublicBaseURL), nil
	}
	local, err := storage.NewLocal(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("directorio local %s: %w", cfg.Storage.LocalDir, err)
	}
	return local, nil
}
