// Package stores abre el juego de repositorios del backend elegido con STORE_DRIVER.
package stores

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/dynamo"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Taller-api/pkg/config"
)

// Repositories repositorios de todas las entidades más el ejecutor del registro.
type Repositories struct {
	Tx        auth.TxRunner
	Users     repository.UserRepository
	Services  repository.ServiceRepository
	Customers repository.CustomerRepository
	Vehicles  repository.VehicleRepository
	Jobs      repository.JobRepository
	Inventory repository.InventoryRepository
	Parts     repository.PartRepository
	MenuItems repository.MenuItemRepository
	Sales     repository.SaleRepository
	Invoices  repository.InvoiceRepository

	closeFn func()
}

// Close libera las conexiones del backend.
func (r *Repositories) Close() {
	if r.closeFn != nil {
		r.closeFn()
	}
}

// FromMemory envuelve un store en memoria (tests y STORE_DRIVER=memory).
func FromMemory(s *memory.Store) *Repositories {
	return &Repositories{
		Tx: s, Users: s.Users, Services: s.Services, Customers: s.Customers, Vehicles: s.Vehicles,
		Jobs: s.Jobs, Inventory: s.Inventory, Parts: s.Parts, MenuItems: s.MenuItems,
		Sales: s.Sales, Invoices: s.Invoices,
	}
}

// Open conecta al backend configurado. awsCfg solo se invoca con dynamodb.
func Open(ctx context.Context, cfg *config.Config, awsCfg func() (aws.Config, error)) (*Repositories, error) {
	switch cfg.App.StoreDriver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Repositories{
			Tx:        postgres.NewTxRunner(pool),
			Users:     postgres.NewUserRepository(pool),
			Services:  postgres.NewServiceRepository(pool),
			Customers: postgres.NewCustomerRepository(pool),
			Vehicles:  postgres.NewVehicleRepository(pool),
			Jobs:      postgres.NewJobRepository(pool),
			Inventory: postgres.NewInventoryRepository(pool),
			Parts:     postgres.NewPartRepository(pool),
			MenuItems: postgres.NewMenuItemRepository(pool),
			Sales:     postgres.NewSaleRepository(pool),
			Invoices:  postgres.NewInvoiceRepository(pool),
			closeFn:   pool.Close,
		}, nil
	case "dynamodb":
		ac, err := awsCfg()
		if err != nil {
			return nil, err
		}
		s := dynamo.NewStore(dynamo.NewClient(ac, cfg.Dynamo), cfg.Dynamo.TablePrefix)
		return &Repositories{
			Tx: s, Users: s.Users, Services: s.Services, Customers: s.Customers, Vehicles: s.Vehicles,
			Jobs: s.Jobs, Inventory: s.Inventory, Parts: s.Parts, MenuItems: s.MenuItems,
			Sales: s.Sales, Invoices: s.Invoices,
		}, nil
	case "memory":
		return FromMemory(memory.NewStore()), nil
	}
	return nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.App.StoreDriver)
}
