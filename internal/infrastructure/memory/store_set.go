package memory

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Store agrupa un juego completo de repositorios en memoria.
type Store struct {
	Users     *UserRepo
	Services  *ServiceRepo
	Customers *CustomerRepo
	Vehicles  *VehicleRepo
	Jobs      *JobRepo
	Inventory *InventoryRepo
	Parts     *PartRepo
	MenuItems *MenuItemRepo
	Sales     *SaleRepo
	Invoices  *InvoiceRepo
}

// NewStore crea todos los repositorios vacíos.
func NewStore() *Store {
	return &Store{
		Users:     NewUserRepository(),
		Services:  NewServiceRepository(),
		Customers: NewCustomerRepository(),
		Vehicles:  NewVehicleRepository(),
		Jobs:      NewJobRepository(),
		Inventory: NewInventoryRepository(),
		Parts:     NewPartRepository(),
		MenuItems: NewMenuItemRepository(),
		Sales:     NewSaleRepository(),
		Invoices:  NewInvoiceRepository(),
	}
}

var _ auth.TxRunner = (*Store)(nil)

// RunRegistration ejecuta fn sobre los mismos repositorios (sin aislamiento transaccional).
func (s *Store) RunRegistration(_ context.Context, fn func(
	users repository.UserRepository,
	services repository.ServiceRepository,
) error) error {
	return fn(s.Users, s.Services)
}
