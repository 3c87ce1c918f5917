package dynamo

import (
	"context"
	"errors"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Store juego completo de repositorios sobre un mismo cliente y prefijo de tablas.
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

// NewStore construye los repositorios.
func NewStore(api API, prefix string) *Store {
	return &Store{
		Users:     NewUserRepository(api, prefix),
		Services:  NewServiceRepository(api, prefix),
		Customers: NewCustomerRepository(api, prefix),
		Vehicles:  NewVehicleRepository(api, prefix),
		Jobs:      NewJobRepository(api, prefix),
		Inventory: NewInventoryRepository(api, prefix),
		Parts:     NewPartRepository(api, prefix),
		MenuItems: NewMenuItemRepository(api, prefix),
		Sales:     NewSaleRepository(api, prefix),
		Invoices:  NewInvoiceRepository(api, prefix),
	}
}

var _ auth.TxRunner = (*Store)(nil)

// RunRegistration ejecuta fn sin transacción. Si fn falla, borra los usuarios que alcanzó a crear.
func (s *Store) RunRegistration(ctx context.Context, fn func(
	users repository.UserRepository,
	services repository.ServiceRepository,
) error) error {
	tracked := &trackedUsers{UserRepo: s.Users}
	err := fn(tracked, s.Services)
	if err == nil {
		return nil
	}
	cleanup := context.WithoutCancel(ctx)
	for _, id := range tracked.created {
		if derr := s.Users.Delete(cleanup, id); derr != nil {
			err = errors.Join(err, derr)
		}
	}
	return err
}

// trackedUsers registra los IDs creados durante el alta.
type trackedUsers struct {
	*UserRepo
	created []string
}

func (t *trackedUsers) Create(ctx context.Context, u *entity.User) error {
	if err := t.UserRepo.Create(ctx, u); err != nil {
		return err
	}
	t.created = append(t.created, u.ID)
	return nil
}
