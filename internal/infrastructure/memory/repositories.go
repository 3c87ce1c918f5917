package memory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var (
	_ repository.UserRepository      = (*UserRepo)(nil)
	_ repository.ServiceRepository   = (*ServiceRepo)(nil)
	_ repository.CustomerRepository  = (*CustomerRepo)(nil)
	_ repository.VehicleRepository   = (*VehicleRepo)(nil)
	_ repository.JobRepository       = (*JobRepo)(nil)
	_ repository.InventoryRepository = (*InventoryRepo)(nil)
	_ repository.PartRepository      = (*PartRepo)(nil)
	_ repository.MenuItemRepository  = (*MenuItemRepo)(nil)
	_ repository.SaleRepository      = (*SaleRepo)(nil)
	_ repository.InvoiceRepository   = (*InvoiceRepo)(nil)
)

// UserRepo usuarios en memoria.
type UserRepo struct{ *collection[entity.User] }

func NewUserRepository() *UserRepo {
	return &UserRepo{newCollection(
		func(u *entity.User) string { return u.ID },
		func(u *entity.User) time.Time { return u.CreatedAt },
	)}
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	if existing, _ := r.GetByEmail(ctx, u.Email); existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	return r.collection.Create(ctx, u)
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	list := r.where(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *UserRepo) ListByService(_ context.Context, serviceID string) ([]*entity.User, error) {
	return r.where(func(u *entity.User) bool { return u.ServiceID == serviceID }), nil
}

// ServiceRepo talleres en memoria.
type ServiceRepo struct{ *collection[entity.Service] }

func NewServiceRepository() *ServiceRepo {
	return &ServiceRepo{newCollection(
		func(s *entity.Service) string { return s.ID },
		func(s *entity.Service) time.Time { return s.CreatedAt },
	)}
}

func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	if existing, _ := r.GetByOwner(ctx, s.OwnerID); existing != nil {
		return domain.ErrServiceAlreadyExists
	}
	return r.collection.Create(ctx, s)
}

func (r *ServiceRepo) GetByOwner(_ context.Context, ownerID string) (*entity.Service, error) {
	list := r.where(func(s *entity.Service) bool { return s.OwnerID == ownerID })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ *collection[entity.Customer] }

func NewCustomerRepository() *CustomerRepo {
	return &CustomerRepo{newCollection(
		func(c *entity.Customer) string { return c.ID },
		func(c *entity.Customer) time.Time { return c.CreatedAt },
	)}
}

func (r *CustomerRepo) ListByService(_ context.Context, serviceID string) ([]*entity.Customer, error) {
	return r.where(func(c *entity.Customer) bool { return c.ServiceID == serviceID }), nil
}

func (r *CustomerRepo) RecordVisit(_ context.Context, id string, at time.Time) error {
	_, err := r.mutate(id, func(c *entity.Customer) error {
		c.JobCount++
		c.LastVisit = &at
		c.UpdatedAt = at
		return nil
	})
	return err
}

func (r *CustomerRepo) AddSpent(_ context.Context, id string, amount decimal.Decimal) error {
	_, err := r.mutate(id, func(c *entity.Customer) error {
		c.TotalSpent = c.TotalSpent.Add(amount)
		return nil
	})
	return err
}

// VehicleRepo vehículos en memoria.
type VehicleRepo struct{ *collection[entity.Vehicle] }

func NewVehicleRepository() *VehicleRepo {
	return &VehicleRepo{newCollection(
		func(v *entity.Vehicle) string { return v.ID },
		func(v *entity.Vehicle) time.Time { return v.CreatedAt },
	)}
}

func (r *VehicleRepo) ListByService(_ context.Context, serviceID string) ([]*entity.Vehicle, error) {
	return r.where(func(v *entity.Vehicle) bool { return v.ServiceID == serviceID }), nil
}

func (r *VehicleRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Vehicle, error) {
	return r.where(func(v *entity.Vehicle) bool { return v.CustomerID == customerID }), nil
}

// JobRepo órdenes en memoria.
type JobRepo struct{ *collection[entity.Job] }

func NewJobRepository() *JobRepo {
	return &JobRepo{newCollection(
		func(j *entity.Job) string { return j.ID },
		func(j *entity.Job) time.Time { return j.CreatedAt },
	)}
}

func (r *JobRepo) ListByService(_ context.Context, serviceID string) ([]*entity.Job, error) {
	return r.where(func(j *entity.Job) bool { return j.ServiceID == serviceID }), nil
}

func (r *JobRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Job, error) {
	return r.where(func(j *entity.Job) bool { return j.CustomerID == customerID }), nil
}

func (r *JobRepo) ListByVehicle(_ context.Context, vehicleID string) ([]*entity.Job, error) {
	return r.where(func(j *entity.Job) bool { return j.VehicleID == vehicleID }), nil
}

// InventoryRepo inventario en memoria.
type InventoryRepo struct{ *collection[entity.InventoryItem] }

func NewInventoryRepository() *InventoryRepo {
	return &InventoryRepo{newCollection(
		func(i *entity.InventoryItem) string { return i.ID },
		func(i *entity.InventoryItem) time.Time { return i.CreatedAt },
	)}
}

func (r *InventoryRepo) ListByService(_ context.Context, serviceID string) ([]*entity.InventoryItem, error) {
	return r.where(func(i *entity.InventoryItem) bool { return i.ServiceID == serviceID }), nil
}

// AdjustQuantity aplica delta bajo el lock de la colección.
func (r *InventoryRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.InventoryItem, error) {
	return r.Modify(ctx, id, func(i *entity.InventoryItem) error {
		i.Adjust(delta)
		return nil
	})
}

// Modify aplica fn bajo el lock de la colección.
func (r *InventoryRepo) Modify(_ context.Context, id string, fn func(*entity.InventoryItem) error) (*entity.InventoryItem, error) {
	return r.mutate(id, func(i *entity.InventoryItem) error {
		if err := fn(i); err != nil {
			return err
		}
		i.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// PartRepo repuestos en memoria.
type PartRepo struct{ *collection[entity.Part] }

func NewPartRepository() *PartRepo {
	return &PartRepo{newCollection(
		func(p *entity.Part) string { return p.ID },
		func(p *entity.Part) time.Time { return p.CreatedAt },
	)}
}

func (r *PartRepo) ListByService(_ context.Context, serviceID string) ([]*entity.Part, error) {
	return r.where(func(p *entity.Part) bool { return p.ServiceID == serviceID }), nil
}

// AdjustQuantity aplica delta bajo el lock de la colección.
func (r *PartRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Part, error) {
	return r.Modify(ctx, id, func(p *entity.Part) error {
		p.Adjust(delta)
		return nil
	})
}

// Modify aplica fn bajo el lock de la colección.
func (r *PartRepo) Modify(_ context.Context, id string, fn func(*entity.Part) error) (*entity.Part, error) {
	return r.mutate(id, func(p *entity.Part) error {
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// MenuItemRepo menú en memoria.
type MenuItemRepo struct{ *collection[entity.MenuItem] }

func NewMenuItemRepository() *MenuItemRepo {
	return &MenuItemRepo{newCollection(
		func(m *entity.MenuItem) string { return m.ID },
		func(m *entity.MenuItem) time.Time { return m.CreatedAt },
	)}
}

func (r *MenuItemRepo) ListByService(_ context.Context, serviceID string) ([]*entity.MenuItem, error) {
	return r.where(func(m *entity.MenuItem) bool { return m.ServiceID == serviceID }), nil
}

// SaleRepo ventas en memoria.
type SaleRepo struct{ *collection[entity.Sale] }

func NewSaleRepository() *SaleRepo {
	return &SaleRepo{newCollection(
		func(s *entity.Sale) string { return s.ID },
		func(s *entity.Sale) time.Time { return s.CreatedAt },
	)}
}

func (r *SaleRepo) ListByService(_ context.Context, serviceID string) ([]*entity.Sale, error) {
	return r.where(func(s *entity.Sale) bool { return s.ServiceID == serviceID }), nil
}

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ *collection[entity.Invoice] }

func NewInvoiceRepository() *InvoiceRepo {
	return &InvoiceRepo{newCollection(
		func(i *entity.Invoice) string { return i.ID },
		func(i *entity.Invoice) time.Time { return i.CreatedAt },
	)}
}

func (r *InvoiceRepo) ListByService(_ context.Context, serviceID string) ([]*entity.Invoice, error) {
	return r.where(func(i *entity.Invoice) bool { return i.ServiceID == serviceID }), nil
}

func (r *InvoiceRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Invoice, error) {
	return r.where(func(i *entity.Invoice) bool { return i.CustomerID != nil && *i.CustomerID == customerID }), nil
}

// MarkOverdue cambia sent a overdue bajo el lock de la colección.
func (r *InvoiceRepo) MarkOverdue(_ context.Context, id string, at time.Time) (bool, error) {
	changed := false
	_, err := r.mutate(id, func(i *entity.Invoice) error {
		if i.Status != entity.InvoiceStatusSent {
			return nil
		}
		i.Status = entity.InvoiceStatusOverdue
		i.UpdatedAt = at
		changed = true
		return nil
	})
	return changed, err
}

func (r *InvoiceRepo) ListDue(_ context.Context, now time.Time) ([]*entity.Invoice, error) {
	return r.where(func(i *entity.Invoice) bool {
		return i.Status == entity.InvoiceStatusSent && i.DueDate != nil && i.DueDate.Before(now)
	}), nil
}
