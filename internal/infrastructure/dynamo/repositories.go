package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
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

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// UserRepo usuarios en DynamoDB.
type UserRepo struct{ *collection[entity.User] }

func NewUserRepository(api API, prefix string) *UserRepo {
	return &UserRepo{newCollection(api, prefix+tableUsers, schema[entity.User]{
		id:      func(u *entity.User) string { return u.ID },
		created: func(u *entity.User) time.Time { return u.CreatedAt },
		attrs: func(u *entity.User) map[string]any {
			return map[string]any{attrService: u.ServiceID, byEmail.hash: emailKey(u.Email)}
		},
	})}
}

// Create verifica el email por el índice antes de insertar. La unicidad no es atómica: dos altas
// simultáneas con el mismo email pueden pasar ambas.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	existing, err := r.GetByEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	return r.collection.Create(ctx, u)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	list, err := r.queryIndex(ctx, byEmail, emailKey(email))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (r *UserRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.User, error) {
	return r.queryIndex(ctx, byService, serviceID)
}

// ServiceRepo talleres en DynamoDB.
type ServiceRepo struct{ *collection[entity.Service] }

func NewServiceRepository(api API, prefix string) *ServiceRepo {
	return &ServiceRepo{newCollection(api, prefix+tableServices, schema[entity.Service]{
		id:      func(s *entity.Service) string { return s.ID },
		created: func(s *entity.Service) time.Time { return s.CreatedAt },
		attrs: func(s *entity.Service) map[string]any {
			return map[string]any{byOwner.hash: s.OwnerID}
		},
	})}
}

func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	existing, err := r.GetByOwner(ctx, s.OwnerID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrServiceAlreadyExists
	}
	return r.collection.Create(ctx, s)
}

func (r *ServiceRepo) GetByOwner(ctx context.Context, ownerID string) (*entity.Service, error) {
	list, err := r.queryIndex(ctx, byOwner, ownerID)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// CustomerRepo clientes en DynamoDB.
type CustomerRepo struct{ *collection[entity.Customer] }

func NewCustomerRepository(api API, prefix string) *CustomerRepo {
	return &CustomerRepo{newCollection(api, prefix+tableCustomers, schema[entity.Customer]{
		id:      func(c *entity.Customer) string { return c.ID },
		created: func(c *entity.Customer) time.Time { return c.CreatedAt },
		attrs: func(c *entity.Customer) map[string]any {
			return map[string]any{attrService: c.ServiceID}
		},
	})}
}

func (r *CustomerRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Customer, error) {
	return r.queryIndex(ctx, byService, serviceID)
}

func (r *CustomerRepo) RecordVisit(ctx context.Context, id string, at time.Time) error {
	_, err := r.mutate(ctx, id, func(c *entity.Customer) error {
		c.JobCount++
		c.LastVisit = &at
		c.UpdatedAt = at
		return nil
	})
	return err
}

func (r *CustomerRepo) AddSpent(ctx context.Context, id string, amount decimal.Decimal) error {
	_, err := r.mutate(ctx, id, func(c *entity.Customer) error {
		c.TotalSpent = c.TotalSpent.Add(amount)
		return nil
	})
	return err
}

// VehicleRepo vehículos en DynamoDB.
type VehicleRepo struct{ *collection[entity.Vehicle] }

func NewVehicleRepository(api API, prefix string) *VehicleRepo {
	return &VehicleRepo{newCollection(api, prefix+tableVehicles, schema[entity.Vehicle]{
		id:      func(v *entity.Vehicle) string { return v.ID },
		created: func(v *entity.Vehicle) time.Time { return v.CreatedAt },
		attrs: func(v *entity.Vehicle) map[string]any {
			return map[string]any{attrService: v.ServiceID, byCustomer.hash: v.CustomerID}
		},
	})}
}

func (r *VehicleRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Vehicle, error) {
	return r.queryIndex(ctx, byService, serviceID)
}

func (r *VehicleRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Vehicle, error) {
	return r.queryIndex(ctx, byCustomer, customerID)
}

// JobRepo órdenes de trabajo en DynamoDB.
type JobRepo struct{ *collection[entity.Job] }

func NewJobRepository(api API, prefix string) *JobRepo {
	return &JobRepo{newCollection(api, prefix+tableJobs, schema[entity.Job]{
		id:      func(j *entity.Job) string { return j.ID },
		created: func(j *entity.Job) time.Time { return j.CreatedAt },
		attrs: func(j *entity.Job) map[string]any {
			return map[string]any{attrService: j.ServiceID, byCustomer.hash: j.CustomerID, byVehicle.hash: j.VehicleID}
		},
	})}
}

func (r *JobRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Job, error) {
	return r.queryIndex(ctx, byService, serviceID)
}

func (r *JobRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Job, error) {
	return r.queryIndex(ctx, byCustomer, customerID)
}

func (r *JobRepo) ListByVehicle(ctx context.Context, vehicleID string) ([]*entity.Job, error) {
	return r.queryIndex(ctx, byVehicle, vehicleID)
}

// InventoryRepo inventario en DynamoDB.
type InventoryRepo struct{ *collection[entity.InventoryItem] }

func NewInventoryRepository(api API, prefix string) *InventoryRepo {
	return &InventoryRepo{newCollection(api, prefix+tableInventory, schema[entity.InventoryItem]{
		id:      func(i *entity.InventoryItem) string { return i.ID },
		created: func(i *entity.InventoryItem) time.Time { return i.CreatedAt },
		attrs: func(i *entity.InventoryItem) map[string]any {
			return map[string]any{attrService: i.ServiceID}
		},
	})}
}

func (r *InventoryRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.InventoryItem, error) {
	return r.queryIndex(ctx, byService, serviceID)
}

// AdjustQuantity aplica delta con escritura condicional por versión y reintento.
func (r *InventoryRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.InventoryItem, error) {
	return r.Modify(ctx, id, func(i *entity.InventoryItem) error {
		i.Adjust(delta)
		return nil
	})
}

// Modify aplica fn sobre la última versión; si otra escritura gana, relee y vuelve a aplicar fn.
func (r *InventoryRepo) Modify(ctx context.Context, id string, fn func(*entity.InventoryItem) error) (*entity.InventoryItem, error) {
	return r.mutate(ctx, id, func(i *entity.InventoryItem) error {
		if err := fn(i); err != nil {
			return err
		}
		i.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// PartRepo repuestos en DynamoDB.
type PartRepo struct{ *collection[entity.Part] }

func NewPartRepository(api API, prefix string) *PartRepo {
	return &PartRepo{newCollection(api, prefix+tableParts, schema[entity.Part]{
		id:      func(p *entity.Part) string { return p.ID },
		created: func(p *entity.Part) time.Time { return p.CreatedAt },
		attrs: func(p *entity.Part) map[string]any {
			return map[string]any{attrService: p.ServiceID}
		},
	})}
}

func (r *PartRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Part, error) {
	return r.queryIndex(ctx, byService, serviceID)
}

// AdjustQuantity aplica delta con escritura condicional por versión y reintento.
func (r *PartRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Part, error) {
	return r.Modify(ctx, id, func(p *entity.Part) error {
		p.Adjust(delta)
		return nil
	})
}

// Modify aplica fn sobre la última versión; si otra escritura gana, relee y vuelve a aplicar fn.
func (r *PartRepo) Modify(ctx context.Context, id string, fn func(*entity.Part) error) (*entity.Part, error) {
	return r.mutate(ctx, id, func(p *entity.Part) error {
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// MenuItemRepo menú de servicios en DynamoDB.
type MenuItemRepo struct{ *collection[entity.MenuItem] }

func NewMenuItemRepository(api API, prefix string) *MenuItemRepo {
	return &MenuItemRepo{newCollection(api, prefix+tableMenuItems, schema[entity.MenuItem]{
		id:      func(m *entity.MenuItem) string { return m.ID },
		created: func(m *entity.MenuItem) time.Time { return m.CreatedAt },
		attrs: func(m *entity.MenuItem) map[string]any {
			return map[string]any{attrService: m.ServiceID}
		},
	})}
}

func (r *MenuItemRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.MenuItem, error) {
	return r.queryIndex(ctx, byService, serviceID)
}

// SaleRepo ventas en DynamoDB.
type SaleRepo struct{ *collection[entity.Sale] }

func NewSaleRepository(api API, prefix string) *SaleRepo {
	return &SaleRepo{newCollection(api, prefix+tableSales, schema[entity.Sale]{
		id:      func(s *entity.Sale) string { return s.ID },
		created: func(s *entity.Sale) time.Time { return s.CreatedAt },
		attrs: func(s *entity.Sale) map[string]any {
			return map[string]any{attrService: s.ServiceID}
		},
	})}
}

func (r *SaleRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Sale, error) {
	return r.queryIndex(ctx, byService, serviceID)
}

const (
	attrStatus = "status"
	attrDueAt  = "due_at"
)

// InvoiceRepo facturas en DynamoDB. status y due_at se proyectan para el barrido de vencidas.
type InvoiceRepo struct{ *collection[entity.Invoice] }

func NewInvoiceRepository(api API, prefix string) *InvoiceRepo {
	return &InvoiceRepo{newCollection(api, prefix+tableInvoices, schema[entity.Invoice]{
		id:      func(i *entity.Invoice) string { return i.ID },
		created: func(i *entity.Invoice) time.Time { return i.CreatedAt },
		attrs: func(i *entity.Invoice) map[string]any {
			m := map[string]any{
				attrService:     i.ServiceID,
				byCustomer.hash: deref(i.CustomerID),
				attrStatus:      i.Status,
			}
			if i.DueDate != nil {
				m[attrDueAt] = i.DueDate.UnixNano()
			}
			return m
		},
	})}
}

func (r *InvoiceRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Invoice, error) {
	return r.queryIndex(ctx, byService, serviceID)
}

func (r *InvoiceRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error) {
	return r.queryIndex(ctx, byCustomer, customerID)
}

// MarkOverdue cambia sent a overdue con escritura condicional por versión. Si la factura cambió
// de estado entre medias no se toca.
func (r *InvoiceRepo) MarkOverdue(ctx context.Context, id string, at time.Time) (bool, error) {
	changed := false
	_, err := r.mutate(ctx, id, func(i *entity.Invoice) error {
		changed = false
		if i.Status != entity.InvoiceStatusSent {
			return errUnchanged
		}
		i.Status = entity.InvoiceStatusOverdue
		i.UpdatedAt = at
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// ListDue recorre la tabla filtrando enviadas con due_at anterior a now.
func (r *InvoiceRepo) ListDue(ctx context.Context, now time.Time) ([]*entity.Invoice, error) {
	filter := expression.Name(attrStatus).Equal(expression.Value(entity.InvoiceStatusSent)).
		And(expression.Name(attrDueAt).LessThan(expression.Value(now.UnixNano())))
	return r.scan(ctx, filter)
}
