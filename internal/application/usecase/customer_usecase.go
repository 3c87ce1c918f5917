package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/listing"
	"github.com/jhoicas/Taller-api/internal/application/patch"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// CustomerUseCase casos de uso de clientes del taller.
type CustomerUseCase struct {
	repo        repository.CustomerRepository
	vehicleRepo repository.VehicleRepository
	jobRepo     repository.JobRepository
	invoiceRepo repository.InvoiceRepository
}

// NewCustomerUseCase construye el caso de uso. Vehículos, órdenes y facturas se consultan al borrar.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	jobRepo repository.JobRepository,
	invoiceRepo repository.InvoiceRepository,
) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, vehicleRepo: vehicleRepo, jobRepo: jobRepo, invoiceRepo: invoiceRepo}
}

// Create crea un cliente. Los opcionales vacíos quedan en null y los contadores en cero.
func (uc *CustomerUseCase) Create(ctx context.Context, sess auth.Session, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	customerType := in.CustomerType
	if customerType == "" {
		customerType = entity.CustomerTypeIndividual
	}
	now := time.Now().UTC()
	c := &entity.Customer{
		ID:           uuid.New().String(),
		ServiceID:    sess.ServiceID,
		Name:         name,
		Email:        patch.Optional(in.Email),
		Phone:        patch.Optional(in.Phone),
		Address:      patch.Optional(in.Address),
		CustomerType: customerType,
		CompanyName:  patch.Optional(in.CompanyName),
		Notes:        patch.Optional(in.Notes),
		Status:       entity.CustomerStatusActive,
		TotalSpent:   decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// GetByID obtiene un cliente del taller.
func (uc *CustomerUseCase) GetByID(ctx context.Context, sess auth.Session, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista los clientes del taller, más recientes primero.
// search busca en nombre, email, teléfono y empresa; status y type filtran ("all" no filtra).
func (uc *CustomerUseCase) List(ctx context.Context, sess auth.Session, q dto.ListQuery) (*dto.ListResponse[dto.CustomerResponse], error) {
	list, err := uc.all(ctx, sess)
	if err != nil {
		return nil, err
	}
	list = listing.Filter(list, func(c *entity.Customer) bool {
		return listing.MatchesSearch(q.Search, &c.Name, c.Email, c.Phone, c.CompanyName) &&
			listing.MatchesFilter(q.Status, c.Status) &&
			listing.MatchesFilter(q.Type, c.CustomerType)
	})
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.ListResponse[dto.CustomerResponse]{Items: items, Total: len(items)}, nil
}

// Update aplica una actualización parcial.
func (uc *CustomerUseCase) Update(ctx context.Context, sess auth.Session, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	patch.String(&c.Name, in.Name)
	patch.OptionalString(&c.Email, in.Email)
	patch.OptionalString(&c.Phone, in.Phone)
	patch.OptionalString(&c.Address, in.Address)
	patch.Set(&c.CustomerType, in.CustomerType)
	patch.OptionalString(&c.CompanyName, in.CompanyName)
	patch.OptionalString(&c.Notes, in.Notes)
	patch.Set(&c.Status, in.Status)
	if c.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina el cliente. Sus vehículos, órdenes y facturas se conservan y se informan como huérfanos.
func (uc *CustomerUseCase) Delete(ctx context.Context, sess auth.Session, id string) (*dto.DeleteCustomerResponse, error) {
	c, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	vehicles, err := uc.vehicleRepo.ListByCustomer(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	jobs, err := uc.jobRepo.ListByCustomer(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoiceRepo.ListByCustomer(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Delete(ctx, c.ID); err != nil {
		return nil, err
	}
	return &dto.DeleteCustomerResponse{
		ID: c.ID,
		Orphaned: map[string]int{
			"vehicles": len(vehicles),
			"jobs":     len(jobs),
			"invoices": len(invoices),
		},
	}, nil
}

// Stats resumen de clientes del taller.
func (uc *CustomerUseCase) Stats(ctx context.Context, sess auth.Session) (*dto.CustomerStats, error) {
	list, err := uc.all(ctx, sess)
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerStats{Total: len(list), TotalSpent: decimal.Zero}
	for _, c := range list {
		if c.Status == entity.CustomerStatusActive {
			out.Active++
		}
		if c.CustomerType == entity.CustomerTypeBusiness {
			out.Business++
		}
		out.TotalJobs += c.JobCount
		out.TotalSpent = out.TotalSpent.Add(c.TotalSpent)
	}
	return out, nil
}

func (uc *CustomerUseCase) load(ctx context.Context, sess auth.Session, id string) (*entity.Customer, error) {
	return auth.Owned(ctx, sess, id, uc.repo.GetByID, func(c *entity.Customer) string { return c.ServiceID })
}

func (uc *CustomerUseCase) all(ctx context.Context, sess auth.Session) ([]*entity.Customer, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	return uc.repo.ListByService(ctx, sess.ServiceID)
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:           c.ID,
		ServiceID:    c.ServiceID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		CustomerType: c.CustomerType,
		CompanyName:  c.CompanyName,
		Notes:        c.Notes,
		Status:       c.Status,
		JobCount:     c.JobCount,
		TotalSpent:   c.TotalSpent,
		LastVisit:    c.LastVisit,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
