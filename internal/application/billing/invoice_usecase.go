// Package billing casos de uso de facturación: facturas, líneas con precio, PDF y vencimientos.
package billing

import (
	"context"
	"fmt"
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
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// InvoiceFilter restringe el listado de facturas a un cliente.
type InvoiceFilter struct {
	CustomerID string
}

// InvoiceUseCase facturas manuales o generadas desde una orden de trabajo.
type InvoiceUseCase struct {
	repo         repository.InvoiceRepository
	serviceRepo  repository.ServiceRepository
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
	jobRepo      repository.JobRepository
	lines        *LineResolver
}

// NewInvoiceUseCase construye el caso de uso inyectando todas sus dependencias.
func NewInvoiceUseCase(
	repo repository.InvoiceRepository,
	serviceRepo repository.ServiceRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	jobRepo repository.JobRepository,
	lines *LineResolver,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		repo:         repo,
		serviceRepo:  serviceRepo,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		jobRepo:      jobRepo,
		lines:        lines,
	}
}

// Create crea una factura manual. Requiere customer_id o customer_name.
func (uc *InvoiceUseCase) Create(ctx context.Context, sess auth.Session, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	service, err := auth.Owned(ctx, sess, sess.ServiceID, uc.serviceRepo.GetByID, func(s *entity.Service) string { return s.ID })
	if err != nil {
		return nil, err
	}
	inv := &entity.Invoice{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: patch.Optional(in.CustomerEmail),
		Notes:         patch.Optional(in.Notes),
	}
	if in.CustomerID != "" {
		if err := uc.attachCustomer(ctx, sess, inv, in.CustomerID); err != nil {
			return nil, err
		}
	}
	if inv.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer_id o customer_name es obligatorio", domain.ErrInvalidInput)
	}
	if in.VehicleID != "" {
		v, err := auth.Owned(ctx, sess, in.VehicleID, uc.vehicleRepo.GetByID, func(v *entity.Vehicle) string { return v.ServiceID })
		if err != nil {
			return nil, err
		}
		inv.VehicleID = &v.ID
	}
	if err := uc.build(ctx, sess, service, inv, in.Items, in.DiscountRate, in.Status, in.DueDate); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// CreateFromJob factura una orden de trabajo; cliente y vehículo salen de la orden.
func (uc *InvoiceUseCase) CreateFromJob(ctx context.Context, sess auth.Session, jobID string, in dto.InvoiceFromJobRequest) (*dto.InvoiceResponse, error) {
	job, err := auth.Owned(ctx, sess, jobID, uc.jobRepo.GetByID, func(j *entity.Job) string { return j.ServiceID })
	if err != nil {
		return nil, err
	}
	if job.Status == entity.JobStatusCancelled {
		return nil, fmt.Errorf("%w: la orden está cancelada", domain.ErrConflict)
	}
	service, err := auth.Owned(ctx, sess, sess.ServiceID, uc.serviceRepo.GetByID, func(s *entity.Service) string { return s.ID })
	if err != nil {
		return nil, err
	}
	inv := &entity.Invoice{
		JobID:     &job.ID,
		VehicleID: &job.VehicleID,
		Notes:     patch.Optional(in.Notes),
	}
	if err := uc.attachCustomer(ctx, sess, inv, job.CustomerID); err != nil {
		return nil, err
	}
	if err := uc.build(ctx, sess, service, inv, in.Items, in.DiscountRate, in.Status, in.DueDate); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// GetByID obtiene una factura del taller.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, sess auth.Session, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// List lista las facturas. search busca en número, cliente y email.
func (uc *InvoiceUseCase) List(ctx context.Context, sess auth.Session, f InvoiceFilter, q dto.ListQuery) (*dto.ListResponse[dto.InvoiceResponse], error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	var (
		list []*entity.Invoice
		err  error
	)
	if f.CustomerID != "" {
		list, err = uc.repo.ListByCustomer(ctx, f.CustomerID)
	} else {
		list, err = uc.repo.ListByService(ctx, sess.ServiceID)
	}
	if err != nil {
		return nil, err
	}
	list = listing.Filter(list, func(i *entity.Invoice) bool {
		return i.ServiceID == sess.ServiceID &&
			listing.MatchesSearch(q.Search, &i.InvoiceNumber, &i.CustomerName, i.CustomerEmail) &&
			listing.MatchesFilter(q.Status, i.Status)
	})
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *ToInvoiceResponse(i))
	}
	return &dto.ListResponse[dto.InvoiceResponse]{Items: items, Total: len(items)}, nil
}

// Update modifica una factura. Las líneas y el descuento solo cambian en borrador;
// una factura pagada o cancelada no admite cambios.
func (uc *InvoiceUseCase) Update(ctx context.Context, sess auth.Session, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == entity.InvoiceStatusPaid || inv.Status == entity.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: factura en estado %s", domain.ErrConflict, inv.Status)
	}
	if (in.Items != nil || in.DiscountRate != nil) && inv.Status != entity.InvoiceStatusDraft {
		return nil, fmt.Errorf("%w: solo se editan líneas en borrador", domain.ErrConflict)
	}
	patch.String(&inv.CustomerName, in.CustomerName)
	patch.OptionalString(&inv.CustomerEmail, in.CustomerEmail)
	patch.OptionalString(&inv.Notes, in.Notes)
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		inv.DueDate = &due
	}
	if in.DiscountRate != nil {
		inv.DiscountRate = *in.DiscountRate
	}
	if in.Items != nil {
		lines, _, err := uc.lines.Resolve(ctx, sess, *in.Items)
		if err != nil {
			return nil, err
		}
		inv.Items = lines
	}
	if inv.CustomerName == "" || inv.DiscountRate.IsNegative() || inv.DiscountRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.ErrInvalidInput
	}
	applyTotals(inv)
	inv.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// UpdateStatus cambia el estado. Al pasar a paid fija paid_at y suma el total a lo gastado por el cliente;
// al pasar a sent sin vencimiento lo calcula con los días de plazo del taller.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, sess auth.Session, id string, in dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if !entity.ValidInvoiceStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == in.Status {
		return ToInvoiceResponse(inv), nil
	}
	if inv.Status == entity.InvoiceStatusPaid || inv.Status == entity.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: factura en estado %s", domain.ErrConflict, inv.Status)
	}
	now := time.Now().UTC()
	switch in.Status {
	case entity.InvoiceStatusPaid:
		inv.PaidAt = &now
		inv.PaymentMethod = patch.Optional(in.PaymentMethod)
	case entity.InvoiceStatusSent:
		if inv.DueDate == nil {
			service, err := uc.serviceRepo.GetByID(ctx, inv.ServiceID)
			if err != nil {
				return nil, err
			}
			inv.DueDate = dueDate(now, service)
		}
	}
	inv.Status = in.Status
	inv.UpdatedAt = now
	if err := uc.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	if inv.Status == entity.InvoiceStatusPaid && inv.CustomerID != nil {
		if err := uc.customerRepo.AddSpent(ctx, *inv.CustomerID, inv.Total); err != nil {
			return nil, fmt.Errorf("factura: acumular gasto del cliente: %w", err)
		}
	}
	return ToInvoiceResponse(inv), nil
}

// Delete elimina una factura. Las pagadas se conservan.
func (uc *InvoiceUseCase) Delete(ctx context.Context, sess auth.Session, id string) error {
	inv, err := uc.load(ctx, sess, id)
	if err != nil {
		return err
	}
	if inv.Status == entity.InvoiceStatusPaid {
		return fmt.Errorf("%w: una factura pagada no se elimina", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, inv.ID)
}

// Stats conteo por estado y montos facturados, cobrados y pendientes.
func (uc *InvoiceUseCase) Stats(ctx context.Context, sess auth.Session) (*dto.InvoiceStats, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByService(ctx, sess.ServiceID)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceStats{
		Total:       len(list),
		ByStatus:    listing.CountBy(list, func(i *entity.Invoice) string { return i.Status }),
		Billed:      decimal.Zero,
		Collected:   decimal.Zero,
		Outstanding: decimal.Zero,
	}
	for _, i := range list {
		if i.Status == entity.InvoiceStatusDraft || i.Status == entity.InvoiceStatusCancelled {
			continue
		}
		out.Billed = out.Billed.Add(i.Total)
		switch {
		case i.Status == entity.InvoiceStatusPaid:
			out.Collected = out.Collected.Add(i.Total)
		case i.Outstanding():
			out.Outstanding = out.Outstanding.Add(i.Total)
		}
	}
	return out, nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, sess auth.Session, id string) (*entity.Invoice, error) {
	return auth.Owned(ctx, sess, id, uc.repo.GetByID, func(i *entity.Invoice) string { return i.ServiceID })
}

func (uc *InvoiceUseCase) attachCustomer(ctx context.Context, sess auth.Session, inv *entity.Invoice, customerID string) error {
	c, err := auth.Owned(ctx, sess, customerID, uc.customerRepo.GetByID, func(c *entity.Customer) string { return c.ServiceID })
	if err != nil {
		return err
	}
	inv.CustomerID = &c.ID
	if inv.CustomerName == "" {
		inv.CustomerName = c.Name
	}
	if inv.CustomerEmail == nil {
		inv.CustomerEmail = c.Email
	}
	return nil
}

func (uc *InvoiceUseCase) build(ctx context.Context, sess auth.Session, service *entity.Service, inv *entity.Invoice,
	items []dto.LineItemRequest, discount decimal.Decimal, status string, due *time.Time,
) error {
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: discount_rate fuera de rango", domain.ErrInvalidInput)
	}
	lines, _, err := uc.lines.Resolve(ctx, sess, items)
	if err != nil {
		return err
	}
	if status == "" {
		status = entity.InvoiceStatusDraft
	}
	NewInvoice(inv, service, lines, discount, status, time.Now().UTC())
	if due != nil {
		d := due.UTC()
		inv.DueDate = &d
	}
	return nil
}

// NewInvoice completa identidad, numeración (INV-<unix ms>-<sufijo>), totales y fechas de inv.
// Una factura enviada vence a los invoice_terms días del taller.
func NewInvoice(inv *entity.Invoice, service *entity.Service, lines []entity.LineItem, discount decimal.Decimal, status string, now time.Time) {
	inv.ID = uuid.New().String()
	inv.ServiceID = service.ID
	inv.InvoiceNumber = fmt.Sprintf("INV-%d-%s", now.UnixMilli(), strings.ToUpper(inv.ID[:4]))
	inv.Items = lines
	inv.DiscountRate = discount
	inv.Status = status
	inv.IssueDate = now
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if status == entity.InvoiceStatusSent {
		inv.DueDate = dueDate(now, service)
	}
	if status == entity.InvoiceStatusPaid {
		inv.PaidAt = &now
	}
	applyTotals(inv)
}

func applyTotals(inv *entity.Invoice) {
	t := pricing.ComputeTotals(inv.Items, inv.DiscountRate)
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.DiscountAmount = t.DiscountAmount
	inv.Total = t.Total
}

func dueDate(now time.Time, service *entity.Service) *time.Time {
	terms := 30
	if service != nil && service.InvoiceTerms > 0 {
		terms = service.InvoiceTerms
	}
	d := now.AddDate(0, 0, terms)
	return &d
}

// ToInvoiceResponse mapea la factura a DTO.
func ToInvoiceResponse(i *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:             i.ID,
		ServiceID:      i.ServiceID,
		InvoiceNumber:  i.InvoiceNumber,
		CustomerID:     i.CustomerID,
		CustomerName:   i.CustomerName,
		CustomerEmail:  i.CustomerEmail,
		JobID:          i.JobID,
		SaleID:         i.SaleID,
		VehicleID:      i.VehicleID,
		Items:          ToLineResponses(i.Items),
		Subtotal:       i.Subtotal,
		TaxAmount:      i.TaxAmount,
		DiscountRate:   i.DiscountRate,
		DiscountAmount: i.DiscountAmount,
		Total:          i.Total,
		Status:         i.Status,
		IssueDate:      i.IssueDate,
		DueDate:        i.DueDate,
		PaidAt:         i.PaidAt,
		PaymentMethod:  i.PaymentMethod,
		PDFURL:         i.PDFURL,
		Notes:          i.Notes,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}
