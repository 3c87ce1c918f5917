// Package sales punto de venta: checkout (venta, salida de stock, factura y PDF) y consulta de ventas.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/patch"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

// CheckoutUseCase registra una venta completa.
//
// Pasos críticos (un fallo deshace los anteriores en orden inverso):
//  1. Guardar la venta con sus totales.
//  2. Descontar inventario / repuestos por línea.
//  3. Crear la factura pagada, ligarla a la venta y sumar lo gastado por el cliente.
//
// Pasos de mejor esfuerzo (un fallo no deshace la venta; se informa en pdf_error):
//  4. Renderizar el PDF, subirlo y guardar pdf_url en la factura.
type CheckoutUseCase struct {
	saleRepo      repository.SaleRepository
	invoiceRepo   repository.InvoiceRepository
	inventoryRepo repository.InventoryRepository
	partRepo      repository.PartRepository
	serviceRepo   repository.ServiceRepository
	customerRepo  repository.CustomerRepository
	lines         *billing.LineResolver
	pdf           *billing.PDFUseCase
	metrics       *metrics.CheckoutMetrics
	log           *logger.Logger
}

// CheckoutDeps dependencias del checkout.
type CheckoutDeps struct {
	Sales     repository.SaleRepository
	Invoices  repository.InvoiceRepository
	Inventory repository.InventoryRepository
	Parts     repository.PartRepository
	Services  repository.ServiceRepository
	Customers repository.CustomerRepository
	Lines     *billing.LineResolver
	PDF       *billing.PDFUseCase
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger
}

// NewCheckoutUseCase construye el caso de uso. Metrics y Logger son opcionales.
func NewCheckoutUseCase(d CheckoutDeps) *CheckoutUseCase {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &CheckoutUseCase{
		saleRepo:      d.Sales,
		invoiceRepo:   d.Invoices,
		inventoryRepo: d.Inventory,
		partRepo:      d.Parts,
		serviceRepo:   d.Services,
		customerRepo:  d.Customers,
		lines:         d.Lines,
		pdf:           d.PDF,
		metrics:       d.Metrics,
		log:           log.Named("checkout"),
	}
}

// Checkout ejecuta la venta. Si falla un paso crítico devuelve el error original tras compensar.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, sess auth.Session, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	service, err := auth.Owned(ctx, sess, sess.ServiceID, uc.serviceRepo.GetByID, func(s *entity.Service) string { return s.ID })
	if err != nil {
		return nil, err
	}
	if in.DiscountRate.IsNegative() || in.DiscountRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: discount_rate fuera de rango", domain.ErrInvalidInput)
	}
	var customer *entity.Customer
	if in.CustomerID != "" {
		customer, err = auth.Owned(ctx, sess, in.CustomerID, uc.customerRepo.GetByID, func(c *entity.Customer) string { return c.ServiceID })
		if err != nil {
			return nil, err
		}
	}
	lines, draws, err := uc.lines.Resolve(ctx, sess, in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	totals := pricing.ComputeTotals(lines, in.DiscountRate)
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		ServiceID:      service.ID,
		CustomerName:   patch.Optional(in.CustomerName),
		Items:          lines,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		DiscountRate:   in.DiscountRate,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		PaymentMethod:  in.PaymentMethod,
		Status:         entity.SaleStatusCompleted,
		Notes:          patch.Optional(in.Notes),
		CreatedBy:      sess.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if customer != nil {
		sale.CustomerID = &customer.ID
		if sale.CustomerName == nil {
			sale.CustomerName = &customer.Name
		}
	}

	var s saga
	inv, err := uc.commit(ctx, &s, service, customer, sale, draws, now)
	if err != nil {
		if rbErr := s.rollback(ctx, uc.onCompensation(sale.ID)); rbErr != nil {
			uc.log.Error().Err(rbErr).Str("sale_id", sale.ID).Msg("compensación incompleta: revisar stock manualmente")
		}
		uc.log.Warn().Err(err).Str("sale_id", sale.ID).Str("service_id", service.ID).Msg("checkout revertido")
		uc.metrics.IncOutcome(metrics.CheckoutCompensated)
		return nil, err
	}

	resp := &dto.CheckoutResponse{}
	if uc.pdf != nil {
		if pErr := uc.pdf.Publish(ctx, inv, service); pErr != nil {
			resp.PDFError = pErr.Error()
			uc.metrics.IncOutcome(metrics.CheckoutPDFFailed)
			uc.log.Warn().Err(pErr).Str("invoice_id", inv.ID).Msg("venta registrada sin PDF")
		}
	}
	uc.metrics.IncOutcome(metrics.CheckoutCompleted)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Str("total", sale.Total.StringFixed(2)).
		Msg("checkout completado")

	resp.Sale = *ToSaleResponse(sale)
	resp.Invoice = *billing.ToInvoiceResponse(inv)
	return resp, nil
}

// commit ejecuta los pasos críticos registrando su compensación en s.
func (uc *CheckoutUseCase) commit(ctx context.Context, s *saga, service *entity.Service, customer *entity.Customer,
	sale *entity.Sale, draws []billing.StockDraw, now time.Time,
) (*entity.Invoice, error) {
	if err := uc.saleRepo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("checkout: guardar venta: %w", err)
	}
	s.push("venta", func(ctx context.Context) error { return uc.saleRepo.Delete(ctx, sale.ID) })

	for _, d := range draws {
		if err := uc.draw(ctx, s, d); err != nil {
			return nil, err
		}
	}

	inv := &entity.Invoice{
		SaleID:        &sale.ID,
		CustomerID:    sale.CustomerID,
		PaymentMethod: &sale.PaymentMethod,
		Notes:         sale.Notes,
	}
	if sale.CustomerName != nil {
		inv.CustomerName = *sale.CustomerName
	}
	if inv.CustomerName == "" {
		inv.CustomerName = "Cliente de mostrador"
	}
	if customer != nil {
		inv.CustomerEmail = customer.Email
	}
	items := make([]entity.LineItem, len(sale.Items))
	copy(items, sale.Items)
	billing.NewInvoice(inv, service, items, sale.DiscountRate, entity.InvoiceStatusPaid, now)
	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("checkout: crear factura: %w", err)
	}
	s.push("factura", func(ctx context.Context) error { return uc.invoiceRepo.Delete(ctx, inv.ID) })

	sale.InvoiceID = &inv.ID
	if err := uc.saleRepo.Update(ctx, sale); err != nil {
		return nil, fmt.Errorf("checkout: ligar factura: %w", err)
	}

	if customer != nil {
		if err := uc.customerRepo.AddSpent(ctx, customer.ID, inv.Total); err != nil {
			return nil, fmt.Errorf("checkout: acumular gasto del cliente: %w", err)
		}
		s.push("gasto del cliente", func(ctx context.Context) error {
			return uc.customerRepo.AddSpent(ctx, customer.ID, inv.Total.Neg())
		})
	}
	return inv, nil
}

// draw descuenta una línea de stock. Si el stock no alcanza la cantidad queda en cero
// y la compensación devuelve solo lo que realmente se retiró. Lo retirado se mide sobre
// la misma lectura bloqueada que escribe el descuento.
func (uc *CheckoutUseCase) draw(ctx context.Context, s *saga, d billing.StockDraw) error {
	var before, removed int
	var found bool
	var restore func(ctx context.Context) error
	var err error
	switch d.Kind {
	case entity.LineItemPart:
		var part *entity.Part
		part, err = uc.partRepo.Modify(ctx, d.ID, func(p *entity.Part) error {
			before = p.Quantity
			p.Adjust(-d.Quantity)
			removed = before - p.Quantity
			return nil
		})
		found = part != nil
		restore = func(ctx context.Context) error {
			_, err := uc.partRepo.AdjustQuantity(ctx, d.ID, removed)
			return err
		}
	default:
		var item *entity.InventoryItem
		item, err = uc.inventoryRepo.Modify(ctx, d.ID, func(i *entity.InventoryItem) error {
			before = i.Quantity
			i.Adjust(-d.Quantity)
			removed = before - i.Quantity
			return nil
		})
		found = item != nil
		restore = func(ctx context.Context) error {
			_, err := uc.inventoryRepo.AdjustQuantity(ctx, d.ID, removed)
			return err
		}
	}
	if err != nil {
		return fmt.Errorf("checkout: descontar %s %s: %w", d.Kind, d.ID, err)
	}
	if !found {
		return fmt.Errorf("%w: %s %s ya no existe", domain.ErrConflict, d.Kind, d.ID)
	}
	if removed < d.Quantity {
		uc.log.Warn().Str("kind", d.Kind).Str("id", d.ID).Int("requested", d.Quantity).Int("available", before).
			Msg("venta con stock insuficiente: la cantidad quedó en cero")
	}
	if removed > 0 {
		s.push(d.Kind+" "+d.ID, restore)
	}
	return nil
}

func (uc *CheckoutUseCase) onCompensation(saleID string) func(string, error) {
	return func(step string, err error) {
		uc.metrics.IncCompensation()
		ev := uc.log.Info()
		if err != nil {
			ev = uc.log.Error().Err(err)
		}
		ev.Str("sale_id", saleID).Str("step", step).Msg("compensación ejecutada")
	}
}
