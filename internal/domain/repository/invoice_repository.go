package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas.
type InvoiceRepository interface {
	Records[entity.Invoice]
	ListByService(ctx context.Context, serviceID string) ([]*entity.Invoice, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error)
	// ListDue devuelve, de todos los talleres, las facturas enviadas con vencimiento anterior a now.
	ListDue(ctx context.Context, now time.Time) ([]*entity.Invoice, error)
	// MarkOverdue pasa la factura a overdue solo si sigue en sent. false si ya había cambiado.
	MarkOverdue(ctx context.Context, id string, at time.Time) (bool, error)
}
