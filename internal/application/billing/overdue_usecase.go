package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// OverdueUseCase marca como vencidas las facturas enviadas cuyo plazo ya pasó. Lo ejecuta el cron.
type OverdueUseCase struct {
	repo repository.InvoiceRepository
}

// NewOverdueUseCase construye el caso de uso.
func NewOverdueUseCase(repo repository.InvoiceRepository) *OverdueUseCase {
	return &OverdueUseCase{repo: repo}
}

// MarkOverdue pasa a overdue las facturas sent con due_date < now y devuelve cuántas cambió.
// El cambio es condicional: una factura cobrada entre la lista y la escritura queda como está.
// Un fallo en una factura no detiene el barrido; los errores se devuelven juntos al final.
func (uc *OverdueUseCase) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.repo.ListDue(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("vencimientos: listar: %w", err)
	}
	n := 0
	var errs []error
	for _, inv := range due {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if inv.Status != entity.InvoiceStatusSent {
			continue
		}
		changed, err := uc.repo.MarkOverdue(ctx, inv.ID, now.UTC())
		if err != nil {
			errs = append(errs, fmt.Errorf("vencimientos: factura %s: %w", inv.InvoiceNumber, err))
			continue
		}
		if changed {
			n++
		}
	}
	return n, errors.Join(errs...)
}
