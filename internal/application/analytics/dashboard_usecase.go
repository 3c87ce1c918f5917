// Package analytics contiene el resumen del tablero principal del taller.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/domain/stock"
)

// Sources repositorios que alimentan el tablero.
type Sources struct {
	Customers repository.CustomerRepository
	Vehicles  repository.VehicleRepository
	Jobs      repository.JobRepository
	Inventory repository.InventoryRepository
	Parts     repository.PartRepository
	Sales     repository.SaleRepository
	Invoices  repository.InvoiceRepository
}

// DashboardUseCase genera el resumen del día y del mes en curso.
type DashboardUseCase struct {
	src Sources
	now func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(src Sources) *DashboardUseCase {
	return &DashboardUseCase{src: src, now: time.Now}
}

type partial struct {
	name  string
	apply func(*dto.DashboardSummaryDTO)
	err   error
}

// GetSummary construye el DashboardSummaryDTO del taller de la sesión.
// Cada fuente se consulta en su propia goroutine; el primer error se devuelve tras esperar a todas.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, sess auth.Session) (*dto.DashboardSummaryDTO, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	serviceID := sess.ServiceID
	now := uc.now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	tasks := []func() partial{
		func() partial {
			list, err := uc.src.Customers.ListByService(ctx, serviceID)
			return partial{name: "clientes", err: err, apply: func(d *dto.DashboardSummaryDTO) { d.Customers = len(list) }}
		},
		func() partial {
			list, err := uc.src.Vehicles.ListByService(ctx, serviceID)
			return partial{name: "vehículos", err: err, apply: func(d *dto.DashboardSummaryDTO) { d.Vehicles = len(list) }}
		},
		func() partial {
			list, err := uc.src.Jobs.ListByService(ctx, serviceID)
			return partial{name: "órdenes", err: err, apply: func(d *dto.DashboardSummaryDTO) {
				for _, j := range list {
					switch j.Status {
					case entity.JobStatusPending, entity.JobStatusInProgress:
						d.OpenJobs++
					case entity.JobStatusCompleted:
						d.CompletedJobs++
					}
				}
			}}
		},
		func() partial {
			list, err := uc.src.Inventory.ListByService(ctx, serviceID)
			return partial{name: "inventario", err: err, apply: func(d *dto.DashboardSummaryDTO) {
				for _, i := range list {
					countStock(d, i.Status)
				}
			}}
		},
		func() partial {
			list, err := uc.src.Parts.ListByService(ctx, serviceID)
			return partial{name: "repuestos", err: err, apply: func(d *dto.DashboardSummaryDTO) {
				for _, p := range list {
					countStock(d, p.Status)
				}
			}}
		},
		func() partial {
			list, err := uc.src.Sales.ListByService(ctx, serviceID)
			return partial{name: "ventas", err: err, apply: func(d *dto.DashboardSummaryDTO) {
				for _, s := range list {
					if s.Status != entity.SaleStatusCompleted || s.CreatedAt.Before(monthStart) {
						continue
					}
					d.MonthlySales = d.MonthlySales.Add(s.Total)
					if !s.CreatedAt.Before(todayStart) {
						d.TodaySales = d.TodaySales.Add(s.Total)
					}
				}
			}}
		},
		func() partial {
			list, err := uc.src.Invoices.ListByService(ctx, serviceID)
			return partial{name: "facturas", err: err, apply: func(d *dto.DashboardSummaryDTO) {
				for _, i := range list {
					if i.Outstanding() {
						d.OutstandingInvoices++
						d.OutstandingAmount = d.OutstandingAmount.Add(i.Total)
					}
				}
			}}
		},
	}

	results := make(chan partial, len(tasks))
	for _, task := range tasks {
		go func() { results <- task() }()
	}

	out := &dto.DashboardSummaryDTO{
		TodaySales:        decimal.Zero,
		MonthlySales:      decimal.Zero,
		OutstandingAmount: decimal.Zero,
		DateLabel:         monthLabel(now),
	}
	var firstErr error
	for range tasks {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("dashboard: %s: %w", r.name, r.err)
			}
			continue
		}
		r.apply(out)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	out.TodaySales = out.TodaySales.Round(2)
	out.MonthlySales = out.MonthlySales.Round(2)
	out.OutstandingAmount = out.OutstandingAmount.Round(2)
	return out, nil
}

func countStock(d *dto.DashboardSummaryDTO, s stock.Status) {
	switch s {
	case stock.StatusLowStock:
		d.LowStockItems++
	case stock.StatusOutOfStock:
		d.OutOfStockItems++
	}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
