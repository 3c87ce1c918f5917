package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository. Las líneas se guardan como JSONB.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, service_id, invoice_number, customer_id, customer_name, customer_email, job_id, sale_id,
	vehicle_id, items, subtotal, tax_amount, discount_rate, discount_amount, total, status, issue_date, due_date,
	paid_at, payment_method, pdf_url, notes, created_at, updated_at`

func scanInvoice(s scanner) (*entity.Invoice, error) {
	var i entity.Invoice
	err := s.Scan(
		&i.ID, &i.ServiceID, &i.InvoiceNumber, &i.CustomerID, &i.CustomerName, &i.CustomerEmail, &i.JobID, &i.SaleID,
		&i.VehicleID, &i.Items, &i.Subtotal, &i.TaxAmount, &i.DiscountRate, &i.DiscountAmount, &i.Total, &i.Status, &i.IssueDate, &i.DueDate,
		&i.PaidAt, &i.PaymentMethod, &i.PDFURL, &i.Notes, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	utc(&i.IssueDate, &i.CreatedAt, &i.UpdatedAt)
	i.DueDate = utcOpt(i.DueDate)
	i.PaidAt = utcOpt(i.PaidAt)
	return &i, nil
}

// Create persiste una factura con sus líneas.
func (r *InvoiceRepo) Create(ctx context.Context, i *entity.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.ServiceID, i.InvoiceNumber, i.CustomerID, i.CustomerName, i.CustomerEmail, i.JobID, i.SaleID,
		i.VehicleID, i.Items, i.Subtotal, i.TaxAmount, i.DiscountRate, i.DiscountAmount, i.Total, i.Status, i.IssueDate, i.DueDate,
		i.PaidAt, i.PaymentMethod, i.PDFURL, i.Notes, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	i, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return i, nil
}

// ListByService lista las facturas del taller, más recientes primero.
func (r *InvoiceRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Invoice, error) {
	return r.list(ctx, `WHERE service_id = $1 ORDER BY created_at DESC`, serviceID)
}

// ListByCustomer lista las facturas de un cliente.
func (r *InvoiceRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error) {
	return r.list(ctx, `WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

// ListDue facturas enviadas cuyo vencimiento ya pasó (todos los talleres).
func (r *InvoiceRepo) ListDue(ctx context.Context, now time.Time) ([]*entity.Invoice, error) {
	return r.list(ctx, `WHERE status = 'sent' AND due_date < $1 ORDER BY due_date`, now)
}

func (r *InvoiceRepo) list(ctx context.Context, where string, arg any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices `+where, arg)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Update actualiza la factura completa.
func (r *InvoiceRepo) Update(ctx context.Context, i *entity.Invoice) error {
	query := `
		UPDATE invoices SET customer_id = $2, customer_name = $3, customer_email = $4, items = $5, subtotal = $6,
			tax_amount = $7, discount_rate = $8, discount_amount = $9, total = $10, status = $11, due_date = $12,
			paid_at = $13, payment_method = $14, pdf_url = $15, notes = $16, updated_at = $17
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		i.ID, i.CustomerID, i.CustomerName, i.CustomerEmail, i.Items, i.Subtotal,
		i.TaxAmount, i.DiscountRate, i.DiscountAmount, i.Total, i.Status, i.DueDate,
		i.PaidAt, i.PaymentMethod, i.PDFURL, i.Notes, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkOverdue cambia sent a overdue con una escritura condicional sobre el estado.
func (r *InvoiceRepo) MarkOverdue(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		id, entity.InvoiceStatusOverdue, at, entity.InvoiceStatusSent)
	if err != nil {
		return false, fmt.Errorf("mark invoice overdue: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete elimina la factura.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}
