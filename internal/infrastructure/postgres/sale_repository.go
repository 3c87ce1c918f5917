package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository. Las líneas se guardan como JSONB.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, service_id, customer_id, customer_name, items, subtotal, tax_amount, discount_rate,
	discount_amount, total, payment_method, status, invoice_id, notes, created_by, created_at, updated_at`

func scanSale(s scanner) (*entity.Sale, error) {
	var sl entity.Sale
	err := s.Scan(
		&sl.ID, &sl.ServiceID, &sl.CustomerID, &sl.CustomerName, &sl.Items, &sl.Subtotal, &sl.TaxAmount, &sl.DiscountRate,
		&sl.DiscountAmount, &sl.Total, &sl.PaymentMethod, &sl.Status, &sl.InvoiceID, &sl.Notes, &sl.CreatedBy, &sl.CreatedAt, &sl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	utc(&sl.CreatedAt, &sl.UpdatedAt)
	return &sl, nil
}

// Create persiste una venta con sus líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ServiceID, s.CustomerID, s.CustomerName, s.Items, s.Subtotal, s.TaxAmount, s.DiscountRate,
		s.DiscountAmount, s.Total, s.PaymentMethod, s.Status, s.InvoiceID, s.Notes, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// ListByService lista las ventas del taller, más recientes primero.
func (r *SaleRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE service_id = $1 ORDER BY created_at DESC`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza estado, factura vinculada y notas (las líneas y totales no cambian tras la venta).
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sales SET status = $2, invoice_id = $3, notes = $4, payment_method = $5, updated_at = $6 WHERE id = $1`,
		s.ID, s.Status, s.InvoiceID, s.Notes, s.PaymentMethod, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la venta.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}
