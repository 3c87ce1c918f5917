package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// scanner lo cumplen pgx.Row y pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, service_id, name, email, phone, address, customer_type, company_name, notes,
	status, job_count, total_spent, last_visit, created_at, updated_at`

func scanCustomer(s scanner) (*entity.Customer, error) {
	var c entity.Customer
	err := s.Scan(
		&c.ID, &c.ServiceID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CustomerType, &c.CompanyName, &c.Notes,
		&c.Status, &c.JobCount, &c.TotalSpent, &c.LastVisit, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	utc(&c.CreatedAt, &c.UpdatedAt)
	c.LastVisit = utcOpt(c.LastVisit)
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ServiceID, c.Name, c.Email, c.Phone, c.Address, c.CustomerType, c.CompanyName, c.Notes,
		c.Status, c.JobCount, c.TotalSpent, c.LastVisit, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// ListByService lista los clientes del taller, más recientes primero.
func (r *CustomerRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE service_id = $1 ORDER BY created_at DESC`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos editables del cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, email = $3, phone = $4, address = $5, customer_type = $6,
			company_name = $7, notes = $8, status = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.CustomerType, c.CompanyName, c.Notes, c.Status, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el cliente. Sus vehículos, órdenes y facturas no se tocan.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// RecordVisit suma una orden al contador del cliente y actualiza la última visita.
func (r *CustomerRepo) RecordVisit(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE customers SET job_count = job_count + 1, last_visit = $2, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("record customer visit: %w", err)
	}
	return nil
}

// AddSpent acumula un pago en total_spent.
func (r *CustomerRepo) AddSpent(ctx context.Context, id string, amount decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE customers SET total_spent = total_spent + $2, updated_at = NOW() WHERE id = $1`, id, amount)
	if err != nil {
		return fmt.Errorf("add customer spent: %w", err)
	}
	return nil
}
