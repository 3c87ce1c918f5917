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

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo implementación del puerto ServiceRepository (talleres) sobre PostgreSQL.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador de persistencia para talleres.
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceColumns = `id, owner_id, name, description, address, city, phone, email, website, tax_id,
	default_tax_rate, currency, invoice_terms, created_at, updated_at`

func scanService(s scanner) (*entity.Service, error) {
	var sv entity.Service
	err := s.Scan(
		&sv.ID, &sv.OwnerID, &sv.Name, &sv.Description, &sv.Address, &sv.City, &sv.Phone, &sv.Email, &sv.Website, &sv.TaxID,
		&sv.DefaultTaxRate, &sv.Currency, &sv.InvoiceTerms, &sv.CreatedAt, &sv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	utc(&sv.CreatedAt, &sv.UpdatedAt)
	return &sv, nil
}

// Create persiste un nuevo taller.
func (r *ServiceRepo) Create(ctx context.Context, sv *entity.Service) error {
	query := `INSERT INTO services (` + serviceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		sv.ID, sv.OwnerID, sv.Name, sv.Description, sv.Address, sv.City, sv.Phone, sv.Email, sv.Website, sv.TaxID,
		sv.DefaultTaxRate, sv.Currency, sv.InvoiceTerms, sv.CreatedAt, sv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrServiceAlreadyExists
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// GetByID obtiene un taller por ID.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	sv, err := scanService(r.q.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return sv, nil
}

// GetByOwner obtiene el taller de un usuario dueño.
func (r *ServiceRepo) GetByOwner(ctx context.Context, ownerID string) (*entity.Service, error) {
	sv, err := scanService(r.q.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE owner_id = $1`, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service by owner: %w", err)
	}
	return sv, nil
}

// Update actualiza el perfil del taller.
func (r *ServiceRepo) Update(ctx context.Context, sv *entity.Service) error {
	query := `
		UPDATE services SET name = $2, description = $3, address = $4, city = $5, phone = $6, email = $7,
			website = $8, tax_id = $9, default_tax_rate = $10, currency = $11, invoice_terms = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		sv.ID, sv.Name, sv.Description, sv.Address, sv.City, sv.Phone, sv.Email,
		sv.Website, sv.TaxID, sv.DefaultTaxRate, sv.Currency, sv.InvoiceTerms, sv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el taller.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM services WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
