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

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implementación de PartRepository. compatible_vehicles se guarda como JSONB.
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

const partColumns = `id, service_id, name, part_number, brand, category, description, quantity, min_stock_level,
	max_stock_level, price, cost, supplier, location, compatible_vehicles, status, created_at, updated_at`

func scanPart(s scanner) (*entity.Part, error) {
	var p entity.Part
	err := s.Scan(
		&p.ID, &p.ServiceID, &p.Name, &p.PartNumber, &p.Brand, &p.Category, &p.Description, &p.Quantity, &p.MinStockLevel,
		&p.MaxStockLevel, &p.Price, &p.Cost, &p.Supplier, &p.Location, &p.CompatibleVehicles, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	utc(&p.CreatedAt, &p.UpdatedAt)
	if p.CompatibleVehicles == nil {
		p.CompatibleVehicles = []string{}
	}
	return &p, nil
}

func compatible(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// Create persiste un repuesto. El estado ya debe venir derivado.
func (r *PartRepo) Create(ctx context.Context, p *entity.Part) error {
	query := `INSERT INTO parts (` + partColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ServiceID, p.Name, p.PartNumber, p.Brand, p.Category, p.Description, p.Quantity, p.MinStockLevel,
		p.MaxStockLevel, p.Price, p.Cost, p.Supplier, p.Location, compatible(p.CompatibleVehicles), p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert part: %w", err)
	}
	return nil
}

// GetByID obtiene un repuesto por ID.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	return r.get(ctx, r.q, `SELECT `+partColumns+` FROM parts WHERE id = $1`, id)
}

func (r *PartRepo) get(ctx context.Context, q Querier, query, id string) (*entity.Part, error) {
	p, err := scanPart(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

// ListByService lista los repuestos del taller, más recientes primero.
func (r *PartRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Part, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+partColumns+` FROM parts WHERE service_id = $1 ORDER BY created_at DESC`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza el repuesto completo.
func (r *PartRepo) Update(ctx context.Context, p *entity.Part) error {
	return r.update(ctx, r.q, p)
}

func (r *PartRepo) update(ctx context.Context, q Querier, p *entity.Part) error {
	query := `
		UPDATE parts SET name = $2, part_number = $3, brand = $4, category = $5, description = $6, quantity = $7,
			min_stock_level = $8, max_stock_level = $9, price = $10, cost = $11, supplier = $12, location = $13,
			compatible_vehicles = $14, status = $15, updated_at = $16
		WHERE id = $1`
	tag, err := q.Exec(ctx, query,
		p.ID, p.Name, p.PartNumber, p.Brand, p.Category, p.Description, p.Quantity,
		p.MinStockLevel, p.MaxStockLevel, p.Price, p.Cost, p.Supplier, p.Location,
		compatible(p.CompatibleVehicles), p.Status, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el repuesto.
func (r *PartRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM parts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete part: %w", err)
	}
	return nil
}

// AdjustQuantity aplica delta sobre la fila bloqueada y recalcula el estado.
func (r *PartRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Part, error) {
	p, err := r.Modify(ctx, id, func(p *entity.Part) error {
		p.Adjust(delta)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("adjust part quantity: %w", err)
	}
	return p, nil
}

// Modify bloquea la fila (SELECT FOR UPDATE), aplica fn y escribe el resultado en la misma transacción.
func (r *PartRepo) Modify(ctx context.Context, id string, fn func(*entity.Part) error) (*entity.Part, error) {
	var out *entity.Part
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		p, err := r.get(ctx, tx, `SELECT `+partColumns+` FROM parts WHERE id = $1 FOR UPDATE`, id)
		if err != nil || p == nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = nowUTC()
		if err := r.update(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
