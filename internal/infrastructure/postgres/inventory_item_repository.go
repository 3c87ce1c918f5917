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

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, service_id, name, sku, category, description, quantity, min_stock_level, max_stock_level,
	unit_price, cost_price, supplier, location, status, created_at, updated_at`

func scanInventoryItem(s scanner) (*entity.InventoryItem, error) {
	var i entity.InventoryItem
	err := s.Scan(
		&i.ID, &i.ServiceID, &i.Name, &i.SKU, &i.Category, &i.Description, &i.Quantity, &i.MinStockLevel, &i.MaxStockLevel,
		&i.UnitPrice, &i.CostPrice, &i.Supplier, &i.Location, &i.Status, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	utc(&i.CreatedAt, &i.UpdatedAt)
	return &i, nil
}

// Create persiste un artículo. El estado ya debe venir derivado.
func (r *InventoryRepo) Create(ctx context.Context, i *entity.InventoryItem) error {
	query := `INSERT INTO inventory_items (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.ServiceID, i.Name, i.SKU, i.Category, i.Description, i.Quantity, i.MinStockLevel, i.MaxStockLevel,
		i.UnitPrice, i.CostPrice, i.Supplier, i.Location, i.Status, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.get(ctx, r.q, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1`, id)
}

func (r *InventoryRepo) get(ctx context.Context, q Querier, query, id string) (*entity.InventoryItem, error) {
	i, err := scanInventoryItem(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return i, nil
}

// ListByService lista el inventario del taller, más recientes primero.
func (r *InventoryRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE service_id = $1 ORDER BY created_at DESC`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryItem
	for rows.Next() {
		i, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Update actualiza el artículo completo.
func (r *InventoryRepo) Update(ctx context.Context, i *entity.InventoryItem) error {
	return r.update(ctx, r.q, i)
}

func (r *InventoryRepo) update(ctx context.Context, q Querier, i *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET name = $2, sku = $3, category = $4, description = $5, quantity = $6,
			min_stock_level = $7, max_stock_level = $8, unit_price = $9, cost_price = $10, supplier = $11,
			location = $12, status = $13, updated_at = $14
		WHERE id = $1`
	tag, err := q.Exec(ctx, query,
		i.ID, i.Name, i.SKU, i.Category, i.Description, i.Quantity,
		i.MinStockLevel, i.MaxStockLevel, i.UnitPrice, i.CostPrice, i.Supplier,
		i.Location, i.Status, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el artículo.
func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// AdjustQuantity aplica delta sobre la fila bloqueada y recalcula el estado.
func (r *InventoryRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.InventoryItem, error) {
	item, err := r.Modify(ctx, id, func(item *entity.InventoryItem) error {
		item.Adjust(delta)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("adjust inventory quantity: %w", err)
	}
	return item, nil
}

// Modify bloquea la fila (SELECT FOR UPDATE), aplica fn y escribe el resultado en la misma transacción.
func (r *InventoryRepo) Modify(ctx context.Context, id string, fn func(*entity.InventoryItem) error) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		item, err := r.get(ctx, tx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
		if err != nil || item == nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
		item.UpdatedAt = nowUTC()
		if err := r.update(ctx, tx, item); err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
