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

var _ repository.MenuItemRepository = (*MenuItemRepo)(nil)

// MenuItemRepo implementación de MenuItemRepository (usable con pool o tx).
type MenuItemRepo struct {
	q Querier
}

// NewMenuItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMenuItemRepository(q Querier) *MenuItemRepo {
	return &MenuItemRepo{q: q}
}

const menuItemColumns = `id, service_id, name, description, category, price, tax_rate, estimated_duration,
	inventory_id, inventory_quantity, is_active, created_at, updated_at`

func scanMenuItem(s scanner) (*entity.MenuItem, error) {
	var m entity.MenuItem
	err := s.Scan(
		&m.ID, &m.ServiceID, &m.Name, &m.Description, &m.Category, &m.Price, &m.TaxRate, &m.EstimatedDuration,
		&m.InventoryID, &m.InventoryQuantity, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	utc(&m.CreatedAt, &m.UpdatedAt)
	return &m, nil
}

// Create persiste un ítem del menú.
func (r *MenuItemRepo) Create(ctx context.Context, m *entity.MenuItem) error {
	query := `INSERT INTO menu_items (` + menuItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ServiceID, m.Name, m.Description, m.Category, m.Price, m.TaxRate, m.EstimatedDuration,
		m.InventoryID, m.InventoryQuantity, m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem del menú por ID.
func (r *MenuItemRepo) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	m, err := scanMenuItem(r.q.QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return m, nil
}

// ListByService lista el menú del taller, más recientes primero.
func (r *MenuItemRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.MenuItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE service_id = $1 ORDER BY created_at DESC`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var list []*entity.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Update actualiza el ítem completo.
func (r *MenuItemRepo) Update(ctx context.Context, m *entity.MenuItem) error {
	query := `
		UPDATE menu_items SET name = $2, description = $3, category = $4, price = $5, tax_rate = $6,
			estimated_duration = $7, inventory_id = $8, inventory_quantity = $9, is_active = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.Name, m.Description, m.Category, m.Price, m.TaxRate,
		m.EstimatedDuration, m.InventoryID, m.InventoryQuantity, m.IsActive, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el ítem del menú.
func (r *MenuItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}
