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

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

// VehicleRepo implementación de VehicleRepository (usable con pool o tx).
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

const vehicleColumns = `id, service_id, customer_id, make, model, year, vin, license_plate, color, mileage,
	engine_type, notes, created_at, updated_at`

func scanVehicle(s scanner) (*entity.Vehicle, error) {
	var v entity.Vehicle
	err := s.Scan(
		&v.ID, &v.ServiceID, &v.CustomerID, &v.Make, &v.Model, &v.Year, &v.VIN, &v.LicensePlate, &v.Color, &v.Mileage,
		&v.EngineType, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	utc(&v.CreatedAt, &v.UpdatedAt)
	return &v, nil
}

// Create persiste un nuevo vehículo.
func (r *VehicleRepo) Create(ctx context.Context, v *entity.Vehicle) error {
	query := `INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.ServiceID, v.CustomerID, v.Make, v.Model, v.Year, v.VIN, v.LicensePlate, v.Color, v.Mileage,
		v.EngineType, v.Notes, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// GetByID obtiene un vehículo por ID.
func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	v, err := scanVehicle(r.q.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

// ListByService lista los vehículos del taller, más recientes primero.
func (r *VehicleRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Vehicle, error) {
	return r.list(ctx, "service_id", serviceID)
}

// ListByCustomer lista los vehículos de un cliente.
func (r *VehicleRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Vehicle, error) {
	return r.list(ctx, "customer_id", customerID)
}

func (r *VehicleRepo) list(ctx context.Context, column, value string) ([]*entity.Vehicle, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE `+column+` = $1 ORDER BY created_at DESC`, value)
	if err != nil {
		return nil, fmt.Errorf("list vehicles by %s: %w", column, err)
	}
	defer rows.Close()

	var list []*entity.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Update actualiza los datos del vehículo.
func (r *VehicleRepo) Update(ctx context.Context, v *entity.Vehicle) error {
	query := `
		UPDATE vehicles SET customer_id = $2, make = $3, model = $4, year = $5, vin = $6, license_plate = $7,
			color = $8, mileage = $9, engine_type = $10, notes = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		v.ID, v.CustomerID, v.Make, v.Model, v.Year, v.VIN, v.LicensePlate, v.Color, v.Mileage, v.EngineType, v.Notes, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el vehículo.
func (r *VehicleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	return nil
}
