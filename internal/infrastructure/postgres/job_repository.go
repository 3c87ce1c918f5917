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

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo implementación de JobRepository. work_items se guarda como JSONB.
type JobRepo struct {
	q Querier
}

// NewJobRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

const jobColumns = `id, service_id, customer_id, vehicle_id, title, description, status, priority, work_items,
	estimated_cost, actual_cost, assigned_to, scheduled_date, completed_at, notes, created_at, updated_at`

func scanJob(s scanner) (*entity.Job, error) {
	var j entity.Job
	err := s.Scan(
		&j.ID, &j.ServiceID, &j.CustomerID, &j.VehicleID, &j.Title, &j.Description, &j.Status, &j.Priority, &j.WorkItems,
		&j.EstimatedCost, &j.ActualCost, &j.AssignedTo, &j.ScheduledDate, &j.CompletedAt, &j.Notes, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	utc(&j.CreatedAt, &j.UpdatedAt)
	j.ScheduledDate = utcOpt(j.ScheduledDate)
	j.CompletedAt = utcOpt(j.CompletedAt)
	if j.WorkItems == nil {
		j.WorkItems = []string{}
	}
	return &j, nil
}

func workItems(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// Create persiste una nueva orden de trabajo.
func (r *JobRepo) Create(ctx context.Context, j *entity.Job) error {
	query := `INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		j.ID, j.ServiceID, j.CustomerID, j.VehicleID, j.Title, j.Description, j.Status, j.Priority, workItems(j.WorkItems),
		j.EstimatedCost, j.ActualCost, j.AssignedTo, j.ScheduledDate, j.CompletedAt, j.Notes, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	j, err := scanJob(r.q.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// ListByService lista las órdenes del taller, más recientes primero.
func (r *JobRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.Job, error) {
	return r.list(ctx, "service_id", serviceID)
}

// ListByCustomer lista las órdenes de un cliente.
func (r *JobRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Job, error) {
	return r.list(ctx, "customer_id", customerID)
}

// ListByVehicle lista el historial de órdenes de un vehículo.
func (r *JobRepo) ListByVehicle(ctx context.Context, vehicleID string) ([]*entity.Job, error) {
	return r.list(ctx, "vehicle_id", vehicleID)
}

func (r *JobRepo) list(ctx context.Context, column, value string) ([]*entity.Job, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE `+column+` = $1 ORDER BY created_at DESC`, value)
	if err != nil {
		return nil, fmt.Errorf("list jobs by %s: %w", column, err)
	}
	defer rows.Close()

	var list []*entity.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

// Update actualiza la orden completa.
func (r *JobRepo) Update(ctx context.Context, j *entity.Job) error {
	query := `
		UPDATE jobs SET customer_id = $2, vehicle_id = $3, title = $4, description = $5, status = $6, priority = $7,
			work_items = $8, estimated_cost = $9, actual_cost = $10, assigned_to = $11, scheduled_date = $12,
			completed_at = $13, notes = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		j.ID, j.CustomerID, j.VehicleID, j.Title, j.Description, j.Status, j.Priority,
		workItems(j.WorkItems), j.EstimatedCost, j.ActualCost, j.AssignedTo, j.ScheduledDate,
		j.CompletedAt, j.Notes, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la orden.
func (r *JobRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}
