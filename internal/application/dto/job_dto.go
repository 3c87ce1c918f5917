package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateJobRequest body para POST /api/jobs.
type CreateJobRequest struct {
	CustomerID    string           `json:"customer_id" validate:"required,uuid"`
	VehicleID     string           `json:"vehicle_id" validate:"required,uuid"`
	Title         string           `json:"title" validate:"required,max=200"`
	Description   string           `json:"description" validate:"omitempty,max=4000"`
	Status        string           `json:"status" validate:"omitempty,oneof=pending in-progress completed cancelled"`
	Priority      string           `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	WorkItems     []string         `json:"work_items" validate:"omitempty,dive,required,max=500"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	AssignedTo    string           `json:"assigned_to" validate:"omitempty,max=200"`
	ScheduledDate *time.Time       `json:"scheduled_date"`
	Notes         string           `json:"notes" validate:"omitempty,max=4000"`
}

// UpdateJobRequest actualización parcial.
type UpdateJobRequest struct {
	Title         *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=4000"`
	Status        *string          `json:"status" validate:"omitempty,oneof=pending in-progress completed cancelled"`
	Priority      *string          `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	WorkItems     *[]string        `json:"work_items"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	ActualCost    *decimal.Decimal `json:"actual_cost"`
	AssignedTo    *string          `json:"assigned_to" validate:"omitempty,max=200"`
	ScheduledDate *time.Time       `json:"scheduled_date"`
	Notes         *string          `json:"notes" validate:"omitempty,max=4000"`
}

// UpdateJobStatusRequest body para PATCH /api/jobs/:id/status.
type UpdateJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in-progress completed cancelled"`
}

// JobResponse orden de trabajo en respuestas.
type JobResponse struct {
	ID            string           `json:"id"`
	ServiceID     string           `json:"service_id"`
	CustomerID    string           `json:"customer_id"`
	VehicleID     string           `json:"vehicle_id"`
	Title         string           `json:"title"`
	Description   *string          `json:"description"`
	Status        string           `json:"status"`
	Priority      string           `json:"priority"`
	WorkItems     []string         `json:"work_items"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	ActualCost    *decimal.Decimal `json:"actual_cost"`
	AssignedTo    *string          `json:"assigned_to"`
	ScheduledDate *time.Time       `json:"scheduled_date"`
	CompletedAt   *time.Time       `json:"completed_at"`
	Notes         *string          `json:"notes"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// JobStats conteo de órdenes por estado.
type JobStats struct {
	Total      int             `json:"total"`
	ByStatus   map[string]int  `json:"by_status"`
	Estimated  decimal.Decimal `json:"estimated_total"`
	ActualCost decimal.Decimal `json:"actual_total"`
}
