package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de trabajo.
const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in-progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

// Prioridades de una orden de trabajo.
const (
	JobPriorityLow    = "low"
	JobPriorityMedium = "medium"
	JobPriorityHigh   = "high"
	JobPriorityUrgent = "urgent"
)

// ValidJobStatus indica si s es un estado de orden conocido.
func ValidJobStatus(s string) bool {
	switch s {
	case JobStatusPending, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// Job orden de trabajo sobre un vehículo de un cliente.
// WorkItems es una lista de descripciones libres; se persiste codificada como JSON.
type Job struct {
	ID            string
	ServiceID     string
	CustomerID    string
	VehicleID     string
	Title         string
	Description   *string
	Status        string
	Priority      string
	WorkItems     []string
	EstimatedCost *decimal.Decimal
	ActualCost    *decimal.Decimal
	AssignedTo    *string
	ScheduledDate *time.Time
	CompletedAt   *time.Time
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
