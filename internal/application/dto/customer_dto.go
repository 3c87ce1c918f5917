package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers. Los opcionales vacíos se guardan como null.
type CreateCustomerRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"omitempty,max=50"`
	Address      string `json:"address" validate:"omitempty,max=300"`
	CustomerType string `json:"customer_type" validate:"omitempty,oneof=individual business"`
	CompanyName  string `json:"company_name" validate:"omitempty,max=200"`
	Notes        string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateCustomerRequest actualización parcial; "" en un opcional lo borra.
type UpdateCustomerRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email        *string `json:"email" validate:"omitempty,max=200"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
	Address      *string `json:"address" validate:"omitempty,max=300"`
	CustomerType *string `json:"customer_type" validate:"omitempty,oneof=individual business"`
	CompanyName  *string `json:"company_name" validate:"omitempty,max=200"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID           string          `json:"id"`
	ServiceID    string          `json:"service_id"`
	Name         string          `json:"name"`
	Email        *string         `json:"email"`
	Phone        *string         `json:"phone"`
	Address      *string         `json:"address"`
	CustomerType string          `json:"customer_type"`
	CompanyName  *string         `json:"company_name"`
	Notes        *string         `json:"notes"`
	Status       string          `json:"status"`
	JobCount     int             `json:"job_count"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	LastVisit    *time.Time      `json:"last_visit"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CustomerStats resumen de la página de clientes.
type CustomerStats struct {
	Total      int             `json:"total"`
	Active     int             `json:"active"`
	Business   int             `json:"business"`
	TotalJobs  int             `json:"total_jobs"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// DeleteCustomerResponse informa los registros que quedan huérfanos (no hay borrado en cascada).
type DeleteCustomerResponse struct {
	ID       string         `json:"id"`
	Orphaned map[string]int `json:"orphaned"`
}
