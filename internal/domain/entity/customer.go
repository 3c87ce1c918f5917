package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y estados de cliente.
const (
	CustomerTypeIndividual = "individual"
	CustomerTypeBusiness   = "business"

	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

// Customer representa un cliente del taller. Los campos opcionales vacíos se guardan como nil.
type Customer struct {
	ID           string
	ServiceID    string
	Name         string
	Email        *string
	Phone        *string
	Address      *string
	CustomerType string // individual, business
	CompanyName  *string
	Notes        *string
	Status       string // active, inactive
	JobCount     int
	TotalSpent   decimal.Decimal
	LastVisit    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
