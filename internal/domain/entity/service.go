package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service representa el taller o centro de servicio (tenant). Relación 1:1 con su usuario dueño.
type Service struct {
	ID             string
	OwnerID        string
	Name           string
	Description    *string
	Address        *string
	City           *string
	Phone          *string
	Email          *string
	Website        *string
	TaxID          *string
	DefaultTaxRate decimal.Decimal // porcentaje, ej. 19 = 19%
	Currency       string
	InvoiceTerms   int // días para el vencimiento de facturas enviadas
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
