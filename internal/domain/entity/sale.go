package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentOther    = "other"
)

// Estados de una venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusRefunded  = "refunded"
	SaleStatusVoided    = "voided"
)

// Sale transacción de punto de venta.
type Sale struct {
	ID             string
	ServiceID      string
	CustomerID     *string
	CustomerName   *string
	Items          []LineItem
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountRate   decimal.Decimal // porcentaje sobre subtotal + impuestos
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  string
	Status         string
	InvoiceID      *string
	Notes          *string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
