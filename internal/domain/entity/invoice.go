package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// ValidInvoiceStatus indica si s es un estado de factura conocido.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice factura generada desde una orden de trabajo o una venta.
type Invoice struct {
	ID             string
	ServiceID      string
	InvoiceNumber  string
	CustomerID     *string
	CustomerName   string
	CustomerEmail  *string
	JobID          *string
	SaleID         *string
	VehicleID      *string
	Items          []LineItem
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountRate   decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	Status         string
	IssueDate      time.Time
	DueDate        *time.Time
	PaidAt         *time.Time
	PaymentMethod  *string
	PDFURL         *string
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Outstanding indica si la factura está pendiente de cobro.
func (i *Invoice) Outstanding() bool {
	return i.Status == InvoiceStatusSent || i.Status == InvoiceStatusOverdue
}
