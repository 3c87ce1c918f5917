package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea de venta o factura. item_id referencia el artículo/repuesto/ítem de menú según item_type.
type LineItemRequest struct {
	ItemType    string          `json:"item_type" validate:"required,oneof=inventory part menu_item labor custom"`
	ItemID      string          `json:"item_id" validate:"omitempty,uuid"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// LineItemResponse línea calculada.
type LineItemResponse struct {
	ItemType    string          `json:"item_type"`
	ItemID      *string         `json:"item_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
}

// CheckoutRequest body para POST /api/sales/checkout: venta + descuento de stock + factura + PDF.
type CheckoutRequest struct {
	CustomerID    string            `json:"customer_id" validate:"omitempty,uuid"`
	CustomerName  string            `json:"customer_name" validate:"omitempty,max=200"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountRate  decimal.Decimal   `json:"discount_rate"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card transfer other"`
	Notes         string            `json:"notes" validate:"omitempty,max=2000"`
}

// CheckoutResponse resultado del checkout. PDFError se informa si la venta quedó registrada pero el PDF falló.
type CheckoutResponse struct {
	Sale     SaleResponse    `json:"sale"`
	Invoice  InvoiceResponse `json:"invoice"`
	PDFError string          `json:"pdf_error,omitempty"`
}

// UpdateSaleRequest actualización parcial de una venta registrada.
type UpdateSaleRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=completed refunded voided"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=cash card transfer other"`
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`
}

// SaleResponse venta en respuestas.
type SaleResponse struct {
	ID             string             `json:"id"`
	ServiceID      string             `json:"service_id"`
	CustomerID     *string            `json:"customer_id"`
	CustomerName   *string            `json:"customer_name"`
	Items          []LineItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountRate   decimal.Decimal    `json:"discount_rate"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Total          decimal.Decimal    `json:"total"`
	PaymentMethod  string             `json:"payment_method"`
	Status         string             `json:"status"`
	InvoiceID      *string            `json:"invoice_id"`
	Notes          *string            `json:"notes"`
	CreatedBy      string             `json:"created_by"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// SaleStats resumen de ventas.
type SaleStats struct {
	Count           int                        `json:"count"`
	Revenue         decimal.Decimal            `json:"revenue"`
	TaxCollected    decimal.Decimal            `json:"tax_collected"`
	AverageTicket   decimal.Decimal            `json:"average_ticket"`
	ByPaymentMethod map[string]decimal.Decimal `json:"by_payment_method"`
}

// CreateInvoiceRequest body para POST /api/invoices (factura manual).
type CreateInvoiceRequest struct {
	CustomerID    string            `json:"customer_id" validate:"omitempty,uuid"`
	CustomerName  string            `json:"customer_name" validate:"omitempty,max=200"`
	CustomerEmail string            `json:"customer_email" validate:"omitempty,email"`
	VehicleID     string            `json:"vehicle_id" validate:"omitempty,uuid"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountRate  decimal.Decimal   `json:"discount_rate"`
	Status        string            `json:"status" validate:"omitempty,oneof=draft sent"`
	DueDate       *time.Time        `json:"due_date"`
	Notes         string            `json:"notes" validate:"omitempty,max=2000"`
}

// InvoiceFromJobRequest body para POST /api/jobs/:id/invoice. Las líneas suelen salir de los work_items de la orden.
type InvoiceFromJobRequest struct {
	Items        []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountRate decimal.Decimal   `json:"discount_rate"`
	Status       string            `json:"status" validate:"omitempty,oneof=draft sent"`
	DueDate      *time.Time        `json:"due_date"`
	Notes        string            `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateInvoiceRequest actualización parcial (solo facturas en borrador admiten cambiar líneas).
type UpdateInvoiceRequest struct {
	CustomerName  *string            `json:"customer_name" validate:"omitempty,min=1,max=200"`
	CustomerEmail *string            `json:"customer_email" validate:"omitempty,email"`
	Items         *[]LineItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	DiscountRate  *decimal.Decimal   `json:"discount_rate"`
	DueDate       *time.Time         `json:"due_date"`
	Notes         *string            `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=draft sent paid overdue cancelled"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=cash card transfer other"`
}

// InvoiceResponse factura en respuestas.
type InvoiceResponse struct {
	ID             string             `json:"id"`
	ServiceID      string             `json:"service_id"`
	InvoiceNumber  string             `json:"invoice_number"`
	CustomerID     *string            `json:"customer_id"`
	CustomerName   string             `json:"customer_name"`
	CustomerEmail  *string            `json:"customer_email"`
	JobID          *string            `json:"job_id"`
	SaleID         *string            `json:"sale_id"`
	VehicleID      *string            `json:"vehicle_id"`
	Items          []LineItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountRate   decimal.Decimal    `json:"discount_rate"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Total          decimal.Decimal    `json:"total"`
	Status         string             `json:"status"`
	IssueDate      time.Time          `json:"issue_date"`
	DueDate        *time.Time         `json:"due_date"`
	PaidAt         *time.Time         `json:"paid_at"`
	PaymentMethod  *string            `json:"payment_method"`
	PDFURL         *string            `json:"pdf_url"`
	Notes          *string            `json:"notes"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// InvoiceStats resumen de facturación.
type InvoiceStats struct {
	Total       int             `json:"total"`
	ByStatus    map[string]int  `json:"by_status"`
	Billed      decimal.Decimal `json:"billed"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
}
