package entity

import "github.com/shopspring/decimal"

// Tipos de línea en ventas y facturas.
const (
	LineItemInventory = "inventory"
	LineItemPart      = "part"
	LineItemMenu      = "menu_item"
	LineItemLabor     = "labor"
	LineItemCustom    = "custom"
)

// LineItem una línea con precio dentro de una venta o factura.
// TaxRate es porcentaje (5 = 5%). Subtotal, TaxAmount y Total los calcula pricing.
type LineItem struct {
	ItemType    string          `json:"item_type"`
	ItemID      *string         `json:"item_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
}
