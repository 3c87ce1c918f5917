// Package pricing calcula los totales de ventas y facturas a partir de sus líneas.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals resultado de ComputeTotals.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// PriceLine completa Subtotal, TaxAmount y Total de una línea.
//
//	subtotal = quantity × unit_price
//	tax      = subtotal × tax_rate / 100
func PriceLine(li *entity.LineItem) {
	qty := decimal.NewFromInt(int64(li.Quantity))
	li.Subtotal = qty.Mul(li.UnitPrice).Round(2)
	li.TaxAmount = li.Subtotal.Mul(li.TaxRate).Div(hundred).Round(2)
	li.Total = li.Subtotal.Add(li.TaxAmount)
}

// ComputeTotals calcula las líneas y los totales del documento.
// El descuento se aplica sobre subtotal + impuestos y el total nunca es negativo.
func ComputeTotals(items []entity.LineItem, discountRate decimal.Decimal) Totals {
	var t Totals
	for i := range items {
		PriceLine(&items[i])
		t.Subtotal = t.Subtotal.Add(items[i].Subtotal)
		t.TaxAmount = t.TaxAmount.Add(items[i].TaxAmount)
	}
	gross := t.Subtotal.Add(t.TaxAmount)
	if discountRate.IsPositive() {
		t.DiscountAmount = gross.Mul(discountRate).Div(hundred).Round(2)
	}
	t.Total = gross.Sub(t.DiscountAmount)
	if t.Total.IsNegative() {
		t.Total = decimal.Zero
	}
	return t
}
