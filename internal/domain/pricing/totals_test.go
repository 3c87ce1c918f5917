package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals_VentaConDescuento(t *testing.T) {
	items := []entity.LineItem{
		{Description: "Filtro", Quantity: 2, UnitPrice: dec("10"), TaxRate: dec("5")},
		{Description: "Mano de obra", Quantity: 1, UnitPrice: dec("20"), TaxRate: dec("0")},
	}

	got := pricing.ComputeTotals(items, dec("10"))

	assert.True(t, got.Subtotal.Equal(dec("40")), "subtotal=%s", got.Subtotal)
	assert.True(t, got.TaxAmount.Equal(dec("1")), "tax=%s", got.TaxAmount)
	assert.True(t, got.DiscountAmount.Equal(dec("4.10")), "discount=%s", got.DiscountAmount)
	assert.True(t, got.Total.Equal(dec("36.90")), "total=%s", got.Total)

	assert.True(t, items[0].Subtotal.Equal(dec("20")))
	assert.True(t, items[0].TaxAmount.Equal(dec("1")))
	assert.True(t, items[0].Total.Equal(dec("21")))
}

func TestComputeTotals_SinDescuento(t *testing.T) {
	items := []entity.LineItem{{Quantity: 3, UnitPrice: dec("12.50"), TaxRate: dec("19")}}

	got := pricing.ComputeTotals(items, decimal.Zero)

	assert.True(t, got.Subtotal.Equal(dec("37.5")))
	assert.True(t, got.TaxAmount.Equal(dec("7.13")), "tax=%s", got.TaxAmount)
	assert.True(t, got.DiscountAmount.IsZero())
	assert.True(t, got.Total.Equal(dec("44.63")), "total=%s", got.Total)
}

func TestComputeTotals_TotalNuncaNegativo(t *testing.T) {
	items := []entity.LineItem{{Quantity: 1, UnitPrice: dec("10")}}

	got := pricing.ComputeTotals(items, dec("150"))

	assert.True(t, got.Total.IsZero())
}

func TestComputeTotals_SinLineas(t *testing.T) {
	got := pricing.ComputeTotals(nil, dec("10"))
	assert.True(t, got.Total.IsZero())
	assert.True(t, got.Subtotal.IsZero())
}
