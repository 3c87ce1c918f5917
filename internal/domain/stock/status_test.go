package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Taller-api/internal/domain/stock"
)

func intPtr(v int) *int { return &v }

func TestClampQuantity_NuncaNegativo(t *testing.T) {
	for _, q := range []int{0, 1, 5, 100} {
		for _, d := range []int{-1000, -6, -5, -1, 0, 1, 10} {
			want := q + d
			if want < 0 {
				want = 0
			}
			assert.Equal(t, want, stock.ClampQuantity(q, d), "q=%d d=%d", q, d)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name    string
		qty     int
		min     *int
		current stock.Status
		want    stock.Status
	}{
		{"cero agota", 0, intPtr(5), stock.StatusActive, stock.StatusOutOfStock},
		{"cero agota aunque esté inactivo", 0, nil, stock.StatusInactive, stock.StatusOutOfStock},
		{"igual al mínimo es bajo", 5, intPtr(5), stock.StatusActive, stock.StatusLowStock},
		{"bajo el mínimo", 3, intPtr(5), "", stock.StatusLowStock},
		{"sobre el mínimo vuelve a activo", 15, intPtr(5), stock.StatusLowStock, stock.StatusActive},
		{"sin mínimo es activo", 1, nil, stock.StatusOutOfStock, stock.StatusActive},
		{"inactivo se conserva", 15, intPtr(5), stock.StatusInactive, stock.StatusInactive},
		{"vacío pasa a activo", 2, nil, "", stock.StatusActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stock.DeriveStatus(tc.qty, tc.min, tc.current))
		})
	}
}

func TestAjusteEncadenado_BajoActivoAgotado(t *testing.T) {
	min := intPtr(5)
	qty := 5
	status := stock.DeriveStatus(qty, min, "")
	assert.Equal(t, stock.StatusLowStock, status)

	qty = stock.ClampQuantity(qty, 10)
	status = stock.DeriveStatus(qty, min, status)
	assert.Equal(t, 15, qty)
	assert.Equal(t, stock.StatusActive, status)

	qty = stock.ClampQuantity(qty, -100)
	status = stock.DeriveStatus(qty, min, status)
	assert.Equal(t, 0, qty)
	assert.Equal(t, stock.StatusOutOfStock, status)
}

func TestSuggestedOrder(t *testing.T) {
	assert.Equal(t, 18, stock.SuggestedOrder(2, intPtr(5), intPtr(20)))
	assert.Equal(t, 8, stock.SuggestedOrder(2, intPtr(5), nil))
	assert.Equal(t, 0, stock.SuggestedOrder(30, intPtr(5), intPtr(20)))
	assert.Equal(t, 0, stock.SuggestedOrder(0, nil, nil))
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, stock.StatusLowStock.Valid())
	assert.False(t, stock.Status("discontinued").Valid())
	assert.True(t, stock.StatusInactive.Valid())
}
