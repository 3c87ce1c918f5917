// Package stock deriva el estado de existencias de los artículos de inventario y repuestos.
package stock

// Status estado de un artículo con existencias.
type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusOutOfStock Status = "out-of-stock"
	StatusLowStock   Status = "low-stock"
)

// Valid indica si s es uno de los estados conocidos.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOutOfStock, StatusLowStock:
		return true
	}
	return false
}

// DeriveStatus calcula el estado para la cantidad dada.
//
//	qty == 0                     -> out-of-stock
//	min definido y qty <= *min   -> low-stock
//	current == inactive          -> inactive
//	cualquier otro caso          -> active
func DeriveStatus(qty int, min *int, current Status) Status {
	if qty <= 0 {
		return StatusOutOfStock
	}
	if min != nil && qty <= *min {
		return StatusLowStock
	}
	if current == StatusInactive {
		return StatusInactive
	}
	return StatusActive
}

// ClampQuantity aplica delta sin bajar de cero.
func ClampQuantity(qty, delta int) int {
	n := qty + delta
	if n < 0 {
		return 0
	}
	return n
}

// BelowMinimum indica si el artículo debe reponerse.
func BelowMinimum(qty int, min *int) bool {
	if qty <= 0 {
		return true
	}
	return min != nil && qty <= *min
}

// SuggestedOrder cantidad sugerida para reponer hasta el máximo, o hasta 2×mínimo si no hay máximo.
func SuggestedOrder(qty int, min, max *int) int {
	target := 0
	switch {
	case max != nil && *max > 0:
		target = *max
	case min != nil:
		target = 2 * *min
	}
	if target <= qty {
		return 0
	}
	return target - qty
}
