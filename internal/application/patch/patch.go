// Package patch aplica actualizaciones parciales: un campo nil en la petición deja el valor actual.
package patch

import "strings"

// Optional normaliza un opcional de texto: vacío (o solo espacios) se guarda como nil.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Set copia *src en *dst si src no es nil.
func Set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// String como Set pero recorta espacios.
func String(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// OptionalString reemplaza un opcional; "" lo borra (nil).
func OptionalString(dst **string, src *string) {
	if src != nil {
		*dst = Optional(*src)
	}
}

// Pointer reemplaza un opcional no textual por una copia de src.
func Pointer[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
