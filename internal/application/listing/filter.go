// Package listing implementa búsqueda y filtros de los listados sobre la lista ya cargada.
package listing

import (
	"strings"

	"golang.org/x/text/cases"
)

// All valor centinela de los selectores de filtro: no filtra.
const All = "all"

// fold crea un Caser por llamada: un Caser guarda estado y no se comparte entre goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// MatchesSearch indica si query aparece (sin distinguir mayúsculas) en alguno de fields.
// Una búsqueda vacía coincide con todo. Los campos nil se ignoran.
func MatchesSearch(query string, fields ...*string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	q = fold(q)
	for _, f := range fields {
		if f == nil || *f == "" {
			continue
		}
		if strings.Contains(fold(*f), q) {
			return true
		}
	}
	return false
}

// MatchesFilter compara value con la opción seleccionada. "" y "all" dejan pasar todo.
func MatchesFilter(selected, value string) bool {
	if selected == "" || strings.EqualFold(selected, All) {
		return true
	}
	return strings.EqualFold(selected, value)
}

// MatchesOptional como MatchesFilter para campos opcionales; nil solo pasa sin filtro.
func MatchesOptional(selected string, value *string) bool {
	if value == nil {
		return selected == "" || strings.EqualFold(selected, All)
	}
	return MatchesFilter(selected, *value)
}

// Filter devuelve los elementos de list que cumplen keep, conservando el orden.
func Filter[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Str adapta un string a los campos de MatchesSearch.
func Str(s string) *string {
	return &s
}

// CountBy cuenta los elementos agrupados por key.
func CountBy[T any](list []T, key func(T) string) map[string]int {
	out := make(map[string]int)
	for _, v := range list {
		out[key(v)]++
	}
	return out
}
