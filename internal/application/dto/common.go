package dto

// ListQuery filtros de los listados (?search=&status=&category=&type=&payment_method=).
// "all" o vacío en un filtro no filtra.
type ListQuery struct {
	Search        string `query:"search"`
	Status        string `query:"status"`
	Category      string `query:"category"`
	Type          string `query:"type"`
	Priority      string `query:"priority"`
	PaymentMethod string `query:"payment_method"`
}

// ListResponse envoltorio de listados.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
