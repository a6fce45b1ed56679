package dto

// ListResponse envoltorio de listados sin paginación.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse construye el listado; nunca serializa items como null.
func NewListResponse[T any](items []T) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{Items: items, Total: len(items)}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
