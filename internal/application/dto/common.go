package dto

// ErrorResponse cuerpo de error HTTP del gateway. Fields lleva los errores
// por campo listos para enlazar al formulario.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// PageResponse metadatos de página en respuestas de listados.
type PageResponse struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
	Pages    int `json:"pages"`
}
