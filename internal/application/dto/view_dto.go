package dto

import (
	"github.com/gestrack/gestrack-web/internal/application/listview"
	"github.com/gestrack/gestrack-web/internal/application/nav"
	"github.com/gestrack/gestrack-web/internal/domain/entity"
)

// ListViewResponse es el view-model completo de una vista de listado: lo que
// la página necesita para render, más la URL canónica que el navegador debe
// reflejar (la URL es proyección del descriptor, no fuente de verdad).
type ListViewResponse struct {
	View         string            `json:"view"`
	User         entity.User       `json:"user"`
	Nav          nav.View          `json:"nav"`
	Search       string            `json:"search"`
	SortBy       string            `json:"sort_by"`
	Order        string            `json:"order"`
	Filters      map[string]string `json:"filters"`
	Items        any               `json:"items"`
	Pagination   PageResponse      `json:"pagination"`
	Error        string            `json:"error,omitempty"`
	CanonicalURL string            `json:"canonical_url"`
}

// ViewStateResponse es la foto del modelo montado que consumen los eventos
// en vivo de la vista (tecleo, filtros) mientras espera resultados.
type ViewStateResponse struct {
	View         string            `json:"view"`
	State        listview.State    `json:"state"`
	Items        any               `json:"items"`
	Total        int               `json:"total"`
	Pages        int               `json:"pages"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	Search       string            `json:"search"`
	SortBy       string            `json:"sort_by"`
	Order        string            `json:"order"`
	Filters      map[string]string `json:"filters"`
	Error        string            `json:"error,omitempty"`
	CanonicalURL string            `json:"canonical_url"`
}

// DashboardResponse view-model de los dashboards por rol.
type DashboardResponse struct {
	Role     string      `json:"role"`
	Title    string      `json:"title"`
	User     entity.User `json:"user"`
	Nav      nav.View    `json:"nav"`
	Sections []string    `json:"sections"`
}
