// Package listview implementa el modelo de consulta de las vistas de listado
// (clientes, productos, movimientos, inventario por categoría): un descriptor
// serializable de búsqueda + orden + paginación + filtros, y una máquina de
// estados que lo mantiene sincronizado con el backend con debounce de
// búsqueda libre y descarte de respuestas obsoletas.
package listview

import (
	"net/url"
	"strconv"
)

// SortDir dirección de ordenamiento.
type SortDir string

// Direcciones válidas.
const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// Config define el espacio de consulta de una vista concreta: qué campos de
// orden acepta, qué tamaños de página permite y qué filtros conoce.
type Config struct {
	View            string   // nombre de la vista, ej. "customers"
	SortFields      []string // campos de orden válidos; el primero no es el defecto
	DefaultSort     string
	DefaultOrder    SortDir
	PageSizes       []int // tamaños de página permitidos
	DefaultPageSize int
	Filters         []string // nombres de filtros booleanos/categóricos
}

// Default construye el descriptor inicial de la vista.
func (c Config) Default() Descriptor {
	order := c.DefaultOrder
	if order == "" {
		order = Asc
	}
	return Descriptor{
		cfg:      c,
		SortBy:   c.DefaultSort,
		Order:    order,
		Page:     1,
		PageSize: c.DefaultPageSize,
		Filters:  map[string]string{},
	}
}

// Descriptor es el estado completo y serializable de una vista de listado.
//
// Invariante central: cualquier cambio de búsqueda, filtro, orden o tamaño
// de página devuelve la página a 1; solo el cambio explícito de página la
// mueve. Los métodos With* devuelven un descriptor nuevo, el receptor no se
// muta.
type Descriptor struct {
	cfg      Config
	Search   string
	SortBy   string
	Order    SortDir
	Page     int
	PageSize int
	Filters  map[string]string
}

func (d Descriptor) clone() Descriptor {
	f := make(map[string]string, len(d.Filters))
	for k, v := range d.Filters {
		f[k] = v
	}
	d.Filters = f
	return d
}

// WithSearch fija el término de búsqueda y resetea la página.
func (d Descriptor) WithSearch(term string) Descriptor {
	out := d.clone()
	out.Search = term
	out.Page = 1
	return out
}

// WithFilter fija un filtro de la vista y resetea la página. Un valor vacío
// elimina el filtro.
func (d Descriptor) WithFilter(name, value string) Descriptor {
	out := d.clone()
	if value == "" {
		delete(out.Filters, name)
	} else {
		out.Filters[name] = value
	}
	out.Page = 1
	return out
}

// Filter devuelve el valor del filtro o cadena vacía.
func (d Descriptor) Filter(name string) string {
	return d.Filters[name]
}

// ToggleSort aplica un clic de ordenamiento: mismo campo invierte la
// dirección; campo distinto cambia el campo y vuelve a ascendente. Resetea
// la página.
func (d Descriptor) ToggleSort(field string) Descriptor {
	out := d.clone()
	if !contains(d.cfg.SortFields, field) {
		return d
	}
	if out.SortBy == field {
		if out.Order == Asc {
			out.Order = Desc
		} else {
			out.Order = Asc
		}
	} else {
		out.SortBy = field
		out.Order = Asc
	}
	out.Page = 1
	return out
}

// WithPage cambia solo la página; el resto del descriptor no se toca.
func (d Descriptor) WithPage(n int) Descriptor {
	out := d.clone()
	if n < 1 {
		n = 1
	}
	out.Page = n
	return out
}

// WithPageSize cambia el tamaño de página (solo a un valor permitido) y
// resetea la página.
func (d Descriptor) WithPageSize(n int) Descriptor {
	if !containsInt(d.cfg.PageSizes, n) {
		return d
	}
	out := d.clone()
	out.PageSize = n
	out.Page = 1
	return out
}

// Values proyecta el descriptor a los query parameters de la URL de la
// vista. La URL es una proyección, no una segunda fuente de verdad: los
// valores por defecto se omiten (page ausente cuando es 1, search ausente
// cuando está vacío, filtros ausentes cuando son falsos).
func (d Descriptor) Values() url.Values {
	v := url.Values{}
	if d.Search != "" {
		v.Set("search", d.Search)
	}
	for _, name := range d.cfg.Filters {
		if val, ok := d.Filters[name]; ok && val != "" && val != "false" {
			v.Set(name, val)
		}
	}
	if d.SortBy != d.cfg.DefaultSort || d.Order != d.defaultOrder() {
		v.Set("sort_by", d.SortBy)
		v.Set("order", string(d.Order))
	}
	if d.Page > 1 {
		v.Set("page", strconv.Itoa(d.Page))
	}
	if d.PageSize != d.cfg.DefaultPageSize {
		v.Set("page_size", strconv.Itoa(d.PageSize))
	}
	return v
}

// FromValues inicializa el descriptor desde los query parameters de la URL
// entrante. Valores desconocidos o fuera de rango caen al defecto; nunca es
// error navegar con una URL manipulada.
func FromValues(cfg Config, v url.Values) Descriptor {
	d := cfg.Default()
	d.Search = v.Get("search")

	if sb := v.Get("sort_by"); contains(cfg.SortFields, sb) {
		d.SortBy = sb
	}
	if o := SortDir(v.Get("order")); o == Asc || o == Desc {
		d.Order = o
	}
	if n, err := strconv.Atoi(v.Get("page")); err == nil && n >= 1 {
		d.Page = n
	}
	if n, err := strconv.Atoi(v.Get("page_size")); err == nil && containsInt(cfg.PageSizes, n) {
		d.PageSize = n
	}
	for _, name := range cfg.Filters {
		if val := v.Get(name); val != "" && val != "false" {
			d.Filters[name] = val
		}
	}
	return d
}

func (d Descriptor) defaultOrder() SortDir {
	if d.cfg.DefaultOrder == "" {
		return Asc
	}
	return d.cfg.DefaultOrder
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
