package listview_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gestrack/gestrack-web/internal/application/listview"
)

func testConfig() listview.Config {
	return listview.Config{
		View:            "customers",
		SortFields:      []string{"full_name", "email", "created_at"},
		DefaultSort:     "full_name",
		DefaultOrder:    listview.Asc,
		PageSizes:       []int{10, 20, 50},
		DefaultPageSize: 20,
		Filters:         []string{"show_inactive"},
	}
}

func TestDescriptorResetDePagina(t *testing.T) {
	d := testConfig().Default().WithPage(4)
	assert.Equal(t, 4, d.Page)

	t.Run("buscar vuelve a la página 1", func(t *testing.T) {
		assert.Equal(t, 1, d.WithSearch("ana").Page)
	})
	t.Run("filtrar vuelve a la página 1", func(t *testing.T) {
		assert.Equal(t, 1, d.WithFilter("show_inactive", "true").Page)
	})
	t.Run("ordenar vuelve a la página 1", func(t *testing.T) {
		assert.Equal(t, 1, d.ToggleSort("email").Page)
	})
	t.Run("cambiar tamaño vuelve a la página 1", func(t *testing.T) {
		assert.Equal(t, 1, d.WithPageSize(50).Page)
	})
	t.Run("cambiar de página no toca el resto", func(t *testing.T) {
		d2 := d.WithSearch("ana").WithPage(3)
		assert.Equal(t, 3, d2.Page)
		assert.Equal(t, "ana", d2.Search)
	})
}

func TestDescriptorToggleSort(t *testing.T) {
	d := testConfig().Default()

	d = d.ToggleSort("email")
	assert.Equal(t, "email", d.SortBy)
	assert.Equal(t, listview.Asc, d.Order)

	d = d.ToggleSort("email")
	assert.Equal(t, listview.Desc, d.Order)

	d = d.ToggleSort("email")
	assert.Equal(t, listview.Asc, d.Order)

	// Campo distinto: cambia y vuelve a ascendente.
	d = d.ToggleSort("email").ToggleSort("created_at")
	assert.Equal(t, "created_at", d.SortBy)
	assert.Equal(t, listview.Asc, d.Order)

	// Campo desconocido: no cambia nada.
	same := d.ToggleSort("no_existe")
	assert.Equal(t, d, same)
}

func TestDescriptorInmutable(t *testing.T) {
	d := testConfig().Default()
	_ = d.WithFilter("show_inactive", "true")
	assert.Empty(t, d.Filter("show_inactive"), "el receptor no debe mutarse")
}

func TestDescriptorValues(t *testing.T) {
	cfg := testConfig()

	t.Run("los defectos se omiten", func(t *testing.T) {
		assert.Equal(t, "", cfg.Default().Values().Encode())
	})

	t.Run("solo lo distinto del defecto aparece", func(t *testing.T) {
		d := cfg.Default().WithSearch("garcía").WithPage(2)
		v := d.Values()
		assert.Equal(t, "garcía", v.Get("search"))
		assert.Equal(t, "2", v.Get("page"))
		assert.Empty(t, v.Get("sort_by"))
		assert.Empty(t, v.Get("page_size"))
	})

	t.Run("orden no defecto lleva campo y dirección", func(t *testing.T) {
		v := cfg.Default().ToggleSort("full_name").Values() // mismo campo, invierte
		assert.Equal(t, "full_name", v.Get("sort_by"))
		assert.Equal(t, "desc", v.Get("order"))
	})

	t.Run("filtro falso se omite", func(t *testing.T) {
		d := cfg.Default().WithFilter("show_inactive", "false")
		assert.Empty(t, d.Values().Encode())
	})
}

func TestFromValues(t *testing.T) {
	cfg := testConfig()

	t.Run("ida y vuelta conserva el estado", func(t *testing.T) {
		d := cfg.Default().WithSearch("ana").ToggleSort("email").ToggleSort("email").WithPage(3)
		got := listview.FromValues(cfg, d.Values())
		assert.Equal(t, d.Search, got.Search)
		assert.Equal(t, d.SortBy, got.SortBy)
		assert.Equal(t, d.Order, got.Order)
		assert.Equal(t, d.Page, got.Page)
		assert.Equal(t, d.PageSize, got.PageSize)
	})

	t.Run("valores manipulados caen al defecto", func(t *testing.T) {
		v := url.Values{}
		v.Set("sort_by", "drop_table")
		v.Set("order", "sideways")
		v.Set("page", "-2")
		v.Set("page_size", "9999")
		d := listview.FromValues(cfg, v)
		assert.Equal(t, "full_name", d.SortBy)
		assert.Equal(t, listview.Asc, d.Order)
		assert.Equal(t, 1, d.Page)
		assert.Equal(t, 20, d.PageSize)
	})

	t.Run("filtros desconocidos se ignoran", func(t *testing.T) {
		v := url.Values{}
		v.Set("otro_filtro", "true")
		d := listview.FromValues(cfg, v)
		assert.Empty(t, d.Filters)
	})
}
