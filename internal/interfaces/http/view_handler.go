package http

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/gestrack/gestrack-web/internal/application/dto"
	"github.com/gestrack/gestrack-web/internal/application/listview"
	"github.com/gestrack/gestrack-web/internal/application/nav"
	"github.com/gestrack/gestrack-web/internal/domain"
	"github.com/gestrack/gestrack-web/internal/infrastructure/api"
	"github.com/gestrack/gestrack-web/pkg/logger"
)

// Configuración de consulta de cada vista de listado: campos de orden,
// tamaños de página y filtros que acepta.
var (
	customersConfig = listview.Config{
		View:            "customers",
		SortFields:      []string{"full_name", "email", "created_at"},
		DefaultSort:     "full_name",
		DefaultOrder:    listview.Asc,
		PageSizes:       []int{10, 20, 50},
		DefaultPageSize: 20,
		Filters:         []string{"show_inactive"},
	}

	productsConfig = listview.Config{
		View:            "products",
		SortFields:      []string{"name", "sku", "sale_price", "stock_quantity"},
		DefaultSort:     "name",
		DefaultOrder:    listview.Asc,
		PageSizes:       []int{10, 20, 50},
		DefaultPageSize: 20,
		Filters:         []string{"show_inactive", "low_stock"},
	}

	movementsConfig = listview.Config{
		View:            "movements",
		SortFields:      []string{"created_at", "quantity"},
		DefaultSort:     "created_at",
		DefaultOrder:    listview.Desc,
		PageSizes:       []int{20, 50, 100},
		DefaultPageSize: 50,
		Filters:         []string{"movement_type", "product_id"},
	}

	ordersConfig = listview.Config{
		View:            "orders",
		SortFields:      []string{"created_at", "order_number", "total"},
		DefaultSort:     "created_at",
		DefaultOrder:    listview.Desc,
		PageSizes:       []int{10, 20, 50},
		DefaultPageSize: 20,
		Filters:         []string{"status", "payment_status"},
	}

	inventoryCategoriesConfig = listview.Config{
		View:            "inventory-categories",
		SortFields:      []string{"category_name", "total_value", "product_count"},
		DefaultSort:     "category_name",
		DefaultOrder:    listview.Asc,
		PageSizes:       []int{10, 20, 50},
		DefaultPageSize: 20,
		Filters:         []string{"include_empty"},
	}
)

// viewPaths path de página de cada vista, para la URL canónica.
var viewPaths = map[string]string{
	"customers":            "/customers",
	"products":             "/products",
	"orders":               "/orders",
	"movements":            "/inventory/movements",
	"inventory-categories": "/inventory/categories",
}

// ViewHandler maneja las páginas de listado y sus eventos en vivo.
type ViewHandler struct {
	api   *api.Client
	views *ViewRegistry
	log   *logger.Logger
}

// NewViewHandler construye el handler de vistas.
func NewViewHandler(apiClient *api.Client, views *ViewRegistry, log *logger.Logger) *ViewHandler {
	return &ViewHandler{api: apiClient, views: views, log: log}
}

// upstreamQuery proyecta el descriptor a los parámetros que entiende el
// backend. La convención del listado de inactivos es mostrar solo activos
// salvo que el filtro diga lo contrario.
func upstreamQuery(d listview.Descriptor, withActive bool) url.Values {
	q := url.Values{}
	if d.Search != "" {
		q.Set("search", d.Search)
	}
	q.Set("page", strconv.Itoa(d.Page))
	q.Set("limit", strconv.Itoa(d.PageSize))
	q.Set("sort_by", d.SortBy)
	q.Set("order", string(d.Order))
	if withActive && d.Filter("show_inactive") != "true" {
		q.Set("is_active", "true")
	}
	return q
}

// presentable reduce el error del cliente API a un mensaje mostrable en la
// vista.
func presentable(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Message)
	}
	return errors.New(api.MsgConnection)
}

// fetcher construye el Fetcher de una vista contra el backend, con el token
// capturado al montarla.
func (h *ViewHandler) fetcher(view, token string) listview.Fetcher {
	return func(ctx context.Context, d listview.Descriptor) (listview.Page, error) {
		var (
			items any
			pag   *api.Pagination
			err   error
		)
		switch view {
		case "customers":
			items, pag, err = h.api.Customers(ctx, token, upstreamQuery(d, true))
		case "products":
			q := upstreamQuery(d, true)
			if d.Filter("low_stock") == "true" {
				q.Set("low_stock", "true")
			}
			items, pag, err = h.api.Products(ctx, token, q)
		case "orders":
			q := upstreamQuery(d, false)
			if st := d.Filter("status"); st != "" {
				q.Set("status", st)
			}
			if ps := d.Filter("payment_status"); ps != "" {
				q.Set("payment_status", ps)
			}
			items, pag, err = h.api.Orders(ctx, token, q)
		case "movements":
			q := upstreamQuery(d, false)
			if mt := d.Filter("movement_type"); mt != "" {
				q.Set("movement_type", mt)
			}
			if pid := d.Filter("product_id"); pid != "" {
				q.Set("product_id", pid)
			}
			items, pag, err = h.api.Movements(ctx, token, q)
		case "inventory-categories":
			q := upstreamQuery(d, false)
			if d.Filter("include_empty") == "true" {
				q.Set("include_empty", "true")
			}
			items, pag, err = h.api.CategorySummaries(ctx, token, q)
		default:
			return listview.Page{}, errors.New(domain.ErrNotFound.Error())
		}
		if err != nil {
			return listview.Page{}, presentable(err)
		}
		page := listview.Page{Items: items}
		if pag != nil {
			page.Total = pag.Total
			page.Pages = pag.Pages
		}
		return page, nil
	}
}

// Customers página de clientes.
func (h *ViewHandler) Customers(c *fiber.Ctx) error {
	return h.page(c, customersConfig)
}

// Products página de productos.
func (h *ViewHandler) Products(c *fiber.Ctx) error {
	return h.page(c, productsConfig)
}

// Orders página de pedidos.
func (h *ViewHandler) Orders(c *fiber.Ctx) error {
	return h.page(c, ordersConfig)
}

// Movements página de movimientos de inventario.
func (h *ViewHandler) Movements(c *fiber.Ctx) error {
	return h.page(c, movementsConfig)
}

// InventoryCategories página de inventario agregado por categoría.
func (h *ViewHandler) InventoryCategories(c *fiber.Ctx) error {
	return h.page(c, inventoryCategoriesConfig)
}

// page sirve la carga completa de una vista de listado: inicializa el
// descriptor desde la URL entrante, consulta de forma síncrona, monta el
// modelo sembrado con el resultado y devuelve el view-model con la URL
// canónica.
func (h *ViewHandler) page(c *fiber.Ctx, cfg listview.Config) error {
	user := GetUser(c)
	sess := GetSession(c)
	if user == nil || sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
	}

	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		values = url.Values{}
	}
	d := listview.FromValues(cfg, values)

	fetch := h.fetcher(cfg.View, sess.Token(c.Context()))
	model := listview.NewModel(cfg, d, fetch, listview.WithLogger(h.log))

	var errMsg string
	page, ferr := fetch(c.Context(), d)
	if ferr != nil {
		errMsg = ferr.Error()
	} else {
		model.Prime(page)
	}
	h.views.Mount(sess.SID(), cfg.View, model)

	return c.JSON(dto.ListViewResponse{
		View:         cfg.View,
		User:         *user,
		Nav:          nav.ComputeNav(domain.ParseRole(user.Role), c.Path()),
		Search:       d.Search,
		SortBy:       d.SortBy,
		Order:        string(d.Order),
		Filters:      d.Filters,
		Items:        page.Items,
		Pagination:   dto.PageResponse{Page: d.Page, PageSize: d.PageSize, Total: page.Total, Pages: page.Pages},
		Error:        errMsg,
		CanonicalURL: canonicalURL(cfg.View, d),
	})
}

func canonicalURL(view string, d listview.Descriptor) string {
	path := viewPaths[view]
	if q := d.Values().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// model resuelve el modelo montado de la vista para la sesión actual.
func (h *ViewHandler) model(c *fiber.Ctx) (*listview.Model, string, error) {
	view := c.Params("view")
	if _, ok := viewPaths[view]; !ok {
		return nil, view, domain.ErrNotFound
	}
	sess := GetSession(c)
	if sess == nil {
		return nil, view, domain.ErrSessionExpired
	}
	m := h.views.Get(sess.SID(), view)
	if m == nil {
		return nil, view, domain.ErrViewNotMounted
	}
	return m, view, nil
}

// Input registra una pulsación del campo de búsqueda (con debounce).
func (h *ViewHandler) Input(c *fiber.Ctx) error {
	return h.event(c, func(m *listview.Model, body eventBody) {
		m.InputSearch(body.Term)
	})
}

// Filter aplica un filtro (consulta inmediata).
func (h *ViewHandler) Filter(c *fiber.Ctx) error {
	return h.event(c, func(m *listview.Model, body eventBody) {
		m.SetFilter(body.Name, body.Value)
	})
}

// Sort aplica un clic en la cabecera de orden.
func (h *ViewHandler) Sort(c *fiber.Ctx) error {
	return h.event(c, func(m *listview.Model, body eventBody) {
		m.ToggleSort(body.Field)
	})
}

// Page cambia de página.
func (h *ViewHandler) Page(c *fiber.Ctx) error {
	return h.event(c, func(m *listview.Model, body eventBody) {
		m.SetPage(body.Page)
	})
}

// PageSize cambia el tamaño de página.
func (h *ViewHandler) PageSize(c *fiber.Ctx) error {
	return h.event(c, func(m *listview.Model, body eventBody) {
		m.SetPageSize(body.PageSize)
	})
}

// Refresh repite la consulta vigente (reintento explícito del usuario).
func (h *ViewHandler) Refresh(c *fiber.Ctx) error {
	return h.event(c, func(m *listview.Model, _ eventBody) {
		m.Refresh()
	})
}

// State devuelve la foto actual del modelo montado.
func (h *ViewHandler) State(c *fiber.Ctx) error {
	m, view, err := h.model(c)
	if err != nil {
		return respondViewError(c, err)
	}
	return c.JSON(stateResponse(view, m))
}

type eventBody struct {
	Term     string `json:"term"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Field    string `json:"field"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

func (h *ViewHandler) event(c *fiber.Ctx, apply func(*listview.Model, eventBody)) error {
	m, view, err := h.model(c)
	if err != nil {
		return respondViewError(c, err)
	}
	var body eventBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	apply(m, body)
	return c.JSON(stateResponse(view, m))
}

func stateResponse(view string, m *listview.Model) dto.ViewStateResponse {
	snap := m.Snapshot()
	d := snap.Descriptor
	return dto.ViewStateResponse{
		View:         view,
		State:        snap.State,
		Items:        snap.Page.Items,
		Total:        snap.Page.Total,
		Pages:        snap.Page.Pages,
		Page:         d.Page,
		PageSize:     d.PageSize,
		Search:       d.Search,
		SortBy:       d.SortBy,
		Order:        string(d.Order),
		Filters:      d.Filters,
		Error:        snap.Error,
		CanonicalURL: canonicalURL(view, d),
	}
}

// respondViewError distingue la vista no montada (la página debe recargarse
// completa) del resto de errores.
func respondViewError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrViewNotMounted) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "VIEW_NOT_MOUNTED", Message: err.Error(),
		})
	}
	return respondError(c, err)
}
