package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestrack/gestrack-web/internal/application/auth"
	"github.com/gestrack/gestrack-web/internal/application/session"
	"github.com/gestrack/gestrack-web/internal/infrastructure/api"
	"github.com/gestrack/gestrack-web/internal/infrastructure/sessionstore"
	apphttp "github.com/gestrack/gestrack-web/internal/interfaces/http"
	"github.com/gestrack/gestrack-web/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testCookie = "gestrack_sid"

// upstreamStub backend mínimo: login por email (el rol va en el email) y
// listado de clientes que refleja los parámetros recibidos.
func upstreamStub(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var in struct {
				Email string `json:"email"`
			}
			json.NewDecoder(r.Body).Decode(&in)
			role := map[string]string{
				"admin@gestrack.com":   "Admin",
				"almacen@gestrack.com": "Gerente de Almacén",
				"ventas@gestrack.com":  "Personal de Ventas",
			}[in.Email]
			if role == "" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   map[string]any{"code": "AUTH_ERROR", "message": "Email o contraseña incorrectos"},
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"token": "tok-" + role,
					"user":  map[string]any{"id": "u1", "full_name": "Test", "email": in.Email, "role": role},
				},
			})
		case "/auth/logout":
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		case "/customers":
			q := r.URL.Query()
			page, _ := strconv.Atoi(q.Get("page"))
			if page == 0 {
				page = 1
			}
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": []map[string]any{
					{"id": "c1", "full_name": "eco:" + q.Get("search"), "is_active": q.Get("is_active") != "true"},
				},
				"pagination": map[string]any{"page": page, "per_page": 20, "total": 1, "pages": 1},
			})
		case "/orders":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": []map[string]any{
					{"id": "o1", "order_number": "ORD-20260831-0001", "customer_name": "María", "status": "Pendiente", "total": "189.99"},
				},
				"pagination": map[string]any{"page": 1, "per_page": 20, "total": 1, "pages": 1},
			})
		case "/inventory/movements":
			json.NewEncoder(w).Encode(map[string]any{
				"success":    true,
				"data":       []map[string]any{},
				"pagination": map[string]any{"page": 1, "per_page": 50, "total": 0, "pages": 1},
			})
		default:
			t.Logf("upstream: ruta no esperada %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   map[string]any{"code": "NOT_FOUND", "message": "no encontrado"},
			})
		}
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(upstreamStub(t))
	t.Cleanup(srv.Close)

	client := api.NewWithHTTPClient(srv.URL, srv.Client(), logger.Nop())
	mgr := session.NewManager(sessionstore.NewMemoryStore(), logger.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:   mgr,
		API:        client,
		AuthSvc:    auth.New(client, logger.Nop()),
		Views:      apphttp.NewViewRegistry(),
		CookieName: testCookie,
		Log:        logger.Nop(),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, sid string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: sid})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// login inicia sesión y devuelve el sid de la cookie.
func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/login", "", map[string]any{
		"email": email, "password": "Secreta123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid, "el login debe dejar cookie de sesión")
	resp.Body.Close()
	return sid
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardia de rutas y despacho por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestGuardiaRedirigeAlLogin(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "/products", loc.Query().Get("from"))
	assert.Equal(t, apphttp.MsgLoginRequired, loc.Query().Get("message"))
}

func TestGuardiaRolProhibido(t *testing.T) {
	app := newTestApp(t)
	sid := login(t, app, "almacen@gestrack.com") // Gerente de Almacén

	// Clientes es de Admin y Ventas.
	resp := doJSON(t, app, fiber.MethodGet, "/customers", sid, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/forbidden", resp.Header.Get("Location"))

	// Pedidos tampoco.
	resp = doJSON(t, app, fiber.MethodGet, "/orders", sid, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/forbidden", resp.Header.Get("Location"))

	// Inventario sí.
	resp = doJSON(t, app, fiber.MethodGet, "/inventory/movements", sid, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestVistaPedidos(t *testing.T) {
	app := newTestApp(t)
	sid := login(t, app, "ventas@gestrack.com")

	resp := doJSON(t, app, fiber.MethodGet, "/orders", sid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		View         string           `json:"view"`
		SortBy       string           `json:"sort_by"`
		Order        string           `json:"order"`
		Items        []map[string]any `json:"items"`
		CanonicalURL string           `json:"canonical_url"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "orders", out.View)
	assert.Equal(t, "created_at", out.SortBy)
	assert.Equal(t, "desc", out.Order)
	assert.Equal(t, "/orders", out.CanonicalURL)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "ORD-20260831-0001", out.Items[0]["order_number"])
}

func TestLoginDespachaDashboardPorRol(t *testing.T) {
	app := newTestApp(t)
	cases := map[string]string{
		"admin@gestrack.com":   "/dashboard/admin",
		"almacen@gestrack.com": "/dashboard/warehouse",
		"ventas@gestrack.com":  "/dashboard/sales",
	}
	for email, want := range cases {
		resp := doJSON(t, app, fiber.MethodPost, "/login", "", map[string]any{
			"email": email, "password": "Secreta123",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			RedirectTo string `json:"redirect_to"`
		}
		decode(t, resp, &out)
		assert.Equal(t, want, out.RedirectTo, email)
	}
}

func TestLoginHonraRetorno(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, fiber.MethodPost, "/login", "", map[string]any{
		"email": "ventas@gestrack.com", "password": "Secreta123", "from": "/customers?page=2",
	})
	var out struct {
		RedirectTo string `json:"redirect_to"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "/customers?page=2", out.RedirectTo)
}

func TestLoginIgnoraRetornoExterno(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, fiber.MethodPost, "/login", "", map[string]any{
		"email": "ventas@gestrack.com", "password": "Secreta123", "from": "https://evil.example.com/",
	})
	var out struct {
		RedirectTo string `json:"redirect_to"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "/dashboard/sales", out.RedirectTo)
}

func TestLoginInvalido(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, fiber.MethodPost, "/login", "", map[string]any{
		"email": "nadie@gestrack.com", "password": "x",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var out struct {
		Code string `json:"code"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "AUTH_ERROR", out.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Vistas de listado: carga, eventos y URL canónica
// ──────────────────────────────────────────────────────────────────────────────

func TestVistaCargaCompleta(t *testing.T) {
	app := newTestApp(t)
	sid := login(t, app, "ventas@gestrack.com")

	resp := doJSON(t, app, fiber.MethodGet, "/customers?search=garcia&page=2", sid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		View         string `json:"view"`
		Search       string `json:"search"`
		CanonicalURL string `json:"canonical_url"`
		Pagination   struct {
			Page int `json:"page"`
		} `json:"pagination"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "customers", out.View)
	assert.Equal(t, "garcia", out.Search)
	assert.Equal(t, 2, out.Pagination.Page)
	assert.Equal(t, "/customers?page=2&search=garcia", out.CanonicalURL)
}

func TestVistaEventoFiltro(t *testing.T) {
	app := newTestApp(t)
	sid := login(t, app, "ventas@gestrack.com")

	resp := doJSON(t, app, fiber.MethodGet, "/customers?page=3", sid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// El filtro consulta de inmediato y resetea la página.
	resp = doJSON(t, app, fiber.MethodPost, "/views/customers/filter", sid, map[string]any{
		"name": "show_inactive", "value": "true",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Page         int               `json:"page"`
		Filters      map[string]string `json:"filters"`
		CanonicalURL string            `json:"canonical_url"`
	}
	decode(t, resp, &out)
	assert.Equal(t, 1, out.Page, "cambiar un filtro vuelve a la página 1")
	assert.Equal(t, "true", out.Filters["show_inactive"])
	assert.Equal(t, "/customers?show_inactive=true", out.CanonicalURL)
}

func TestVistaDebouncePorTecleo(t *testing.T) {
	app := newTestApp(t)
	sid := login(t, app, "ventas@gestrack.com")

	resp := doJSON(t, app, fiber.MethodGet, "/customers", sid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Tecleo: el estado queda en debounce, sin consulta inmediata.
	resp = doJSON(t, app, fiber.MethodPost, "/views/customers/input", sid, map[string]any{"term": "gar"})
	var out struct {
		State  string `json:"state"`
		Search string `json:"search"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "debouncing", out.State)
	assert.Empty(t, out.Search, "el término no se asienta hasta vencer la ventana")

	// Al vencer la ventana el término se asienta y la consulta sale.
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(fiber.MethodGet, "/views/customers/state", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: sid})
		resp, err := app.Test(req, -1)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var st struct {
			State  string `json:"state"`
			Search string `json:"search"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			return false
		}
		return st.State == "idle" && st.Search == "gar"
	}, 2*time.Second, 25*time.Millisecond)
}

func TestVistaNoMontada(t *testing.T) {
	app := newTestApp(t)
	sid := login(t, app, "ventas@gestrack.com")

	resp := doJSON(t, app, fiber.MethodPost, "/views/customers/input", sid, map[string]any{"term": "x"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var out struct {
		Code string `json:"code"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "VIEW_NOT_MOUNTED", out.Code)
}

func TestVistaDesconocida(t *testing.T) {
	app := newTestApp(t)
	sid := login(t, app, "ventas@gestrack.com")

	resp := doJSON(t, app, fiber.MethodGet, "/views/facturas/state", sid, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogoutDesmontaVistas(t *testing.T) {
	app := newTestApp(t)
	sid := login(t, app, "ventas@gestrack.com")

	resp := doJSON(t, app, fiber.MethodGet, "/customers", sid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodPost, "/logout", sid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// La sesión quedó cerrada: la guardia corta antes de llegar a la vista.
	resp = doJSON(t, app, fiber.MethodPost, "/views/customers/input", sid, map[string]any{"term": "x"})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestForbiddenEsPublica(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, fiber.MethodGet, "/forbidden", "", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPasswordStrengthEndpoint(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, fiber.MethodPost, "/password-strength", "", map[string]any{"password": "Abcdef12"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Strength string `json:"strength"`
		Valid    bool   `json:"valid"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "media", out.Strength)
	assert.True(t, out.Valid)
}
