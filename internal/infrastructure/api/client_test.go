package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestrack/gestrack-web/internal/infrastructure/api"
	"github.com/gestrack/gestrack-web/pkg/logger"
)

func newClient(t *testing.T, handler http.HandlerFunc) (*api.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.NewWithHTTPClient(srv.URL, srv.Client(), logger.Nop()), srv
}

func TestClientLoginExitoso(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@gestrack.com", body["email"])
		assert.Equal(t, true, body["remember_me"])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "tok-abc",
				"user":  map[string]any{"id": "u1", "full_name": "Ana", "role": "Admin"},
			},
		})
	})

	creds, err := client.Login(context.Background(), "ana@gestrack.com", "Secreta123", true)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", creds.Token)
	assert.Equal(t, "Ana", creds.User.FullName)
}

func TestClientErrorDelBackend(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error": map[string]any{
				"code":    "AUTH_ERROR",
				"message": "Email o contraseña incorrectos",
			},
		})
	})

	_, err := client.Login(context.Background(), "ana@gestrack.com", "mala", false)
	require.Error(t, err)

	apiErr, ok := err.(*api.Error)
	require.True(t, ok)
	assert.Equal(t, "AUTH_ERROR", apiErr.Code)
	assert.Equal(t, "Email o contraseña incorrectos", apiErr.Message)
	assert.False(t, apiErr.Transport)
}

// Los errores por campo llegan a veces como lista y a veces como string.
func TestClientNormalizaErroresDeCampo(t *testing.T) {
	t.Run("campo a lista", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error": map[string]any{
					"code":    "VALIDATION",
					"message": "datos inválidos",
					"fields":  map[string][]string{"email": {"ya registrado"}},
				},
			})
		})
		_, err := client.Register(context.Background(), api.RegisterRequest{})
		apiErr := asAPIError(t, err)
		assert.Equal(t, []string{"ya registrado"}, apiErr.Fields["email"])
	})

	t.Run("campo a string en details", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error": map[string]any{
					"code":    "VALIDATION",
					"message": "datos inválidos",
					"details": map[string]string{"email": "ya registrado"},
				},
			})
		})
		_, err := client.Register(context.Background(), api.RegisterRequest{})
		apiErr := asAPIError(t, err)
		assert.Equal(t, []string{"ya registrado"}, apiErr.Fields["email"])
	})
}

func TestClientFalloDeTransporte(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := api.NewWithHTTPClient(srv.URL, srv.Client(), logger.Nop())
	srv.Close() // el backend ya no responde

	_, err := client.Login(context.Background(), "ana@gestrack.com", "x", false)
	apiErr := asAPIError(t, err)
	assert.True(t, apiErr.Transport)
	assert.Equal(t, api.MsgConnection, apiErr.Message)
	assert.Empty(t, apiErr.Code)
}

// Una respuesta no-JSON (el HTML de un proxy caído) también normaliza a
// error de conexión.
func TestClientRespuestaNoJSON(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	})

	_, err := client.Login(context.Background(), "ana@gestrack.com", "x", false)
	apiErr := asAPIError(t, err)
	assert.True(t, apiErr.Transport)
	assert.Equal(t, api.MsgConnection, apiErr.Message)
}

func TestClientListadoConPaginacion(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers", r.URL.Path)
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "garcia", r.URL.Query().Get("search"))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": "c1", "full_name": "José García", "is_active": true},
			},
			"pagination": map[string]any{"page": 2, "per_page": 20, "total": 41, "pages": 3},
		})
	})

	q := url.Values{"search": {"garcia"}}
	customers, pag, err := client.Customers(context.Background(), "tok-abc", q)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "José García", customers[0].FullName)
	require.NotNil(t, pag)
	assert.Equal(t, 2, pag.Page)
	assert.Equal(t, 41, pag.Total)
	assert.Equal(t, 3, pag.Pages)
}

func asAPIError(t *testing.T, err error) *api.Error {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*api.Error)
	require.True(t, ok, "el error debe ser *api.Error, fue %T", err)
	return apiErr
}
