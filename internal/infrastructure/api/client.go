// Package api implementa el cliente HTTP hacia el backend REST de GesTrack.
//
// Todas las operaciones devuelven o datos decodificados o un *Error con la
// misma forma, venga el fallo del transporte o de una validación del backend:
// las vistas nunca tienen que distinguir entre ambos orígenes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gestrack/gestrack-web/pkg/config"
	"github.com/gestrack/gestrack-web/pkg/logger"
)

// MsgConnection es el mensaje genérico para fallos de transporte. Es el
// mismo literal que mostraba siempre el frontend ante errores de red.
const MsgConnection = "Error de conexión con el servidor"

// Error es el error normalizado de toda operación contra el backend.
type Error struct {
	Code      string              // código del backend, ej. AUTH_ERROR; vacío en fallos de red
	Message   string              // mensaje legible para la vista
	Fields    map[string][]string // errores por campo para formularios, opcional
	Transport bool                // true si no hubo respuesta del backend
}

// Error implementa error.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: [%s] %s", e.Code, e.Message)
	}
	return "api: " + e.Message
}

// Pagination metadatos de página que acompañan a los listados.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// envelope es el sobre JSON del backend: éxito con data y paginación
// opcional, o fallo con error anidado.
type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
	Err        *envelopeError  `json:"error,omitempty"`
}

type envelopeError struct {
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
	Fields  json.RawMessage `json:"fields,omitempty"`
}

// Client es el cliente del backend GesTrack.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *logger.Logger
}

// New construye el cliente a partir de la configuración.
func New(cfg config.APIConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		hc:      &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

// NewWithHTTPClient construye el cliente con un *http.Client propio.
// Lo usan los tests para apuntar a servidores httptest.
func NewWithHTTPClient(baseURL string, hc *http.Client, log *logger.Logger) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), hc: hc, log: log}
}

// do ejecuta la petición y decodifica el sobre. out puede ser nil si no
// interesa el campo data. Devuelve la paginación si el backend la incluyó.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) (*Pagination, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Message: MsgConnection, Transport: true}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &Error{Message: MsgConnection, Transport: true}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// Sin respuesta: red caída, timeout o contexto cancelado.
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("backend inalcanzable")
		return nil, &Error{Message: MsgConnection, Transport: true}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: MsgConnection, Transport: true}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Respuesta no-JSON (proxy intermedio, HTML de error...)
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("respuesta no decodificable del backend")
		return nil, &Error{Message: MsgConnection, Transport: true}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return nil, fromEnvelope(env.Err)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &Error{Message: MsgConnection, Transport: true}
		}
	}
	return env.Pagination, nil
}

// fromEnvelope convierte el error del sobre en *Error, normalizando los
// errores por campo (el backend a veces emite details y a veces fields, con
// valores string o lista de strings).
func fromEnvelope(e *envelopeError) *Error {
	if e == nil {
		return &Error{Message: MsgConnection, Transport: true}
	}
	out := &Error{Code: e.Code, Message: e.Message}
	if out.Message == "" {
		out.Message = MsgConnection
	}
	if f := normalizeFields(e.Fields); len(f) > 0 {
		out.Fields = f
	} else if f := normalizeFields(e.Details); len(f) > 0 {
		out.Fields = f
	}
	return out
}

func normalizeFields(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	// Primer intento: campo -> lista de mensajes
	var multi map[string][]string
	if err := json.Unmarshal(raw, &multi); err == nil {
		return multi
	}
	// Segundo intento: campo -> mensaje único
	var single map[string]string
	if err := json.Unmarshal(raw, &single); err == nil {
		out := make(map[string][]string, len(single))
		for k, v := range single {
			out[k] = []string{v}
		}
		return out
	}
	return nil
}
