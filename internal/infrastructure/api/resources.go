package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/gestrack/gestrack-web/internal/domain/entity"
)

// EmailCheck resultado de la verificación de disponibilidad de email.
type EmailCheck struct {
	Available bool             `json:"available"`
	Existing  *entity.Customer `json:"existing_customer,omitempty"`
}

// CategoryRequest alta/edición de categoría.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// OrderRequest alta de pedido. Los totales los calcula el backend a partir
// de las líneas.
type OrderRequest struct {
	CustomerID     string             `json:"customer_id"`
	Items          []entity.OrderItem `json:"items"`
	TaxPercentage  decimal.Decimal    `json:"tax_percentage"`
	ShippingCost   decimal.Decimal    `json:"shipping_cost"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Notes          string             `json:"notes,omitempty"`
}

// Customers lista clientes con los parámetros de consulta ya proyectados
// (search, page, limit, is_active, sort_by, order).
func (c *Client) Customers(ctx context.Context, token string, q url.Values) ([]entity.Customer, *Pagination, error) {
	var out []entity.Customer
	pag, err := c.do(ctx, http.MethodGet, "/customers", token, q, nil, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, pag, nil
}

// Customer devuelve el detalle de un cliente.
func (c *Client) Customer(ctx context.Context, token, id string) (*entity.Customer, error) {
	var out entity.Customer
	_, err := c.do(ctx, http.MethodGet, "/customers/"+id, token, nil, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleCustomerActive activa o inactiva un cliente.
func (c *Client) ToggleCustomerActive(ctx context.Context, token, id string) (*entity.Customer, error) {
	var out entity.Customer
	_, err := c.do(ctx, http.MethodPost, "/customers/"+id+"/toggle-active", token, nil, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckCustomerEmail verifica si un email de cliente ya está registrado.
func (c *Client) CheckCustomerEmail(ctx context.Context, token, email, excludeID string) (*EmailCheck, error) {
	q := url.Values{"email": {email}}
	if excludeID != "" {
		q.Set("exclude_id", excludeID)
	}
	var out EmailCheck
	_, err := c.do(ctx, http.MethodGet, "/customers/check-email", token, q, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders lista pedidos con filtros, orden y paginación.
func (c *Client) Orders(ctx context.Context, token string, q url.Values) ([]entity.Order, *Pagination, error) {
	var out []entity.Order
	pag, err := c.do(ctx, http.MethodGet, "/orders", token, q, nil, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, pag, nil
}

// Order devuelve el detalle de un pedido con sus líneas.
func (c *Client) Order(ctx context.Context, token, id string) (*entity.Order, error) {
	var out entity.Order
	_, err := c.do(ctx, http.MethodGet, "/orders/"+id, token, nil, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder crea un pedido. El backend descuenta stock y registra los
// movimientos de venta.
func (c *Client) CreateOrder(ctx context.Context, token string, in OrderRequest) (*entity.Order, error) {
	var out entity.Order
	_, err := c.do(ctx, http.MethodPost, "/orders", token, nil, in, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder cancela un pedido pendiente, restaurando el stock.
func (c *Client) CancelOrder(ctx context.Context, token, id, notes string) (*entity.Order, error) {
	var out entity.Order
	body := map[string]string{"notes": notes}
	_, err := c.do(ctx, http.MethodPost, "/orders/"+id+"/cancel", token, nil, body, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Products lista productos con filtros, orden y paginación.
func (c *Client) Products(ctx context.Context, token string, q url.Values) ([]entity.Product, *Pagination, error) {
	var out []entity.Product
	pag, err := c.do(ctx, http.MethodGet, "/products", token, q, nil, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, pag, nil
}

// Movements lista movimientos de inventario con filtros y paginación.
func (c *Client) Movements(ctx context.Context, token string, q url.Values) ([]entity.Movement, *Pagination, error) {
	var out []entity.Movement
	pag, err := c.do(ctx, http.MethodGet, "/inventory/movements", token, q, nil, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, pag, nil
}

// CategorySummaries lista el inventario agregado por categoría.
func (c *Client) CategorySummaries(ctx context.Context, token string, q url.Values) ([]entity.CategorySummary, *Pagination, error) {
	var out []entity.CategorySummary
	pag, err := c.do(ctx, http.MethodGet, "/inventory/categories", token, q, nil, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, pag, nil
}

// Categories lista las categorías del catálogo.
func (c *Client) Categories(ctx context.Context, token string) ([]entity.Category, error) {
	var out []entity.Category
	_, err := c.do(ctx, http.MethodGet, "/categories", token, url.Values{"include_product_count": {"true"}}, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory crea una categoría.
func (c *Client) CreateCategory(ctx context.Context, token string, in CategoryRequest) (*entity.Category, error) {
	var out entity.Category
	_, err := c.do(ctx, http.MethodPost, "/categories", token, nil, in, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory edita una categoría existente.
func (c *Client) UpdateCategory(ctx context.Context, token, id string, in CategoryRequest) (*entity.Category, error) {
	var out entity.Category
	_, err := c.do(ctx, http.MethodPut, "/categories/"+id, token, nil, in, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory elimina una categoría (los productos pasan a la categoría
// por defecto, eso lo resuelve el backend).
func (c *Client) DeleteCategory(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/categories/"+id, token, nil, nil, nil)
	return err
}
