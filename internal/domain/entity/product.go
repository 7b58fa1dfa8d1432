package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo en listados y detalle.
// Los precios se manejan con decimal para no perder centavos al proyectar
// totales (valor de inventario, líneas de pedido) en las vistas.
type Product struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     string          `json:"created_at,omitempty"`
	UpdatedAt     string          `json:"updated_at,omitempty"`
}

// LowStock indica si el producto está en o por debajo de su nivel mínimo.
func (p Product) LowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}
