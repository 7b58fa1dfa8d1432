package entity

import "github.com/shopspring/decimal"

// Category representa una categoría del catálogo.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Color        string `json:"color,omitempty"`
	Icon         string `json:"icon,omitempty"`
	IsDefault    bool   `json:"is_default"`
	ProductCount int    `json:"product_count,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// CategorySummary es la fila de la vista de inventario por categoría:
// agregados de stock y valor por categoría.
type CategorySummary struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ProductCount int             `json:"product_count"`
	TotalUnits   int             `json:"total_units"`
	TotalValue   decimal.Decimal `json:"total_value"`
	LowStock     int             `json:"low_stock_count"`
	OutOfStock   int             `json:"out_of_stock_count"`
}
