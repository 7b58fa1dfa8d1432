package entity

// Tipos de movimiento de inventario que reporta el backend.
const (
	MovementInitialStock = "initial_stock"
	MovementSale         = "sale"
	MovementAdjustment   = "manual_adjustment"
	MovementRestock      = "restock"
)

// Movement representa un movimiento del historial de inventario.
type Movement struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name,omitempty"`
	ProductSKU     string `json:"product_sku,omitempty"`
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name,omitempty"`
	MovementType   string `json:"movement_type"`
	Quantity       int    `json:"quantity"`
	PreviousStock  int    `json:"previous_stock"`
	NewStock       int    `json:"new_stock"`
	Reason         string `json:"reason,omitempty"`
	Reference      string `json:"reference,omitempty"`
	Notes          string `json:"notes,omitempty"`
	RelatedOrderID string `json:"related_order_id,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}
