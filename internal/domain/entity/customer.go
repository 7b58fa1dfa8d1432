package entity

import "github.com/shopspring/decimal"

// Customer representa un cliente en los listados y el detalle.
type Customer struct {
	ID               string          `json:"id"`
	FullName         string          `json:"full_name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone,omitempty"`
	SecondaryPhone   string          `json:"secondary_phone,omitempty"`
	AddressStreet    string          `json:"address_street,omitempty"`
	AddressCity      string          `json:"address_city,omitempty"`
	AddressPostal    string          `json:"address_postal_code,omitempty"`
	AddressCountry   string          `json:"address_country,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	IsActive         bool            `json:"is_active"`
	TotalPurchases   decimal.Decimal `json:"total_purchases"`
	LastPurchaseDate string          `json:"last_purchase_date,omitempty"`
	OrderCount       int             `json:"order_count"`
	Category         string          `json:"customer_category,omitempty"` // Regular, VIP...
	CreatedAt        string          `json:"created_at,omitempty"`
	UpdatedAt        string          `json:"updated_at,omitempty"`
}
