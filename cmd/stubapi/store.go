package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gestrack/gestrack-web/internal/domain"
	"github.com/gestrack/gestrack-web/internal/domain/entity"
)

// account usuario con su hash de contraseña. El perfil público es lo único
// que sale por la API.
type account struct {
	entity.User
	PasswordHash []byte
}

// store es el estado en memoria del backend de desarrollo.
type store struct {
	mu         sync.RWMutex
	users      map[string]*account
	customers  map[string]*entity.Customer
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	orders     map[string]*entity.Order
	orderSeq   int
	movements  []entity.Movement
	resets     map[string]string // token de recuperación -> userID
}

// foldT descompone, quita diacríticos y recompone: "Pérez" == "perez" al
// buscar.
var foldT = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	out, _, err := transform.String(foldT, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

func matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	t := fold(term)
	for _, f := range fields {
		if strings.Contains(fold(f), t) {
			return true
		}
	}
	return false
}

func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05")
}

func hash(pw string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}

// newStore arma el dataset de demostración: un usuario por rol (las
// contraseñas son el nombre del rol + "123", p. ej. Admin123), categorías,
// productos con sus movimientos de stock inicial y una cartera de clientes.
func newStore() *store {
	s := &store{
		users:      map[string]*account{},
		customers:  map[string]*entity.Customer{},
		products:   map[string]*entity.Product{},
		categories: map[string]*entity.Category{},
		orders:     map[string]*entity.Order{},
		resets:     map[string]string{},
	}

	seedUsers := []struct {
		name, email, role, pw string
	}{
		{"Ana Martínez", "admin@gestrack.com", string(domain.RoleAdmin), "Admin123"},
		{"Luis Gómez", "almacen@gestrack.com", string(domain.RoleGerente), "Almacen123"},
		{"Sofía Pérez", "ventas@gestrack.com", string(domain.RoleVendedor), "Ventas123"},
	}
	for _, u := range seedUsers {
		id := uuid.NewString()
		s.users[id] = &account{
			User: entity.User{
				ID: id, FullName: u.name, Email: u.email,
				Role: u.role, IsActive: true, CreatedAt: now(),
			},
			PasswordHash: hash(u.pw),
		}
	}

	type cat struct{ name, color, icon string }
	for i, c := range []cat{
		{"General", "#6B7280", "box"},
		{"Electrónica", "#3B82F6", "cpu"},
		{"Papelería", "#F59E0B", "pen"},
	} {
		id := uuid.NewString()
		s.categories[id] = &entity.Category{
			ID: id, Name: c.name, Color: c.color, Icon: c.icon,
			IsDefault: i == 0, CreatedAt: now(),
		}
	}

	catByName := func(name string) *entity.Category {
		for _, c := range s.categories {
			if c.Name == name {
				return c
			}
		}
		return nil
	}

	type prod struct {
		sku, name, cat  string
		cost, sale      string
		stock, minStock int
	}
	for _, p := range []prod{
		{"ELE-001", "Monitor 24\"", "Electrónica", "120.00", "189.99", 14, 5},
		{"ELE-002", "Teclado mecánico", "Electrónica", "35.50", "64.90", 3, 5},
		{"PAP-001", "Cuaderno A4", "Papelería", "1.20", "2.75", 240, 50},
		{"PAP-002", "Bolígrafo azul", "Papelería", "0.18", "0.60", 38, 100},
		{"GEN-001", "Caja de cartón", "General", "0.45", "1.10", 500, 80},
	} {
		id := uuid.NewString()
		c := catByName(p.cat)
		s.products[id] = &entity.Product{
			ID: id, SKU: p.sku, Name: p.name,
			CostPrice:     decimal.RequireFromString(p.cost),
			SalePrice:     decimal.RequireFromString(p.sale),
			StockQuantity: p.stock, MinStockLevel: p.minStock,
			CategoryID: c.ID, CategoryName: c.Name,
			IsActive: true, CreatedAt: now(), UpdatedAt: now(),
		}
	}

	var admin *account
	for _, u := range s.users {
		if u.Role == string(domain.RoleAdmin) {
			admin = u
		}
	}
	for _, p := range s.products {
		s.movements = append(s.movements, entity.Movement{
			ID: uuid.NewString(), ProductID: p.ID, ProductName: p.Name,
			ProductSKU: p.SKU, UserID: admin.ID, UserName: admin.FullName,
			MovementType: entity.MovementInitialStock,
			Quantity:     p.StockQuantity, PreviousStock: 0, NewStock: p.StockQuantity,
			Reason: "Stock inicial", CreatedAt: now(),
		})
	}

	var seller *account
	for _, u := range s.users {
		if u.Role == string(domain.RoleVendedor) {
			seller = u
		}
	}

	type cust struct{ name, email, city string }
	for i, c := range []cust{
		{"María López", "maria.lopez@example.com", "Madrid"},
		{"José García", "jose.garcia@example.com", "Sevilla"},
		{"Andrés Núñez", "andres.nunez@example.com", "Valencia"},
		{"Lucía Fernández", "lucia.fernandez@example.com", "Bilbao"},
	} {
		id := uuid.NewString()
		s.customers[id] = &entity.Customer{
			ID: id, FullName: c.name, Email: c.email,
			AddressCity: c.city, IsActive: i != 3,
			TotalPurchases: decimal.Zero, Category: "Regular",
			CreatedAt: now(), UpdatedAt: now(),
		}
	}

	prodBySKU := func(sku string) *entity.Product {
		for _, p := range s.products {
			if p.SKU == sku {
				return p
			}
		}
		return nil
	}
	custByEmail := func(email string) *entity.Customer {
		for _, c := range s.customers {
			if c.Email == email {
				return c
			}
		}
		return nil
	}
	for _, o := range []struct {
		email, sku string
		qty        int
	}{
		{"maria.lopez@example.com", "ELE-001", 2},
		{"jose.garcia@example.com", "PAP-001", 30},
	} {
		line := entity.OrderItem{ProductID: prodBySKU(o.sku).ID, Quantity: o.qty}
		s.placeOrderLocked(&seller.User, custByEmail(o.email), []entity.OrderItem{line},
			decimal.NewFromInt(21), decimal.Zero, decimal.Zero, "")
	}

	return s
}

// placeOrderLocked valida stock, calcula totales, descuenta existencias y
// registra los movimientos de venta. Requiere s.mu tomado en escritura.
// Devuelve el mensaje de error en español, vacío si el pedido quedó creado.
func (s *store) placeOrderLocked(user *entity.User, cust *entity.Customer, lines []entity.OrderItem, taxPct, shipping, discount decimal.Decimal, notes string) (*entity.Order, string) {
	if cust == nil || !cust.IsActive {
		return nil, "Cliente no encontrado o inactivo"
	}
	if len(lines) == 0 {
		return nil, "El pedido necesita al menos una línea"
	}

	subtotal := decimal.Zero
	items := make([]entity.OrderItem, 0, len(lines))
	for _, ln := range lines {
		p, found := s.products[ln.ProductID]
		if !found || !p.IsActive {
			return nil, "Producto no encontrado"
		}
		if ln.Quantity < 1 {
			return nil, "La cantidad debe ser mayor que cero"
		}
		if p.StockQuantity < ln.Quantity {
			return nil, "Stock insuficiente para " + p.Name
		}
		price := ln.UnitPrice
		if price.IsZero() {
			price = p.SalePrice
		}
		lineSub := price.Mul(decimal.NewFromInt(int64(ln.Quantity)))
		subtotal = subtotal.Add(lineSub)
		items = append(items, entity.OrderItem{
			ProductID: p.ID, ProductName: p.Name, ProductSKU: p.SKU,
			Quantity: ln.Quantity, UnitPrice: price, Subtotal: lineSub,
		})
	}

	taxAmount := subtotal.Mul(taxPct).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(taxAmount).Add(shipping).Sub(discount)

	s.orderSeq++
	ord := &entity.Order{
		ID:          uuid.NewString(),
		OrderNumber: fmt.Sprintf("ORD-%s-%04d", time.Now().UTC().Format("20060102"), s.orderSeq),
		CustomerID:  cust.ID, CustomerName: cust.FullName,
		Status: entity.OrderPending, PaymentStatus: entity.PaymentPending,
		Subtotal: subtotal, TaxPercentage: taxPct, TaxAmount: taxAmount,
		ShippingCost: shipping, DiscountAmount: discount, Total: total,
		Items: items, Notes: notes, CreatedAt: now(), UpdatedAt: now(),
	}
	s.orders[ord.ID] = ord

	for _, it := range items {
		p := s.products[it.ProductID]
		prev := p.StockQuantity
		p.StockQuantity -= it.Quantity
		p.UpdatedAt = now()
		s.movements = append(s.movements, entity.Movement{
			ID: uuid.NewString(), ProductID: p.ID, ProductName: p.Name,
			ProductSKU: p.SKU, UserID: user.ID, UserName: user.FullName,
			MovementType: entity.MovementSale,
			Quantity:     -it.Quantity, PreviousStock: prev, NewStock: p.StockQuantity,
			Reason: "Venta - Pedido " + ord.OrderNumber, Reference: ord.OrderNumber,
			RelatedOrderID: ord.ID, CreatedAt: now(),
		})
	}

	cust.OrderCount++
	cust.TotalPurchases = cust.TotalPurchases.Add(total)
	cust.LastPurchaseDate = ord.CreatedAt
	cust.UpdatedAt = now()
	return ord, ""
}

// cancelOrderLocked revierte un pedido pendiente: restaura el stock con
// movimientos de reposición y marca el pedido como cancelado.
func (s *store) cancelOrderLocked(user *entity.User, ord *entity.Order, notes string) string {
	if ord.Status != entity.OrderPending {
		return "Solo se pueden cancelar pedidos pendientes"
	}
	for _, it := range ord.Items {
		p, found := s.products[it.ProductID]
		if !found {
			continue
		}
		prev := p.StockQuantity
		p.StockQuantity += it.Quantity
		p.UpdatedAt = now()
		s.movements = append(s.movements, entity.Movement{
			ID: uuid.NewString(), ProductID: p.ID, ProductName: p.Name,
			ProductSKU: p.SKU, UserID: user.ID, UserName: user.FullName,
			MovementType: entity.MovementRestock,
			Quantity:     it.Quantity, PreviousStock: prev, NewStock: p.StockQuantity,
			Reason: "Cancelación - Pedido " + ord.OrderNumber, Reference: ord.OrderNumber,
			RelatedOrderID: ord.ID, CreatedAt: now(),
		})
	}
	ord.Status = entity.OrderCancelled
	if notes != "" {
		ord.Notes = notes
	}
	ord.UpdatedAt = now()

	if cust, found := s.customers[ord.CustomerID]; found {
		if cust.OrderCount > 0 {
			cust.OrderCount--
		}
		cust.TotalPurchases = cust.TotalPurchases.Sub(ord.Total)
		cust.UpdatedAt = now()
	}
	return ""
}

// categorySummaries agrega stock y valor de inventario por categoría.
func (s *store) categorySummaries(includeEmpty bool) []entity.CategorySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCat := map[string]*entity.CategorySummary{}
	for _, c := range s.categories {
		byCat[c.ID] = &entity.CategorySummary{CategoryID: c.ID, CategoryName: c.Name, TotalValue: decimal.Zero}
	}
	for _, p := range s.products {
		sum, ok := byCat[p.CategoryID]
		if !ok {
			continue
		}
		sum.ProductCount++
		sum.TotalUnits += p.StockQuantity
		sum.TotalValue = sum.TotalValue.Add(p.CostPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
		if p.StockQuantity == 0 {
			sum.OutOfStock++
		} else if p.LowStock() {
			sum.LowStock++
		}
	}

	out := make([]entity.CategorySummary, 0, len(byCat))
	for _, sum := range byCat {
		if sum.ProductCount == 0 && !includeEmpty {
			continue
		}
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryName < out[j].CategoryName })
	return out
}

// paginate recorta la porción pedida y devuelve los metadatos de página.
func paginate[T any](items []T, page, limit int) ([]T, int, int) {
	total := len(items)
	if limit < 1 {
		limit = 20
	}
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= total {
		return []T{}, total, pages
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], total, pages
}
