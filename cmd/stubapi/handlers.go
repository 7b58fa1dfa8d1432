package main

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/gestrack/gestrack-web/internal/domain"
	"github.com/gestrack/gestrack-web/internal/domain/entity"
	"github.com/gestrack/gestrack-web/pkg/jwt"
	"github.com/gestrack/gestrack-web/pkg/logger"
	"github.com/gestrack/gestrack-web/pkg/password"
)

// Sobre JSON del backend.

type pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func okPaged(c *fiber.Ctx, data any, p pagination) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "pagination": p})
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": code, "message": msg},
	})
}

func failFields(c *fiber.Ctx, code, msg string, fields map[string][]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": code, "message": msg, "fields": fields},
	})
}

// server es el backend de desarrollo.
type server struct {
	st     *store
	secret string
	log    *logger.Logger
}

func (s *server) token(u *account) (string, error) {
	return jwt.Generate(s.secret, u.ID, u.Role, "gestrack-stubapi", 8*60)
}

// authRequired valida el Bearer token y deja el usuario en locals.
func (s *server) authRequired(c *fiber.Ctx) error {
	h := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(h, "Bearer ") {
		return fail(c, fiber.StatusUnauthorized, "AUTH_ERROR", "Token requerido")
	}
	userID, _, err := jwt.Parse(s.secret, strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "AUTH_ERROR", "Token inválido o expirado")
	}
	s.st.mu.RLock()
	u, ok := s.st.users[userID]
	s.st.mu.RUnlock()
	if !ok || !u.IsActive {
		return fail(c, fiber.StatusUnauthorized, "AUTH_ERROR", "Usuario no encontrado")
	}
	c.Locals("user", u)
	return c.Next()
}

func current(c *fiber.Ctx) *account {
	u, _ := c.Locals("user").(*account)
	return u
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func (s *server) login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "cuerpo inválido")
	}

	s.st.mu.RLock()
	var acc *account
	for _, u := range s.st.users {
		if strings.EqualFold(u.Email, in.Email) {
			acc = u
			break
		}
	}
	s.st.mu.RUnlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(in.Password)) != nil {
		return fail(c, fiber.StatusUnauthorized, "AUTH_ERROR", "Email o contraseña incorrectos")
	}
	if !acc.IsActive {
		return fail(c, fiber.StatusUnauthorized, "AUTH_ERROR", "La cuenta está desactivada")
	}

	tok, err := s.token(acc)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "no se pudo emitir el token")
	}
	return ok(c, fiber.Map{"token": tok, "user": acc.User})
}

func (s *server) register(c *fiber.Ctx) error {
	var in struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "cuerpo inválido")
	}
	if errs := password.Validate(in.Password); len(errs) > 0 {
		return failFields(c, "VALIDATION", "contraseña débil", map[string][]string{"password": errs})
	}
	if !domain.ParseRole(in.Role).Valid() {
		return failFields(c, "VALIDATION", "rol desconocido", map[string][]string{"role": {"rol desconocido"}})
	}

	s.st.mu.Lock()
	for _, u := range s.st.users {
		if strings.EqualFold(u.Email, in.Email) {
			s.st.mu.Unlock()
			return failFields(c, "VALIDATION", "email en uso", map[string][]string{"email": {"El email ya está registrado"}})
		}
	}
	id := uuid.NewString()
	acc := &account{
		User: entity.User{
			ID: id, FullName: in.FullName, Email: in.Email,
			Role: in.Role, IsActive: true, CreatedAt: now(),
		},
		PasswordHash: hash(in.Password),
	}
	s.st.users[id] = acc
	s.st.mu.Unlock()

	tok, err := s.token(acc)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "no se pudo emitir el token")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"token": tok, "user": acc.User},
	})
}

func (s *server) logout(c *fiber.Ctx) error {
	// Tokens sin estado: no hay nada que revocar en el stub.
	return ok(c, fiber.Map{"message": "sesión cerrada"})
}

func (s *server) updateProfile(c *fiber.Ctx) error {
	acc := current(c)
	if acc.ID != c.Params("id") && acc.Role != string(domain.RoleAdmin) {
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "No puedes editar otros perfiles")
	}
	var in struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "cuerpo inválido")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	target, found := s.st.users[c.Params("id")]
	if !found {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "usuario no encontrado")
	}
	if in.FullName != "" {
		target.FullName = in.FullName
	}
	if in.Email != "" {
		target.Email = in.Email
	}
	return ok(c, target.User)
}

func (s *server) changePassword(c *fiber.Ctx) error {
	acc := current(c)
	var in struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "cuerpo inválido")
	}
	// Copia del hash bajo el candado: otra petición puede estar
	// reescribiéndolo (perfil o reset) mientras bcrypt compara.
	s.st.mu.RLock()
	currentHash := acc.PasswordHash
	s.st.mu.RUnlock()
	if bcrypt.CompareHashAndPassword(currentHash, []byte(in.CurrentPassword)) != nil {
		return failFields(c, "VALIDATION", "contraseña actual incorrecta",
			map[string][]string{"current_password": {"La contraseña actual no es correcta"}})
	}
	if errs := password.Validate(in.NewPassword); len(errs) > 0 {
		return failFields(c, "VALIDATION", "contraseña débil", map[string][]string{"new_password": errs})
	}
	s.st.mu.Lock()
	acc.PasswordHash = hash(in.NewPassword)
	s.st.mu.Unlock()
	return ok(c, fiber.Map{"message": "contraseña actualizada"})
}

func (s *server) forgotPassword(c *fiber.Ctx) error {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "cuerpo inválido")
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for _, u := range s.st.users {
		if strings.EqualFold(u.Email, in.Email) {
			tok := uuid.NewString()
			s.st.resets[tok] = u.ID
			// En desarrollo el "correo" es el log del proceso.
			s.log.Info().Str("email", u.Email).Str("token", tok).Msg("token de recuperación emitido")
			break
		}
	}
	return ok(c, fiber.Map{"message": "si la cuenta existe, se envió el enlace"})
}

func (s *server) resetPassword(c *fiber.Ctx) error {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "cuerpo inválido")
	}
	if errs := password.Validate(in.NewPassword); len(errs) > 0 {
		return failFields(c, "VALIDATION", "contraseña débil", map[string][]string{"new_password": errs})
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	userID, found := s.st.resets[in.Token]
	if !found {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "El enlace de recuperación es inválido o ya expiró")
	}
	delete(s.st.resets, in.Token)
	if u, okU := s.st.users[userID]; okU {
		u.PasswordHash = hash(in.NewPassword)
	}
	return ok(c, fiber.Map{"message": "contraseña restablecida"})
}

func (s *server) users(c *fiber.Ctx) error {
	if current(c).Role != string(domain.RoleAdmin) {
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "Solo administradores")
	}
	s.st.mu.RLock()
	out := make([]entity.User, 0, len(s.st.users))
	for _, u := range s.st.users {
		out = append(out, u.User)
	}
	s.st.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return ok(c, out)
}

// ---------------------------------------------------------------------------
// Listados
// ---------------------------------------------------------------------------

func (s *server) customers(c *fiber.Ctx) error {
	s.st.mu.RLock()
	out := make([]entity.Customer, 0, len(s.st.customers))
	for _, cust := range s.st.customers {
		if c.Query("is_active") == "true" && !cust.IsActive {
			continue
		}
		if !matches(c.Query("search"), cust.FullName, cust.Email, cust.Phone) {
			continue
		}
		out = append(out, *cust)
	}
	s.st.mu.RUnlock()

	asc := c.Query("order", "asc") != "desc"
	switch c.Query("sort_by", "full_name") {
	case "email":
		sortBy(out, asc, func(a, b entity.Customer) bool { return fold(a.Email) < fold(b.Email) })
	case "created_at":
		sortBy(out, asc, func(a, b entity.Customer) bool { return a.CreatedAt < b.CreatedAt })
	default:
		sortBy(out, asc, func(a, b entity.Customer) bool { return fold(a.FullName) < fold(b.FullName) })
	}

	page, limit := c.QueryInt("page", 1), c.QueryInt("limit", 20)
	items, total, pages := paginate(out, page, limit)
	return okPaged(c, items, pagination{Page: page, PerPage: limit, Total: total, Pages: pages})
}

func (s *server) customer(c *fiber.Ctx) error {
	s.st.mu.RLock()
	cust, found := s.st.customers[c.Params("id")]
	s.st.mu.RUnlock()
	if !found {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "Cliente no encontrado")
	}
	return ok(c, cust)
}

func (s *server) toggleCustomer(c *fiber.Ctx) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	cust, found := s.st.customers[c.Params("id")]
	if !found {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "Cliente no encontrado")
	}
	cust.IsActive = !cust.IsActive
	cust.UpdatedAt = now()
	return ok(c, cust)
}

func (s *server) checkCustomerEmail(c *fiber.Ctx) error {
	email, exclude := c.Query("email"), c.Query("exclude_id")
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	for _, cust := range s.st.customers {
		if cust.ID != exclude && strings.EqualFold(cust.Email, email) {
			return ok(c, fiber.Map{"available": false, "existing_customer": cust})
		}
	}
	return ok(c, fiber.Map{"available": true})
}

func (s *server) orders(c *fiber.Ctx) error {
	s.st.mu.RLock()
	out := make([]entity.Order, 0, len(s.st.orders))
	for _, o := range s.st.orders {
		if st := c.Query("status"); st != "" && o.Status != st {
			continue
		}
		if ps := c.Query("payment_status"); ps != "" && o.PaymentStatus != ps {
			continue
		}
		if cid := c.Query("customer_id"); cid != "" && o.CustomerID != cid {
			continue
		}
		if !matches(c.Query("search"), o.OrderNumber, o.CustomerName) {
			continue
		}
		out = append(out, *o)
	}
	s.st.mu.RUnlock()

	asc := c.Query("order", "desc") != "desc"
	switch c.Query("sort_by", "created_at") {
	case "order_number":
		sortBy(out, asc, func(a, b entity.Order) bool { return a.OrderNumber < b.OrderNumber })
	case "total":
		sortBy(out, asc, func(a, b entity.Order) bool { return a.Total.LessThan(b.Total) })
	default:
		sortBy(out, asc, func(a, b entity.Order) bool { return a.CreatedAt < b.CreatedAt })
	}

	page, limit := c.QueryInt("page", 1), c.QueryInt("limit", 20)
	items, total, pages := paginate(out, page, limit)
	return okPaged(c, items, pagination{Page: page, PerPage: limit, Total: total, Pages: pages})
}

func (s *server) order(c *fiber.Ctx) error {
	s.st.mu.RLock()
	ord, found := s.st.orders[c.Params("id")]
	s.st.mu.RUnlock()
	if !found {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "Pedido no encontrado")
	}
	return ok(c, ord)
}

func (s *server) createOrder(c *fiber.Ctx) error {
	var in struct {
		CustomerID     string             `json:"customer_id"`
		Items          []entity.OrderItem `json:"items"`
		TaxPercentage  decimal.Decimal    `json:"tax_percentage"`
		ShippingCost   decimal.Decimal    `json:"shipping_cost"`
		DiscountAmount decimal.Decimal    `json:"discount_amount"`
		Notes          string             `json:"notes"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "cuerpo inválido")
	}
	acc := current(c)
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	ord, msg := s.st.placeOrderLocked(&acc.User, s.st.customers[in.CustomerID], in.Items,
		in.TaxPercentage, in.ShippingCost, in.DiscountAmount, in.Notes)
	if msg != "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", msg)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": ord})
}

func (s *server) cancelOrder(c *fiber.Ctx) error {
	var in struct {
		Notes string `json:"notes"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return fail(c, fiber.StatusBadRequest, "VALIDATION", "cuerpo inválido")
		}
	}
	acc := current(c)
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	ord, found := s.st.orders[c.Params("id")]
	if !found {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "Pedido no encontrado")
	}
	if msg := s.st.cancelOrderLocked(&acc.User, ord, in.Notes); msg != "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", msg)
	}
	return ok(c, ord)
}

func (s *server) products(c *fiber.Ctx) error {
	s.st.mu.RLock()
	out := make([]entity.Product, 0, len(s.st.products))
	for _, p := range s.st.products {
		if c.Query("is_active") == "true" && !p.IsActive {
			continue
		}
		if c.Query("low_stock") == "true" && !p.LowStock() {
			continue
		}
		if !matches(c.Query("search"), p.Name, p.SKU, p.CategoryName) {
			continue
		}
		out = append(out, *p)
	}
	s.st.mu.RUnlock()

	asc := c.Query("order", "asc") != "desc"
	switch c.Query("sort_by", "name") {
	case "sku":
		sortBy(out, asc, func(a, b entity.Product) bool { return a.SKU < b.SKU })
	case "sale_price":
		sortBy(out, asc, func(a, b entity.Product) bool { return a.SalePrice.LessThan(b.SalePrice) })
	case "stock_quantity":
		sortBy(out, asc, func(a, b entity.Product) bool { return a.StockQuantity < b.StockQuantity })
	default:
		sortBy(out, asc, func(a, b entity.Product) bool { return fold(a.Name) < fold(b.Name) })
	}

	page, limit := c.QueryInt("page", 1), c.QueryInt("limit", 20)
	items, total, pages := paginate(out, page, limit)
	return okPaged(c, items, pagination{Page: page, PerPage: limit, Total: total, Pages: pages})
}

func (s *server) movements(c *fiber.Ctx) error {
	s.st.mu.RLock()
	out := make([]entity.Movement, 0, len(s.st.movements))
	for _, mv := range s.st.movements {
		if mt := c.Query("movement_type"); mt != "" && mv.MovementType != mt {
			continue
		}
		if pid := c.Query("product_id"); pid != "" && mv.ProductID != pid {
			continue
		}
		if !matches(c.Query("search"), mv.ProductName, mv.ProductSKU, mv.Reason) {
			continue
		}
		out = append(out, mv)
	}
	s.st.mu.RUnlock()

	asc := c.Query("order", "desc") != "desc"
	if c.Query("sort_by", "created_at") == "quantity" {
		sortBy(out, asc, func(a, b entity.Movement) bool { return a.Quantity < b.Quantity })
	} else {
		sortBy(out, asc, func(a, b entity.Movement) bool { return a.CreatedAt < b.CreatedAt })
	}

	page, limit := c.QueryInt("page", 1), c.QueryInt("limit", 50)
	items, total, pages := paginate(out, page, limit)
	return okPaged(c, items, pagination{Page: page, PerPage: limit, Total: total, Pages: pages})
}

func (s *server) inventoryCategories(c *fiber.Ctx) error {
	out := s.st.categorySummaries(c.Query("include_empty") == "true")

	if term := c.Query("search"); term != "" {
		filtered := out[:0]
		for _, sum := range out {
			if matches(term, sum.CategoryName) {
				filtered = append(filtered, sum)
			}
		}
		out = filtered
	}

	asc := c.Query("order", "asc") != "desc"
	switch c.Query("sort_by", "category_name") {
	case "total_value":
		sortBy(out, asc, func(a, b entity.CategorySummary) bool { return a.TotalValue.LessThan(b.TotalValue) })
	case "product_count":
		sortBy(out, asc, func(a, b entity.CategorySummary) bool { return a.ProductCount < b.ProductCount })
	default:
		sortBy(out, asc, func(a, b entity.CategorySummary) bool { return fold(a.CategoryName) < fold(b.CategoryName) })
	}

	page, limit := c.QueryInt("page", 1), c.QueryInt("limit", 20)
	items, total, pages := paginate(out, page, limit)
	return okPaged(c, items, pagination{Page: page, PerPage: limit, Total: total, Pages: pages})
}

// ---------------------------------------------------------------------------
// Catálogo de categorías
// ---------------------------------------------------------------------------

func (s *server) categories(c *fiber.Ctx) error {
	s.st.mu.RLock()
	counts := map[string]int{}
	for _, p := range s.st.products {
		counts[p.CategoryID]++
	}
	out := make([]entity.Category, 0, len(s.st.categories))
	for _, cat := range s.st.categories {
		cp := *cat
		cp.ProductCount = counts[cat.ID]
		out = append(out, cp)
	}
	s.st.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return fold(out[i].Name) < fold(out[j].Name) })
	return ok(c, out)
}

func (s *server) createCategory(c *fiber.Ctx) error {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
		Icon        string `json:"icon"`
	}
	if err := c.BodyParser(&in); err != nil || in.Name == "" {
		return failFields(c, "VALIDATION", "nombre requerido", map[string][]string{"name": {"Este campo es requerido"}})
	}
	cat := &entity.Category{
		ID: uuid.NewString(), Name: in.Name, Description: in.Description,
		Color: in.Color, Icon: in.Icon, CreatedAt: now(),
	}
	s.st.mu.Lock()
	s.st.categories[cat.ID] = cat
	s.st.mu.Unlock()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": cat})
}

func (s *server) updateCategory(c *fiber.Ctx) error {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
		Icon        string `json:"icon"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "cuerpo inválido")
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	cat, found := s.st.categories[c.Params("id")]
	if !found {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "Categoría no encontrada")
	}
	if in.Name != "" {
		cat.Name = in.Name
	}
	cat.Description = in.Description
	cat.Color = in.Color
	cat.Icon = in.Icon
	return ok(c, cat)
}

func (s *server) deleteCategory(c *fiber.Ctx) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	cat, found := s.st.categories[c.Params("id")]
	if !found {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "Categoría no encontrada")
	}
	if cat.IsDefault {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "La categoría por defecto no se puede eliminar")
	}
	var def *entity.Category
	for _, other := range s.st.categories {
		if other.IsDefault {
			def = other
		}
	}
	for _, p := range s.st.products {
		if p.CategoryID == cat.ID && def != nil {
			p.CategoryID = def.ID
			p.CategoryName = def.Name
		}
	}
	delete(s.st.categories, cat.ID)
	return ok(c, fiber.Map{"message": "categoría eliminada"})
}

// sortBy ordena in place respetando la dirección.
func sortBy[T any](items []T, asc bool, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if asc {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})
}
