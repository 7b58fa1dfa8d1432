package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestrack/gestrack-web/internal/application/dto"
	"github.com/gestrack/gestrack-web/internal/application/nav"
	"github.com/gestrack/gestrack-web/internal/domain"
	"github.com/gestrack/gestrack-web/internal/infrastructure/api"
	"github.com/gestrack/gestrack-web/pkg/logger"
)

// ResourceHandler maneja los dashboards por rol y los passthrough de
// recursos que no son vistas de listado: detalle de cliente, verificación
// de email, usuarios y catálogo de categorías.
type ResourceHandler struct {
	api *api.Client
	log *logger.Logger
}

// NewResourceHandler construye el handler.
func NewResourceHandler(apiClient *api.Client, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{api: apiClient, log: log}
}

// dashboardSections secciones que compone cada dashboard.
var dashboardSections = map[domain.Role][]string{
	domain.RoleAdmin:    {"resumen_general", "usuarios", "inventario", "ventas", "alertas_stock"},
	domain.RoleGerente:  {"inventario", "movimientos_recientes", "alertas_stock"},
	domain.RoleVendedor: {"ventas", "clientes_recientes", "ordenes_pendientes"},
}

// dashboardTitles título de cada dashboard.
var dashboardTitles = map[domain.Role]string{
	domain.RoleAdmin:    "Panel de Administración",
	domain.RoleGerente:  "Panel de Almacén",
	domain.RoleVendedor: "Panel de Ventas",
}

// Dashboard despacha al usuario autenticado a su dashboard por rol. La
// ruta genérica /dashboard redirige a la específica; las específicas las
// protege la guardia.
func (h *ResourceHandler) Dashboard(c *fiber.Ctx) error {
	return c.Redirect(nav.DashboardPath(GetRole(c)), fiber.StatusFound)
}

// RoleDashboard sirve el view-model del dashboard del rol.
func (h *ResourceHandler) RoleDashboard(c *fiber.Ctx) error {
	user := GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
	}
	role := domain.ParseRole(user.Role)
	return c.JSON(dto.DashboardResponse{
		Role:     string(role),
		Title:    dashboardTitles[role],
		User:     *user,
		Nav:      nav.ComputeNav(role, c.Path()),
		Sections: dashboardSections[role],
	})
}

// Profile devuelve el perfil del usuario autenticado junto con su menú.
func (h *ResourceHandler) Profile(c *fiber.Ctx) error {
	user := GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
	}
	return c.JSON(fiber.Map{
		"user": user,
		"nav":  nav.ComputeNav(domain.ParseRole(user.Role), c.Path()),
	})
}

// Forbidden página de acceso denegado.
func (h *ResourceHandler) Forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Code:    "FORBIDDEN",
		Message: "No tienes permisos para acceder a esta página",
	})
}

// Health endpoint de salud del gateway.
func (h *ResourceHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Users lista los usuarios del sistema (solo Admin, lo aplica la guardia).
func (h *ResourceHandler) Users(c *fiber.Ctx) error {
	users, err := h.api.Users(c.Context(), GetSession(c).Token(c.Context()))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// Customer detalle de un cliente.
func (h *ResourceHandler) Customer(c *fiber.Ctx) error {
	out, err := h.api.Customer(c.Context(), GetSession(c).Token(c.Context()), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ToggleCustomerActive activa o inactiva un cliente.
func (h *ResourceHandler) ToggleCustomerActive(c *fiber.Ctx) error {
	out, err := h.api.ToggleCustomerActive(c.Context(), GetSession(c).Token(c.Context()), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CheckCustomerEmail verifica en vivo si un email de cliente ya existe.
func (h *ResourceHandler) CheckCustomerEmail(c *fiber.Ctx) error {
	out, err := h.api.CheckCustomerEmail(c.Context(), GetSession(c).Token(c.Context()), c.Query("email"), c.Query("exclude_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Order detalle de un pedido con sus líneas.
func (h *ResourceHandler) Order(c *fiber.Ctx) error {
	out, err := h.api.Order(c.Context(), GetSession(c).Token(c.Context()), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateOrder crea un pedido.
func (h *ResourceHandler) CreateOrder(c *fiber.Ctx) error {
	var in api.OrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.api.CreateOrder(c.Context(), GetSession(c).Token(c.Context()), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CancelOrder cancela un pedido pendiente.
func (h *ResourceHandler) CancelOrder(c *fiber.Ctx) error {
	var in struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.api.CancelOrder(c.Context(), GetSession(c).Token(c.Context()), c.Params("id"), in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Categories lista el catálogo de categorías.
func (h *ResourceHandler) Categories(c *fiber.Ctx) error {
	out, err := h.api.Categories(c.Context(), GetSession(c).Token(c.Context()))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": out})
}

// CreateCategory crea una categoría.
func (h *ResourceHandler) CreateCategory(c *fiber.Ctx) error {
	var in api.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.api.CreateCategory(c.Context(), GetSession(c).Token(c.Context()), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCategory edita una categoría.
func (h *ResourceHandler) UpdateCategory(c *fiber.Ctx) error {
	var in api.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.api.UpdateCategory(c.Context(), GetSession(c).Token(c.Context()), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteCategory elimina una categoría.
func (h *ResourceHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.api.DeleteCategory(c.Context(), GetSession(c).Token(c.Context()), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Categoría eliminada correctamente"})
}
