package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestrack/gestrack-web/internal/application/auth"
	"github.com/gestrack/gestrack-web/internal/application/session"
	"github.com/gestrack/gestrack-web/internal/infrastructure/api"
	"github.com/gestrack/gestrack-web/internal/infrastructure/pdf"
	"github.com/gestrack/gestrack-web/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions   *session.Manager
	API        *api.Client
	AuthSvc    *auth.Service
	Views      *ViewRegistry
	CookieName string
	Log        *logger.Logger
}

// Router registra las rutas del gateway. Toda petición pasa por la sesión
// de cookie y por la guardia de rutas; las rutas públicas las decide la
// propia guardia.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(SessionMiddleware(deps.Sessions, deps.CookieName))
	app.Use(GuardMiddleware())

	authHandler := NewAuthHandler(deps.AuthSvc, deps.Views)
	viewHandler := NewViewHandler(deps.API, deps.Views, deps.Log)
	resHandler := NewResourceHandler(deps.API, deps.Log)
	exportHandler := NewExportHandler(deps.API, pdf.NewMovementsPDFGenerator(), deps.Log)

	// Público
	app.Get("/health", resHandler.Health)
	app.Get("/forbidden", resHandler.Forbidden)
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", authHandler.Login)
	app.Post("/register", authHandler.Register)
	app.Post("/forgot-password", authHandler.ForgotPassword)
	app.Post("/reset-password", authHandler.ResetPassword)
	app.Post("/password-strength", authHandler.PasswordStrength)

	// Sesión
	app.Post("/logout", authHandler.Logout)
	app.Get("/profile", resHandler.Profile)
	app.Put("/profile", authHandler.UpdateProfile)
	app.Post("/change-password", authHandler.ChangePassword)

	// Dashboards por rol
	app.Get("/dashboard", resHandler.Dashboard)
	app.Get("/dashboard/admin", resHandler.RoleDashboard)
	app.Get("/dashboard/warehouse", resHandler.RoleDashboard)
	app.Get("/dashboard/sales", resHandler.RoleDashboard)

	// Vistas de listado (carga completa)
	app.Get("/customers", viewHandler.Customers)
	app.Get("/products", viewHandler.Products)
	app.Get("/orders", viewHandler.Orders)
	app.Post("/orders", resHandler.CreateOrder)
	app.Get("/orders/:id", resHandler.Order)
	app.Post("/orders/:id/cancel", resHandler.CancelOrder)
	app.Get("/inventory/movements/export", exportHandler.Movements)
	app.Get("/inventory/movements", viewHandler.Movements)
	app.Get("/inventory/categories", viewHandler.InventoryCategories)

	// Eventos en vivo de las vistas montadas
	views := app.Group("/views/:view")
	views.Get("/state", viewHandler.State)
	views.Post("/input", viewHandler.Input)
	views.Post("/filter", viewHandler.Filter)
	views.Post("/sort", viewHandler.Sort)
	views.Post("/page", viewHandler.Page)
	views.Post("/page-size", viewHandler.PageSize)
	views.Post("/refresh", viewHandler.Refresh)

	// Recursos
	app.Get("/users", resHandler.Users)
	app.Get("/customers/check-email", resHandler.CheckCustomerEmail)
	app.Get("/customers/:id", resHandler.Customer)
	app.Post("/customers/:id/toggle-active", resHandler.ToggleCustomerActive)
	app.Get("/categories", resHandler.Categories)
	app.Post("/categories", resHandler.CreateCategory)
	app.Put("/categories/:id", resHandler.UpdateCategory)
	app.Delete("/categories/:id", resHandler.DeleteCategory)
}
