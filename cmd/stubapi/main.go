// Backend GesTrack de desarrollo: sirve la misma API REST que el backend
// real sobre datos en memoria, para levantar el gateway sin dependencias.
// No usar fuera de desarrollo.
package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gestrack/gestrack-web/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{Env: "development", Level: "debug"})

	addr := os.Getenv("STUBAPI_ADDR")
	if addr == "" {
		addr = ":5000"
	}
	secret := os.Getenv("STUBAPI_JWT_SECRET")
	if secret == "" {
		secret = "gestrack-dev-secret"
	}

	srv := &server{st: newStore(), secret: secret, log: log}

	app := fiber.New(fiber.Config{
		AppName:     "gestrack-stubapi",
		ReadTimeout: time.Second * 10,
	})
	app.Use(recover.New())

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", srv.login)
	authGroup.Post("/register", srv.register)
	authGroup.Post("/forgot-password", srv.forgotPassword)
	authGroup.Post("/reset-password", srv.resetPassword)
	authGroup.Post("/logout", srv.authRequired, srv.logout)
	authGroup.Post("/change-password", srv.authRequired, srv.changePassword)
	authGroup.Put("/users/:id/profile", srv.authRequired, srv.updateProfile)
	authGroup.Get("/users", srv.authRequired, srv.users)

	protected := api.Group("/", srv.authRequired)

	customers := protected.Group("/customers")
	customers.Get("/", srv.customers)
	customers.Get("/check-email", srv.checkCustomerEmail)
	customers.Get("/:id", srv.customer)
	customers.Post("/:id/toggle-active", srv.toggleCustomer)

	protected.Get("/products", srv.products)

	orders := protected.Group("/orders")
	orders.Get("/", srv.orders)
	orders.Post("/", srv.createOrder)
	orders.Get("/:id", srv.order)
	orders.Post("/:id/cancel", srv.cancelOrder)

	inv := protected.Group("/inventory")
	inv.Get("/movements", srv.movements)
	inv.Get("/categories", srv.inventoryCategories)

	cats := protected.Group("/categories")
	cats.Get("/", srv.categories)
	cats.Post("/", srv.createCategory)
	cats.Put("/:id", srv.updateCategory)
	cats.Delete("/:id", srv.deleteCategory)

	log.Info().Str("addr", addr).Msg("stubapi escuchando")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("servidor stubapi")
	}
}
