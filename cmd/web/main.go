package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gestrack/gestrack-web/internal/application/auth"
	"github.com/gestrack/gestrack-web/internal/application/session"
	"github.com/gestrack/gestrack-web/internal/infrastructure/api"
	"github.com/gestrack/gestrack-web/internal/infrastructure/sessionstore"
	httpRouter "github.com/gestrack/gestrack-web/internal/interfaces/http"
	"github.com/gestrack/gestrack-web/pkg/config"
	"github.com/gestrack/gestrack-web/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Msg("iniciando gateway")

	store, err := newSessionStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de sesiones")
	}

	apiClient := api.New(cfg.API, log)
	sessions := session.NewManager(store, log)
	authSvc := auth.New(apiClient, log)
	views := httpRouter.NewViewRegistry()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:   sessions,
		API:        apiClient,
		AuthSvc:    authSvc,
		Views:      views,
		CookieName: cfg.Session.CookieName,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("gateway escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando gateway")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}

// newSessionStore selecciona el backend de sesiones según configuración.
func newSessionStore(cfg *config.Config, log *logger.Logger) (sessionstore.Store, error) {
	switch cfg.Session.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Str("addr", cfg.Session.RedisAddr).Msg("sesiones en redis")
		return sessionstore.NewRedisStore(ctx, cfg.Session.RedisAddr, cfg.Session.RedisDB, cfg.Session.TTL)
	case "file":
		log.Info().Str("path", cfg.Session.FilePath).Msg("sesiones en archivo")
		return sessionstore.NewFileStore(cfg.Session.FilePath)
	default:
		log.Info().Msg("sesiones en memoria")
		return sessionstore.NewMemoryStore(), nil
	}
}
