package main

// @title        POS Attendant Auth API
// @version      1.0
// @description  Autenticación, lockout progresivo y sesiones de attendants del POS
// @BasePath     /

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/pos-auth-api/docs"
	"github.com/jhoicas/pos-auth-api/internal/application/auth"
	"github.com/jhoicas/pos-auth-api/internal/application/usecase"
	"github.com/jhoicas/pos-auth-api/internal/infrastructure/audit"
	"github.com/jhoicas/pos-auth-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-auth-api/internal/infrastructure/securestore"
	httpRouter "github.com/jhoicas/pos-auth-api/internal/interfaces/http"
	"github.com/jhoicas/pos-auth-api/pkg/config"
	"github.com/jhoicas/pos-auth-api/pkg/logger"
	"github.com/jhoicas/pos-auth-api/pkg/passwd"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	attendantRepo := postgres.NewAttendantRepository(pool)
	eventRepo := postgres.NewSecurityEventRepository(pool)

	auditor := audit.New(eventRepo, log)

	sessionStore, err := securestore.New(cfg.Sessions.Path, cfg.Sessions.Secret)
	if err != nil {
		log.Fatal().Err(err).Msg("secure store de sesiones")
	}

	limiter := auth.NewRateLimiter(auth.RateLimiterConfig{
		MaxAttempts:     cfg.Auth.RateLimitMax,
		Window:          cfg.Auth.RateLimitWindow,
		CleanupInterval: cfg.Auth.RateLimitCleanup,
	}, auditor)
	defer limiter.Stop()

	authUC := auth.NewAuthUseCase(
		attendantRepo,
		passwd.New(cfg.Auth.BcryptCost),
		sessionStore,
		limiter,
		auditor,
		auth.Policy{
			MaxFailedAttempts: cfg.Auth.MaxFailedAttempts,
			LockDuration:      cfg.Auth.LockDuration,
			SessionTTL:        cfg.Auth.SessionTTL,
		},
		log.Component("auth"),
	)
	attendantUC := usecase.NewAttendantUseCase(attendantRepo)
	auditUC := usecase.NewAuditUseCase(eventRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Attendant Auth API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		AttendantUC: attendantUC,
		AuditUC:     auditUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
