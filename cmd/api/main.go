package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gestorbhe/boletas-api/internal/application/boleta"
	"github.com/gestorbhe/boletas-api/internal/infrastructure/postgres"
	"github.com/gestorbhe/boletas-api/internal/infrastructure/simpleapi"
	httpRouter "github.com/gestorbhe/boletas-api/internal/interfaces/http"
	"github.com/gestorbhe/boletas-api/pkg/config"
	"github.com/gestorbhe/boletas-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	boletaRepo := postgres.NewBoletaRepository(pool)
	contactoRepo := postgres.NewContactoRepository(pool)
	notificador := postgres.NewNotificador(pool, log)

	gateway := simpleapi.NewCliente(cfg.SimpleAPI, log)
	boletaUC := boleta.NewUseCase(boletaRepo, gateway, notificador, log)
	autofillUC := boleta.NewAutofillUseCase(contactoRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 45, // la emisión espera la llamada a SimpleAPI
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	metrics, err := httpRouter.NewMetricsMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("registrar métricas")
	}
	app.Use(metrics.Handler())
	app.Get("/metrics", httpRouter.MetricsHandler(prometheus.DefaultGatherer))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BoletaUC:   boletaUC,
		AutofillUC: autofillUC,
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
