package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/gestion-stock/internal/application/alerting"
	"github.com/jhoicas/gestion-stock/internal/application/auth"
	"github.com/jhoicas/gestion-stock/internal/application/events"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/gestion-stock/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/gestion-stock/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/gestion-stock/internal/interfaces/http"
	"github.com/jhoicas/gestion-stock/pkg/config"
	"github.com/jhoicas/gestion-stock/pkg/logger"
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

	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	siteRepo := postgres.NewSiteRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Notificaciones de alertas: métricas siempre, Redis solo si REDIS_ADDR está definido.
	appMetrics := metrics.New()
	notifiers := alerting.Notifiers{appMetrics}
	if cfg.Redis.Addr != "" {
		publisher := infraredis.NewAlertPublisher(cfg.Redis, log)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := publisher.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible; se reintentará en cada publicación")
		}
		cancel()
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
	}

	// StockChanged: métricas primero, luego el evaluador de alertas.
	dispatcher := events.NewDispatcher(log)
	dispatcher.Subscribe(appMetrics)
	dispatcher.Subscribe(appMetrics.CountFailures(alerting.NewEvaluator(txRunner, notifiers, log)))

	movementUC := inventory.NewMovementUseCase(txRunner, movementRepo, dispatcher, log)
	alertUC := alerting.NewAlertUseCase(alertRepo, stockRepo, infrapdf.NewAlertReportGenerator(cfg.App.Name), notifiers, log)
	stockUC := usecase.NewStockUseCase(stockRepo, productRepo, siteRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	siteUC := usecase.NewSiteUseCase(siteRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	roleUC := usecase.NewRoleUseCase(roleRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Gestion de stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MovementUC: movementUC,
		StockUC:    stockUC,
		ProductUC:  productUC,
		CategoryUC: categoryUC,
		SiteUC:     siteUC,
		UserUC:     userUC,
		RoleUC:     roleUC,
		AlertUC:    alertUC,
		AuthUC:     authUC,
		Metrics:    appMetrics.Handler(),
		JWTSecret:  cfg.JWT.Secret,
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
