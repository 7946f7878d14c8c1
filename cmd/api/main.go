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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-movements/internal/application/auth"
	"github.com/jhoicas/stock-movements/internal/application/inventory"
	"github.com/jhoicas/stock-movements/internal/infrastructure/cache"
	"github.com/jhoicas/stock-movements/internal/infrastructure/kafka"
	"github.com/jhoicas/stock-movements/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-movements/internal/interfaces/http"
	"github.com/jhoicas/stock-movements/pkg/config"
	"github.com/jhoicas/stock-movements/pkg/logger"
	"github.com/jhoicas/stock-movements/pkg/metrics"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	// Cantidades como números JSON, no como texto.
	decimal.MarshalJSONWithoutQuotes = true

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
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

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(metrics.Config{Namespace: cfg.Metrics.Namespace})
	}

	// Catálogo: Postgres, con caché Redis opcional delante.
	catalogRepo := postgres.NewCatalogRepository(pool)
	var catalog inventory.CatalogProvider = catalogRepo
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		catalog = cache.NewCatalogCache(catalogRepo, rdb, cfg.Redis.TTL, log)
		log.Info().Str("addr", cfg.Redis.Addr()).Dur("ttl", cfg.Redis.TTL).Msg("caché de catálogo habilitada")
	}

	// Gateway: libro de movimientos en Postgres, con publicación Kafka opcional.
	txRunner := postgres.NewTxRunner(pool)
	var gateway inventory.SubmissionGateway = inventory.NewLedgerGateway(txRunner)
	if cfg.Kafka.Enabled() {
		kcfg := kafka.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
			Source:       cfg.App.Name,
		}
		writer := kafka.NewWriter(kcfg)
		defer writer.Close()
		gateway = kafka.NewPublishingGateway(gateway, writer, kcfg, m, log)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicación de eventos habilitada")
	}

	registerMovementUC := inventory.NewRegisterMovementUseCase(catalog, gateway, m, log).
		WithMovementReader(postgres.NewMovementRepository(pool))

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if err := authUC.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Movements API",
		}))
	}

	deps := httpRouter.RouterDeps{
		RegisterMovement: registerMovementUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
	}
	if m != nil {
		deps.Metrics = m.Handler()
	}
	httpRouter.Router(app, deps)

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
