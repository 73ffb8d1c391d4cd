package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/inventory-core/internal/application/inventory"
	"github.com/tu-usuario/inventory-core/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/inventory-core/internal/interfaces/http"
	"github.com/tu-usuario/inventory-core/pkg/config"
	"github.com/tu-usuario/inventory-core/pkg/logger"
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

	// Repos atados al pool para lecturas; las mutaciones pasan por el TxRunner.
	stockRepo := postgres.NewStockRecordRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	adjustments := inventory.NewAdjustmentService(txRunner)
	receiving := inventory.NewReceivingUseCase(txRunner, adjustments)
	transfers := inventory.NewTransferUseCase(txRunner, adjustments, transferRepo, stockRepo)
	queries := inventory.NewStockQueryUseCase(stockRepo, ledgerRepo)
	lowStock := inventory.NewLowStockUseCase(stockRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Adjustments: adjustments,
		Receiving:   receiving,
		Transfers:   transfers,
		Queries:     queries,
		LowStock:    lowStock,
		JWTSecret:   cfg.JWT.Secret,
	})

	// Apagado ordenado: se deja terminar la petición en curso antes de cerrar el pool.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("apagando servidor")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
	if err := app.Listen(cfg.HTTP.Addr()); err != nil {
		log.Fatal().Err(err).Msg("servidor HTTP")
	}
}
