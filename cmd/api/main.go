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

	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Bodega-api/internal/interfaces/http"
	"github.com/jhoicas/Bodega-api/pkg/config"
	"github.com/jhoicas/Bodega-api/pkg/logger"
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

	productRepo := postgres.NewProductRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	stockRepo := postgres.NewStockLevelRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	queryRepo := postgres.NewInventoryQueryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	settingsUC := inventory.NewSettingsUseCase(settingsRepo, cfg.Inventory.SettingsCacheTTL)
	engine := inventory.NewMovementEngine(txRunner, productRepo, branchRepo, settingsUC)
	transferUC := inventory.NewTransferUseCase(engine, txRunner, settingsUC)
	purchaseUC := inventory.NewPurchaseUseCase(engine, txRunner, settingsUC)
	thresholdsUC := inventory.NewThresholdsUseCase(engine, stockRepo)
	queryUC := inventory.NewQueryUseCase(queryRepo, branchRepo, settingsUC)
	reconcileUC := inventory.NewReconcileUseCase(stockRepo, movementRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, stockRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo)

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
		Title:    "Bodega API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		BranchUC:     branchUC,
		Engine:       engine,
		TransferUC:   transferUC,
		PurchaseUC:   purchaseUC,
		ThresholdsUC: thresholdsUC,
		SettingsUC:   settingsUC,
		QueryUC:      queryUC,
		ReconcileUC:  reconcileUC,
		MovementRepo: movementRepo,
		JWTSecret:    cfg.JWT.Secret,
	})

	// Reconciliación periódica de fondo: compara el stock materializado
	// contra el libro y registra divergencias. Deshabilitada si el intervalo
	// es cero.
	reconcileCtx, stopReconcile := context.WithCancel(ctx)
	if cfg.Inventory.ReconcileInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Inventory.ReconcileInterval)
			defer ticker.Stop()
			for {
				select {
				case <-reconcileCtx.Done():
					return
				case <-ticker.C:
					divergences, err := reconcileUC.Run(reconcileCtx, "")
					if err != nil {
						log.Error().Err(err).Msg("reconciliación de inventario")
						continue
					}
					if len(divergences) > 0 {
						log.Warn().Int("divergencias", len(divergences)).Msg("reconciliación encontró diferencias")
					}
				}
			}
		}()
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopReconcile()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
