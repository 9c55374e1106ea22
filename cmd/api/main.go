package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tjautosupply/autoparts-api/internal/application/auth"
	"github.com/tjautosupply/autoparts-api/internal/application/ledger"
	"github.com/tjautosupply/autoparts-api/internal/application/reporting"
	"github.com/tjautosupply/autoparts-api/internal/application/usecase"
	infrapdf "github.com/tjautosupply/autoparts-api/internal/infrastructure/pdf"
	"github.com/tjautosupply/autoparts-api/internal/infrastructure/postgres"
	httpRouter "github.com/tjautosupply/autoparts-api/internal/interfaces/http"
	"github.com/tjautosupply/autoparts-api/pkg/config"
	"github.com/tjautosupply/autoparts-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	serialRepo := postgres.NewSerialRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	returnRepo := postgres.NewReturnRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	reportingRepo := postgres.NewReportingRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout)

	book := ledger.NewReservationBook(cfg.Ledger.ReservationTTL)
	ledgerUC := ledger.NewLedger(txRunner, productRepo, serialRepo, book, cfg.Ledger.LockTimeout)

	// Background sweep of abandoned reservations
	sweeper := ledger.NewSweeper(book, cfg.Ledger.SweepInterval, log)
	go sweeper.Run(ctx)

	productUC := usecase.NewProductUseCase(productRepo, serialRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	historyUC := usecase.NewHistoryUseCase(saleRepo, returnRepo, movementRepo)
	reportUC := reporting.NewReportUseCase(reportingRepo, infrapdf.NewMarotoReportGenerator())
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

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "TJ Auto Supply API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		SupplierUC: supplierUC,
		HistoryUC:  historyUC,
		ReportUC:   reportUC,
		Ledger:     ledgerUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
