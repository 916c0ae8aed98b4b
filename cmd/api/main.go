package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jhoicas/Ventas-api/docs"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/sequence"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	infrafiscal "github.com/jhoicas/Ventas-api/internal/infrastructure/fiscal"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// @title                       Ventas API
// @version                     1.0
// @description                 Motor de ventas: stock, pagos, cartera y documentos fiscales en una sola transacción.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.Store).
		Str("fiscal_environment", cfg.Fiscal.Environment).
		Msg("iniciando aplicación")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics, err := metrics.NewPrometheus(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("registrar métricas")
	}

	// Store: postgres en producción, memoria para demos locales.
	var (
		txRunner sales.SalesTxRunner
		repos    sales.Repos
		payables repository.PayableRepository
	)
	ctx := context.Background()
	switch cfg.App.Store {
	case "memory":
		store := memory.NewStore()
		txRunner, repos, payables = store, store.Repos(), store.Payables()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, appMetrics, log)
		repos = postgres.NewRepos(pool)
		payables = postgres.NewPayableRepository(pool)
	}

	submitter, err := infrafiscal.NewSubmitter(cfg.Fiscal.Submission, log)
	if err != nil {
		log.Fatal().Err(err).Msg("submitter fiscal")
	}

	stock := inventory.NewLedger()
	fiscalUC := sales.NewFiscalSubmissionUseCase(repos.Fiscal, submitter, cfg.Fiscal.SubmitTimeout, appMetrics, log)
	createSaleUC := sales.NewCreateSaleUseCase(
		txRunner, stock, sequence.NewGenerator(appMetrics), fiscalUC, appMetrics, log,
		sales.Config{
			DefaultPaymentMethod: cfg.Sales.DefaultPaymentMethod,
			AmountTolerance:      cfg.Sales.AmountTolerance,
			FiscalEnvironment:    entity.FiscalEnvironment(cfg.Fiscal.Environment),
		},
	)

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
		Title:    "Ventas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.Store})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateSale:     createSaleUC,
		GetSale:        sales.NewGetSaleUseCase(repos),
		DeleteSale:     sales.NewDeleteSaleUseCase(txRunner, stock, appMetrics, log),
		Fiscal:         fiscalUC,
		Receivables:    ledger.NewReceivableUseCase(repos.Receivables),
		Reconciliation: ledger.NewReconciliationUseCase(repos.Receivables, payables, repos.Ledger),
		JWTSecret:      cfg.JWT.Secret,
		Log:            log,
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
