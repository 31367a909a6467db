package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"payrollportal/internal/config"
	"payrollportal/internal/database"
	"payrollportal/internal/database/migration"
	handlers "payrollportal/internal/http/handler"
	"payrollportal/internal/http/middleware"
	"payrollportal/internal/otel"
	"payrollportal/internal/repository/postgres"
	"payrollportal/internal/service"
	"payrollportal/internal/session"
	"payrollportal/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Apply pending schema migrations before serving traffic
	if err := migration.Up(db, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Initialize repositories and services
	accountRepo := postgres.NewAccountPostgres(db)
	docRepo := postgres.NewDocumentPostgres(db)

	accountSvc := service.NewAccountService(accountRepo)
	ingestSvc := service.NewIngestService(objStore, docRepo)
	reconSvc := service.NewReconciliationService(accountRepo, docRepo)
	payslipSvc := service.NewPayslipService(objStore, docRepo)

	if err := accountSvc.EnsureAdmin(ctx, cfg.Admin); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}

	sessions := session.NewManager(time.Duration(cfg.Session.TTLMinutes) * time.Minute)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMw, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(promMw.Handler())

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, handlers.Services{
		Accounts:       accountSvc,
		Payslips:       payslipSvc,
		Ingest:         ingestSvc,
		Reconciliation: reconSvc,
	}, sessions, cfg.Session, registry)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
