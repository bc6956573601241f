package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filedrop/internal/config"
	"filedrop/internal/database"
	"filedrop/internal/database/migration"
	handlers "filedrop/internal/http/handler"
	"filedrop/internal/http/middleware"
	"filedrop/internal/ident"
	"filedrop/internal/otel"
	"filedrop/internal/preview"
	"filedrop/internal/ratelimit"
	"filedrop/internal/repository/postgres"
	"filedrop/internal/service"
	"filedrop/internal/storage"
	"filedrop/internal/upload"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
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

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Initialize repositories and services
	contentRepo := postgres.NewContentPostgres(db)
	ids := ident.New(contentRepo, ident.DefaultLength)
	uploadSvc := service.NewUploadService(objStore, contentRepo, preview.NewImageGenerator(), ids, cfg.BaseURL)
	contentSvc := service.NewContentService(objStore, contentRepo)
	cleanupSvc := service.NewCleanupService(objStore, contentRepo, cfg.Cleanup.Secret,
		time.Duration(cfg.Cleanup.OrphanGraceMin)*time.Minute)

	limitStore := ratelimit.NewMemoryStore()
	defer limitStore.Close()
	limiter, err := ratelimit.NewLimiter(limitStore, ratelimit.Config{
		Capacity:       cfg.RateLimit.Capacity,
		RefillRate:     cfg.RateLimit.RefillRate,
		RefillInterval: time.Duration(cfg.RateLimit.RefillSec) * time.Second,
	})
	if err != nil {
		log.Fatalf("failed to configure rate limiter: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    upload.MaxFileSize + 1<<20, // headroom for multipart framing
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register request metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, uploadSvc, contentSvc, cleanupSvc, middleware.RateLimit(limiter))

	// Periodic expiry sweep, in addition to the authenticated trigger route
	if cfg.Cleanup.IntervalMin > 0 {
		go cleanupSvc.Run(ctx, time.Duration(cfg.Cleanup.IntervalMin)*time.Minute)
	}

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
