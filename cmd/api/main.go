package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docmeta/docs"
	"docmeta/internal/ai"
	"docmeta/internal/config"
	"docmeta/internal/database"
	"docmeta/internal/database/migration"
	handlers "docmeta/internal/http/handler"
	"docmeta/internal/http/middleware"
	"docmeta/internal/logger"
	"docmeta/internal/otel"
	"docmeta/internal/repository/postgres"
	"docmeta/internal/resilience"
	"docmeta/internal/service"
	"docmeta/internal/storage"
)

// @title Document Metadata API
// @version 1.0
// @description Document uploads, metadata, AI enrichment and analytics.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.New(logger.Config{
		Service: "docmeta",
		Level:   cfg.LogLevel,
		Pretty:  cfg.Debug,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "docmeta", log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error().Err(err).Msg("tracing shutdown")
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rc := resilience.DefaultConfig()
	rc.RetryMaxAttempts = cfg.AI.RetryMaxAttempts
	rc.BreakerEnabled = cfg.AI.BreakerEnabled
	client := ai.NewOpenAIClient(ai.ClientConfig{
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		Model:      cfg.AI.Model,
		TagsModel:  cfg.AI.TagsModel,
		Timeout:    cfg.AI.Timeout,
		RateLimit:  cfg.AI.RateLimit,
		RateBurst:  cfg.AI.RateBurst,
		Resilience: rc,
	}, nil, log)
	if cfg.AI.APIKey == "" {
		log.Warn().Msg("AI_API_KEY not set; analysis will return default suggestions")
	}
	analyzer, err := ai.NewCachedAnalyzer(client, ai.CacheOptions{
		Size:        cfg.AI.CacheSize,
		TTL:         cfg.AI.CacheTTL,
		CallTimeout: cfg.AI.Timeout * time.Duration(max(cfg.AI.RetryMaxAttempts, 1)+1),
	}, reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize ai cache")
	}

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	docSvc := service.NewDocumentService(objStore, docRepo, analyzer, log)
	analyticsSvc := service.NewAnalyticsService(docRepo)

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.UploadMaxBytes,
		DisableStartupMessage: !cfg.Debug,
	})

	// RequestID must run first so every later middleware sees the id
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORSOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization," + middleware.RequestIDHeader,
		ExposeHeaders:    "X-Total-Count," + middleware.RequestIDHeader,
		AllowCredentials: cfg.CORSAllowCredentials(),
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, docSvc, analyticsSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("version", cfg.Version).Msg("server starting")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
