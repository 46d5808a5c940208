package main

import (
	"context"
	"log"
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
	"go.uber.org/zap"

	"storyapi/docs"
	"storyapi/internal/config"
	"storyapi/internal/database"
	"storyapi/internal/database/migration"
	handlers "storyapi/internal/http/handler"
	"storyapi/internal/http/middleware"
	"storyapi/internal/logger"
	"storyapi/internal/otel"
	"storyapi/internal/repository/postgres"
	"storyapi/internal/service"
	"storyapi/internal/storage"
)

// @title Story API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Encoding:   cfg.Log.Encoding,
		OutputPath: cfg.Log.OutputPath,
	})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, zlog)
	if err != nil {
		return err
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database, zlog)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, zlog, cfg.Database.Host); err != nil {
			return err
		}
	}

	// Cover blobs go to the local upload dir or MinIO
	coverStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	zlog.Info("cover storage ready", zap.String("driver", cfg.Storage.Driver))

	storyRepo := postgres.NewStoryPostgres(db)
	storySvc := service.NewStoryService(storyRepo)
	coverSvc := service.NewCoverService(coverStore)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.UploadMaxBytes,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(zlog))
	app.Use(promMiddleware.Handler())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, storySvc, coverSvc, zlog)

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

	listenErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		zlog.Info("server listening", zap.String("addr", addr), zap.String("app_host", cfg.AppHost))
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("http shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zlog.Error("tracer shutdown failed", zap.Error(err))
	}
	return nil
}
