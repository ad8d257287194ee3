package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockview/internal/caching"
	"stockview/internal/config"
	"stockview/internal/conversion"
	"stockview/internal/handlers"
	"stockview/internal/jobs"
	"stockview/internal/logger"
	"stockview/internal/middleware"
	"stockview/internal/repositories"
	"stockview/internal/services"
	"stockview/pkg/database"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.LoadEnv()

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, appLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}

	// Database connection
	pool, err := database.NewPool(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns, appLogger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	// Object storage for the uploaded workbooks
	storageSvc, err := services.NewStorageService(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey,
		cfg.Storage.Region, cfg.Storage.Bucket, cfg.Storage.UseSSL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := storageSvc.EnsureBucketExists(ctx); err != nil {
		appLogger.Warn("workbook bucket unavailable", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, appLogger)

	// Repositories and services
	workbookRepo := repositories.NewWorkbookRepo(pool)
	shelfLifeRepo := repositories.NewShelfLifeRepo(pool)
	converter := conversion.NewConverter(policy, appLogger.Named("conversion"))

	inventorySvc := services.NewInventoryService(workbookRepo, shelfLifeRepo, storageSvc, cacheSvc, converter,
		cfg.Redis.LockTTL, appLogger.Named("inventory"))
	shelfLifeSvc := services.NewShelfLifeService(shelfLifeRepo, inventorySvc, appLogger.Named("shelf_life"))

	scheduler, err := jobs.NewJobScheduler(inventorySvc, cfg.Jobs, appLogger.Named("jobs"))
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			appLogger.Warn("job scheduler shutdown", zap.Error(err))
		}
	}()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(appLogger)
	e.Validator = handlers.NewRequestValidator()

	// Global middleware
	versionMiddleware := middleware.NewVersionMiddleware("stockview", version)
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(appLogger.Named("http")))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID},
	}))
	e.Use(echoMiddleware.BodyLimit(fmt.Sprintf("%dM", (cfg.Server.MaxUploadBytes>>20)+1)))
	e.Use(versionMiddleware.VersionHeader())

	routes := &handlers.Routes{
		Inventory: handlers.NewInventoryHandlers(inventorySvc, appLogger),
		Upload:    handlers.NewUploadHandlers(inventorySvc, cfg.Server.MaxUploadBytes, appLogger),
		ShelfLife: handlers.NewShelfLifeHandlers(shelfLifeSvc, appLogger),
		Health:    handlers.NewHealthHandlers(pool, cacheSvc, storageSvc, version),
	}
	routes.Register(e, versionMiddleware, cfg.Server.APIPrefix)

	// Start server
	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("stockview server starting", zap.String("version", version), zap.Int("port", cfg.Server.Port))
		if err := e.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
