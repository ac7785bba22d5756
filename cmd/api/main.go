// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/basefinder/basefinder-be/internal/adapters/db"
	redis_a "github.com/basefinder/basefinder-be/internal/adapters/redis_adapter"
	"github.com/basefinder/basefinder-be/internal/adapters/storage"
	"github.com/basefinder/basefinder-be/internal/core/ports"
	"github.com/basefinder/basefinder-be/internal/core/services"
	"github.com/basefinder/basefinder-be/internal/handlers"
	"github.com/basefinder/basefinder-be/internal/handlers/middleware"
	"github.com/basefinder/basefinder-be/internal/pkg/config"
	"github.com/basefinder/basefinder-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	// Initialize structured logger
	appLogger := logger.SetupLogger("debug", "json")
	slogger := appLogger.Logger

	slogger.Info("starting basefinder sample tracker",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	// Load configuration
	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	appLogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger = appLogger.Logger
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	// Create application context
	ctx := context.Background()

	// Initialize dependencies
	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Run database migrations if enabled
	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	// Setup HTTP server
	server := setupHTTPServer(cfg, deps, appLogger)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		// Gracefully shutdown HTTP server
		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		// Stop Asynq client
		if deps.asynqClient != nil {
			if err := deps.asynqClient.Close(); err != nil {
				slogger.Error("failed to close Asynq client", slog.String("error", err.Error()))
			}
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database         *db.Database
	redisClient      *redis.Client
	redisCache       ports.CacheRepository
	asynqClient      *asynq.Client
	asynqInspector   *asynq.Inspector
	sampleService    *services.SampleService
	sampleHandler    *handlers.SampleHandler
	healthHandler    *handlers.HealthHandler
	dashboardHandler *handlers.DashboardHandler
	exportHandler    *handlers.ExportHandler
	importHandler    *handlers.ImportHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Initialize database connection
	slogger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	// Initialize Redis client
	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisOpts := &redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		ConnMaxLifetime: cfg.Redis.MaxConnAge,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		ConnMaxIdleTime: cfg.Redis.IdleTimeout,
	}

	redisClient := redis.NewClient(redisOpts)

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	// Create Redis cache wrapper
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	// Initialize Asynq client
	slogger.Info("initializing Asynq client")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	asynqClient := asynq.NewClient(asynqRedisOpt)
	deps.asynqClient = asynqClient

	asynqInspector := asynq.NewInspector(asynqRedisOpt)
	deps.asynqInspector = asynqInspector

	// Optional S3-backed export archive
	var archive *storage.ExportArchive
	if cfg.AWS.S3Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, slogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		archive = storage.NewExportArchive(s3Storage, slogger)
	} else {
		slogger.Warn("S3 bucket not configured, export archiving disabled")
	}

	// Initialize repositories
	sampleRepo := db.NewSampleRepository(database, slogger)

	// Initialize services
	deps.sampleService = services.NewSampleService(sampleRepo, database.Pool(), slogger)

	// Initialize handlers
	cacheManager := redis_a.NewCacheManager(deps.redisCache, slogger)
	deps.sampleHandler = handlers.NewSampleHandler(deps.sampleService, cacheManager, slogger)
	deps.healthHandler = handlers.NewHealthHandler(
		database,
		redisClient,
		asynqInspector,
		cfg,
		slogger,
	)
	deps.dashboardHandler = handlers.NewDashboardHandler(database, deps.redisCache, slogger)
	deps.exportHandler = handlers.NewExportHandler(deps.sampleService, sampleRepo, archive, deps.redisCache, slogger)

	// Calculate max file size in bytes
	maxFileSize := int64(cfg.FileProcessing.ExcelMaxSizeMB * 1024 * 1024)
	deps.importHandler = handlers.NewImportHandler(asynqClient, deps.redisCache, slogger, maxFileSize, cfg.FileProcessing.TempDir)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, appLogger *logger.Logger) *http.Server {
	slogger := appLogger.Logger

	// Create new ServeMux using Go 1.22+ features
	mux := http.NewServeMux()

	// Setup middleware chain
	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	// Innermost so the deadline context reaches DB queries
	if cfg.Server.RequestTimeout > 0 {
		handler = middleware.Timeout(cfg.Server.RequestTimeout)(handler)
	}

	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(appLogger)(handler)
		handler = middleware.Recovery(slogger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	// List and export responses compress well
	handler = middleware.Compression(handler)

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	// Register routes using Go 1.22 method-specific routing
	registerRoutes(mux, deps, slogger, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}

	return server
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, slogger *slog.Logger, cfg *config.Config) {
	// Health and readiness endpoints, outside auth
	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	}

	// Everything under /api/v1 requires a bearer token
	api := http.NewServeMux()
	registerAPIRoutes(api, deps)

	var apiHandler http.Handler = api
	if cfg.Security.APIToken != "" {
		apiHandler = middleware.Auth(cfg.Security.APIToken)(apiHandler)
	} else {
		slogger.Warn("API token not configured, authentication disabled")
	}
	mux.Handle("/api/v1/", apiHandler)

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}

func registerAPIRoutes(mux *http.ServeMux, deps *dependencies) {
	apiV1 := "/api/v1"

	// Sample CRUD. Literal segments (deleted-samples, putback, ...) take
	// precedence over the {id} wildcards.
	mux.HandleFunc("GET "+apiV1+"/samples", deps.sampleHandler.ListSamples)
	mux.HandleFunc("POST "+apiV1+"/samples", deps.sampleHandler.CreateSample)
	mux.HandleFunc("GET "+apiV1+"/samples/{id}", deps.sampleHandler.GetSample)
	mux.HandleFunc("PUT "+apiV1+"/samples/{id}", deps.sampleHandler.UpdateSample)
	mux.HandleFunc("DELETE "+apiV1+"/samples/{id}", deps.sampleHandler.DeleteSample)
	mux.HandleFunc("GET "+apiV1+"/samples/search/{term}", deps.sampleHandler.SearchSamples)
	mux.HandleFunc("GET "+apiV1+"/samples-by-location", deps.sampleHandler.SamplesByLocation)

	// Take / put-back workflow
	mux.HandleFunc("PUT "+apiV1+"/samples/{id}/take", deps.sampleHandler.TakeSample)
	mux.HandleFunc("PUT "+apiV1+"/samples/putback/{id}", deps.sampleHandler.PutBackSample)

	// Deletion lifecycle
	mux.HandleFunc("GET "+apiV1+"/samples/deleted-samples", deps.sampleHandler.ListDeletedSamples)
	mux.HandleFunc("PUT "+apiV1+"/samples/deleted-samples/restore/{id}", deps.sampleHandler.RestoreSample)
	mux.HandleFunc("DELETE "+apiV1+"/samples/permanent-delete/{id}", deps.sampleHandler.PermanentDeleteSample)

	// Slot management
	mux.HandleFunc("GET "+apiV1+"/samples/check-position-availability", deps.sampleHandler.CheckPositionAvailability)
	mux.HandleFunc("PATCH "+apiV1+"/samples/increase-positions-by-shelf-division", deps.sampleHandler.ShiftPositions)
	mux.HandleFunc("PATCH "+apiV1+"/samples/increase-positions-by-amount", deps.sampleHandler.ShiftPositionsByAmount)
	mux.HandleFunc("PATCH "+apiV1+"/samples/decrease-positions-by-shelf-division", deps.sampleHandler.ReducePositions)
	mux.HandleFunc("PATCH "+apiV1+"/samples/normalize-positions-in-division", deps.sampleHandler.NormalizePositions)

	// Conflict detection and resolution
	mux.HandleFunc("POST "+apiV1+"/samples-conflict", deps.sampleHandler.FindConflicts)
	mux.HandleFunc("POST "+apiV1+"/samples/resolve-conflict", deps.sampleHandler.ResolveConflict)

	// Import endpoints
	mux.HandleFunc("POST "+apiV1+"/import/excel", deps.importHandler.ImportExcel)
	mux.HandleFunc("POST "+apiV1+"/import/batch", deps.importHandler.ImportBatch)
	mux.HandleFunc("GET "+apiV1+"/import/status/{jobId}", deps.importHandler.ImportStatus)

	// Export endpoints
	mux.HandleFunc("GET "+apiV1+"/export/excel", deps.exportHandler.ExportExcel)
	mux.HandleFunc("GET "+apiV1+"/export/json", deps.exportHandler.ExportJSON)
	mux.HandleFunc("POST "+apiV1+"/export/archive", deps.exportHandler.ArchiveExport)

	// Dashboard
	mux.HandleFunc("GET "+apiV1+"/dashboard", deps.dashboardHandler.GetDashboard)
}

func runMigrations(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, slogger, 3)
}
