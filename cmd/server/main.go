package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	cultivationapp "github.com/agrotrace/backend/internal/application/cultivation"
	"github.com/agrotrace/backend/internal/domain/cultivation"
	"github.com/agrotrace/backend/internal/infrastructure/config"
	"github.com/agrotrace/backend/internal/infrastructure/lock"
	"github.com/agrotrace/backend/internal/infrastructure/logger"
	"github.com/agrotrace/backend/internal/infrastructure/migration"
	"github.com/agrotrace/backend/internal/infrastructure/persistence"
	"github.com/agrotrace/backend/internal/infrastructure/telemetry"
	"github.com/agrotrace/backend/internal/interfaces/http/handler"
	"github.com/agrotrace/backend/internal/interfaces/http/middleware"
	"github.com/agrotrace/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting agrotrace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("addr", cfg.App.Addr()),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(cfg, log, "logger provider", lp.Shutdown)
	log = lp.Attach(log, logger.ParseLevel(cfg.Log.Level))

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(cfg, log, "tracer provider", tp.Shutdown)

	mp, err := telemetry.NewMeterProvider(telemetry.MetricsConfig{
		Enabled:     cfg.Telemetry.MetricsEnabled,
		ServiceName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(cfg, log, "meter provider", mp.Shutdown)

	db, err := persistence.NewDatabase(&cfg.Database, log.Named("gorm"), logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	if err := instrumentDatabase(cfg, db, mp, log); err != nil {
		return err
	}
	if err := migrateSchema(ctx, cfg, db, log); err != nil {
		return err
	}

	locker, closeLocker, err := lock.New(ctx, cfg.Redis, cfg.Lock, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLocker(); err != nil {
			log.Warn("Error closing lock backend", zap.Error(err))
		}
	}()

	var domainMetrics cultivationapp.Metrics
	if mp.IsEnabled() {
		m, err := telemetry.NewCultivationMetrics(mp.Meter("agrotrace.cultivation"))
		if err != nil {
			return err
		}
		domainMetrics = m
	}

	cropRepo := persistence.NewGormCropRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	generator := cultivation.NewTrackingCodeGenerator(batchRepo)

	batchService := cultivationapp.NewBatchService(batchRepo, cropRepo, generator, locker, domainMetrics, log.Named("batch"))
	cropService := cultivationapp.NewCropService(cropRepo, batchService, locker, domainMetrics, log.Named("crop"))

	var httpMeter metric.Meter
	if mp.IsEnabled() {
		httpMeter = mp.Meter("http.server")
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine := router.NewEngine(router.Options{
		Logger: log,
		CORS:   cors,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tp.IsEnabled(),
		},
		Meter:          httpMeter,
		MetricsHandler: metricsHandler(mp),
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	}, router.Handlers{
		Crop:   handler.NewCropHandler(cropService),
		Batch:  handler.NewBatchHandler(batchService),
		System: handler.NewSystemHandler(db),
	})

	srv := &http.Server{
		Addr:           cfg.App.Addr(),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// instrumentDatabase registers the query tracing and metrics plugins
func instrumentDatabase(cfg *config.Config, db *persistence.Database, mp *telemetry.MeterProvider, log *zap.Logger) error {
	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Database.SlowThreshold,
		DBSystem:        dbSystem(db.Driver),
	}, log.Named("db_tracing"))
	if err := tracing.RegisterOtelGorm(db.DB); err != nil {
		return fmt.Errorf("register database tracing: %w", err)
	}

	if !mp.IsEnabled() {
		return nil
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	dbMetrics, err := telemetry.NewDBMetrics(mp.Meter("agrotrace.db"), sqlDB, telemetry.DBMetricsConfig{
		SlowQueryThreshold: cfg.Database.SlowThreshold,
	})
	if err != nil {
		return err
	}
	if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics)); err != nil {
		_ = dbMetrics.Stop()
		return fmt.Errorf("register database metrics: %w", err)
	}
	return nil
}

// migrateSchema brings the schema up to date when auto-migration is enabled.
// SQLite uses the GORM models and PostgreSQL the embedded SQL migrations.
func migrateSchema(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if !cfg.Database.AutoMigrate {
		log.Info("Auto-migration disabled, run cmd/migrate to update the schema")
		return nil
	}
	if db.Driver == config.DriverSQLite {
		log.Info("Creating schema from models")
		return db.AutoMigrate(ctx)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, log.Named("migrate"))
	if err != nil {
		return err
	}
	// Close is not called: it would close the shared pool
	return m.Up()
}

func metricsHandler(mp *telemetry.MeterProvider) http.Handler {
	if !mp.IsEnabled() {
		return nil
	}
	return mp.Handler()
}

func dbSystem(driver string) string {
	if driver == config.DriverPostgres {
		return "postgresql"
	}
	return driver
}

func shutdownWithTimeout(cfg *config.Config, log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("Error shutting down "+name, zap.Error(err))
	}
}
