package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"triphoto/internal/adapters/codec/heif"
	"triphoto/internal/adapters/eventbroker/nats"
	"triphoto/internal/adapters/handlers/http/chi"
	photohandler "triphoto/internal/adapters/handlers/http/chi/v1/photo"
	uploadhandler "triphoto/internal/adapters/handlers/http/chi/v1/upload"
	"triphoto/internal/adapters/repository/postgres"
	"triphoto/internal/adapters/storage/local"
	"triphoto/internal/adapters/storage/minio"
	"triphoto/internal/config"
	"triphoto/internal/core/port"
	"triphoto/internal/core/service/imaging"
	"triphoto/internal/core/service/reconcile"
	uploadservice "triphoto/internal/core/service/upload"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
			os.Exit(1)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	storage, err := initStorage(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	//event broker, optional
	var events port.EventPublisher
	if cfg.NATS.URL != "" {
		events, err = nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init nats", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := events.Close(); err != nil {
				logger.Error("failed to close nats connection", "error", err)
			}
		}()
	}

	unitOfWork := postgres.NewUnitOfWork(db)

	normalizer := imaging.NewNormalizer(heif.NewDecoder(), cfg.Upload, logger)
	uploadService := uploadservice.NewUploadService(
		unitOfWork,
		storage,
		normalizer,
		events,
		cfg.Upload,
		cfg.Storage.StagingDir,
		logger,
	)
	reconcileService := reconcile.NewReconcileService(unitOfWork, events, logger)

	//http
	uploadHandler := uploadhandler.NewUploadHandlerV1(uploadService, logger)
	photoHandler := photohandler.NewPhotoHandlerV1(uploadService, storage, logger)

	router := chi.NewRouter(logger, uploadHandler, photoHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init reconciliation task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initReconcileTask(ctx, reconcileService, cfg.Upload, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

func initStorage(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (port.FileStorage, error) {
	switch cfg.Backend {
	case "minio":
		return minio.NewAdapter(ctx, cfg.Minio, logger)
	case "local":
		return local.NewLocalStorage(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func initReconcileTask(ctx context.Context, service port.ReconciliationService, cfg config.UploadConfig, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.ReconcileEvery)
	defer ticker.Stop()

	logger.Info("reconciliation task initialized", "interval", cfg.ReconcileEvery)

	for {
		select {
		case <-ticker.C:
			resolved, err := service.ReconcileStuckLogs(ctx, time.Now().Add(-cfg.StuckLogTTL))
			if err != nil {
				logger.Error("failed to reconcile stuck uploads", "error", err)
			} else if resolved > 0 {
				logger.Info("reconciliation task completed", "resolved", resolved)
			}
		case <-ctx.Done():
			logger.Info("reconciliation task stopped")
			return
		}
	}

}
