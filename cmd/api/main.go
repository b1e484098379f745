package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/emi-tracker/internal/config"
	"github.com/Dan9191/emi-tracker/internal/handler"
	"github.com/Dan9191/emi-tracker/internal/notify"
	"github.com/Dan9191/emi-tracker/internal/repository"
	"github.com/Dan9191/emi-tracker/internal/scheduler"
	"github.com/Dan9191/emi-tracker/internal/service"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize storage
	ctx := context.Background()
	blobs, closer, err := openBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger.Infof("Using %s store", cfg.StoreBackend)

	// Initialize layers
	store := repository.NewLoanStore(blobs, cfg.StoreKey, logger)
	svc := service.NewService(store, logger, service.WithCurrency(cfg.Currency))
	if err := svc.Start(ctx); err != nil {
		logger.Fatalf("Failed to load loans: %v", err)
	}
	h := handler.NewHandler(svc, logger)

	var mailer service.Mailer
	if cfg.MailEnabled() {
		mailer = notify.NewSender(cfg, logger)
	}
	sched, err := scheduler.New(scheduler.Config{
		RefreshSpec:  cfg.RefreshSpec,
		ReminderSpec: cfg.ReminderSpec,
		ReminderDays: cfg.ReminderDays,
	}, svc, scheduler.ReminderFunc(func(days int) error {
		return svc.Remind(days, mailer)
	}), logger)
	if err != nil {
		logger.Fatalf("Failed to schedule jobs: %v", err)
	}
	sched.Start()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.NewRouter(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Errorf("Server failed: %v", err)
	case <-quit:
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Errorf("Error stopping scheduler: %v", err)
	}
	logger.Info("Server exited")
}

// openBlobStore returns the configured backend and, when it holds a
// connection, something to close on exit.
func openBlobStore(ctx context.Context, cfg *config.Config) (repository.BlobStore, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store := repository.NewPostgresBlobStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, store, nil
	case config.BackendRedis:
		store := repository.NewRedisBlobStore(cfg.RedisAddr)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store, nil
	case config.BackendMemory:
		return repository.NewMemoryBlobStore(), nil, nil
	default:
		return repository.NewFileBlobStore(cfg.StoreDir), nil, nil
	}
}
