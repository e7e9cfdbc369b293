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

	"storage-reservation-backend/config"
	"storage-reservation-backend/internal/api"
	"storage-reservation-backend/internal/db"
	"storage-reservation-backend/internal/notification"
	"storage-reservation-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "reservation-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Reconcile the shelf registry with the configured id set at boot.
	if err := appStore.SyncShelves(ctx, cfg.Shelves.IDs); err != nil {
		logger.Fatalf("failed to synchronize shelf registry: %v", err)
	}
	logger.Printf("shelf registry synchronized (%d shelves)", len(cfg.Shelves.IDs))

	// Outbound email: real SMTP delivery when configured, log-only
	// otherwise so the rest of the pipeline still runs in development.
	var sender notification.Sender
	if cfg.Mailer.Enabled {
		sender = notification.NewSMTPSender(cfg.Mailer)
		logger.Printf("mailer enabled, delivering through %s:%d", cfg.Mailer.Host, cfg.Mailer.Port)
	} else {
		sender = notification.LogSender{}
		logger.Println("mailer disabled, notifications will be logged only")
	}

	mailPool := notification.NewWorkerPool(cfg.WorkerPool.Size, sender)
	mailPool.Start(ctx)
	logger.Printf("notification worker pool started (%d workers)", cfg.WorkerPool.Size)

	// Initialize router
	router := api.NewRouter(appStore, mailPool, cfg)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
