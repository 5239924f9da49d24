package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aidin1998/minitask/api"
	"github.com/Aidin1998/minitask/internal/config"
	"github.com/Aidin1998/minitask/internal/database"
	"github.com/Aidin1998/minitask/internal/tasks"
	"github.com/Aidin1998/minitask/internal/telemetry"
	"github.com/Aidin1998/minitask/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load(os.Getenv("MINITASK_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		zapLogger.Fatal("Failed to set up telemetry", zap.Error(err))
	}

	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to open PostgreSQL pool", zap.Error(err))
	}

	// The database may still be starting; serve regardless of the outcome.
	if err := database.EnsureSchema(ctx, db, cfg.Database.StartupAttempts, cfg.Database.StartupInterval, zapLogger); err != nil {
		zapLogger.Error("Database schema not ensured, serving anyway", zap.Error(err))
	}
	if ctx.Err() != nil {
		zapLogger.Info("Interrupted during startup")
		_ = database.Close(db)
		return
	}

	// Schedule DB pool metrics collection every 30s
	go database.RunPoolStatsCollector(ctx, db, "postgres", 30*time.Second)

	apiServer := api.NewServer(zapLogger, cfg.Server, tasks.NewService(zapLogger, db))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start()
	}()

	select {
	case <-ctx.Done():
		zapLogger.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			zapLogger.Error("API server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shut down API server", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		zapLogger.Error("Failed to close database pool", zap.Error(err))
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shut down telemetry", zap.Error(err))
	}

	zapLogger.Info("Server exited properly")
}
