package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Aidin1998/minitask/pkg/metrics"
	"github.com/Aidin1998/minitask/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureSchema waits for the database and creates the tasks table if it is
// missing. It makes at most attempts tries, sleeping interval between them,
// and returns the last failure when every try failed. Callers are expected to
// keep serving on error; request-time queries will then fail on their own.
func EnsureSchema(ctx context.Context, db *gorm.DB, attempts int, interval time.Duration, logger *zap.Logger) error {
	logger = logger.Named("bootstrap")

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = ensureSchemaOnce(ctx, db)
		if lastErr == nil {
			metrics.SchemaBootstrapAttempts.WithLabelValues("success").Inc()
			logger.Info("database schema ready", zap.Int("attempt", attempt))
			return nil
		}

		metrics.SchemaBootstrapAttempts.WithLabelValues("failure").Inc()
		logger.Warn("database not ready",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(lastErr))

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("database not ready after %d attempts: %w", attempts, lastErr)
}

func ensureSchemaOnce(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	migrator := db.WithContext(ctx).Migrator()
	if migrator.HasTable(&models.Task{}) {
		return nil
	}
	if err := migrator.CreateTable(&models.Task{}); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}
