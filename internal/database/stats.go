package database

import (
	"context"
	"time"

	"github.com/Aidin1998/minitask/pkg/metrics"
	"gorm.io/gorm"
)

// CollectPoolStats publishes the pool counters under the given label
func CollectPoolStats(db *gorm.DB, name string) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	stats := sqlDB.Stats()
	metrics.DBOpenConns.WithLabelValues(name).Set(float64(stats.OpenConnections))
	metrics.DBIdleConns.WithLabelValues(name).Set(float64(stats.Idle))
	metrics.DBInUseConns.WithLabelValues(name).Set(float64(stats.InUse))
	metrics.DBWaitCount.WithLabelValues(name).Set(float64(stats.WaitCount))
}

// RunPoolStatsCollector calls CollectPoolStats every interval until ctx is done
func RunPoolStatsCollector(ctx context.Context, db *gorm.DB, name string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	CollectPoolStats(db, name)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CollectPoolStats(db, name)
		}
	}
}
