package testutil

import (
	"testing"

	"github.com/Aidin1998/minitask/internal/config"
	"github.com/Aidin1998/minitask/internal/database"
	"github.com/Aidin1998/minitask/pkg/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestDB opens an empty in-memory sqlite database. The pool is pinned to a
// single connection so every statement sees the same memory database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), config.DatabaseConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewTaskDB is NewTestDB with the tasks table already created
func NewTaskDB(t testing.TB) *gorm.DB {
	t.Helper()

	db := NewTestDB(t)
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		t.Fatalf("failed to migrate tasks: %v", err)
	}
	return db
}

// ClosedDB returns a handle whose pool has already been closed, so every
// statement fails.
func ClosedDB(t testing.TB) *gorm.DB {
	t.Helper()

	db := NewTaskDB(t)
	if err := database.Close(db); err != nil {
		t.Fatalf("failed to close test db: %v", err)
	}
	return db
}

// NewObservedLogger returns a logger that records entries at level and above
func NewObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}
