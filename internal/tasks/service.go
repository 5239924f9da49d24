// Package tasks persists task records. Every method runs a single statement
// on a pooled connection bound to the caller's context.
package tasks

import (
	"context"
	"strings"

	"github.com/Aidin1998/minitask/common/dbutil"
	"github.com/Aidin1998/minitask/common/errors"
	"github.com/Aidin1998/minitask/pkg/metrics"
	"github.com/Aidin1998/minitask/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service implements task persistence over gorm
type Service struct {
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new task service
func NewService(logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		logger: logger.Named("tasks"),
		db:     db,
	}
}

// List returns every task. Order is whatever the database yields.
func (s *Service) List(ctx context.Context) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := dbutil.WrapError(s.db.WithContext(ctx).Find(&tasks).Error)
	observe("list", err)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create inserts a task and returns it with the id assigned by the database
func (s *Service) Create(ctx context.Context, title string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		err := errors.Invalid.Explain("title is required")
		observe("create", err)
		return nil, err
	}

	task := &models.Task{Title: title}
	err := dbutil.WrapError(s.db.WithContext(ctx).Create(task).Error)
	observe("create", err)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("task created", zap.Int64("id", task.ID))
	return task, nil
}

// Delete removes the task with the given id, or returns a NotFound error
func (s *Service) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&models.Task{}, id)
	err := dbutil.ExpectRows(result, errors.NotFound.Explain("Task %d not found", id))
	observe("delete", err)
	if err != nil {
		return err
	}

	s.logger.Debug("task deleted", zap.Int64("id", id))
	return nil
}

// Ping checks that a pooled connection can reach the database
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return dbutil.WrapError(err)
	}
	return dbutil.WrapError(sqlDB.PingContext(ctx))
}

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = strings.ToLower(errors.KindOf(err).String())
	}
	metrics.TaskOperations.WithLabelValues(op, result).Inc()
}
