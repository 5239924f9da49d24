package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Aidin1998/minitask/common/apiutil"
	apperrors "github.com/Aidin1998/minitask/common/errors"
	_ "github.com/Aidin1998/minitask/docs"
	"github.com/Aidin1998/minitask/internal/config"
	"github.com/Aidin1998/minitask/pkg/models"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const serviceName = "minitask"

// TaskService is the persistence the HTTP layer needs
type TaskService interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, title string) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// Server represents the API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	tasks      TaskService
	errors     *apperrors.UnifiedErrorHandler
}

func init() {
	binding.Validator = apiutil.NewValidator()
}

// NewServer creates a new API server backed by the given task service
func NewServer(logger *zap.Logger, cfg config.ServerConfig, tasks TaskService) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	server := &Server{
		logger: logger.Named("api"),
		tasks:  tasks,
		errors: apperrors.NewUnifiedErrorHandler(logger),
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(ginzap.CustomRecoveryWithZap(logger, true, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.ErrorResponse{Error: "internal server error"})
	}))
	router.Use(apiutil.RequestIDMiddleware())
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(otelgin.Middleware(serviceName))
	router.Use(apiutil.MetricsMiddleware())

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", apiutil.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", apiutil.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(server.errors.Middleware())

	server.router = router
	server.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	server.registerRoutes()
	return server
}

// Start serves HTTP until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router returns the internal Gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.serviceInfo)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	tasks := s.router.Group("/tasks")
	{
		tasks.GET("", s.listTasks)
		tasks.POST("", s.createTask)
		tasks.DELETE("/:id", s.deleteTask)
	}

	s.router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound.Explain("route not found"))
	})
	s.router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, apperrors.ErrorResponse{Error: "method not allowed"})
	})
}

// serviceInfo describes the service; it never touches the database
func (s *Server) serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, models.ServiceInfo{
		Message:   "Mini Task Manager API is running 🚀",
		Endpoints: []string{"/tasks"},
	})
}

// healthCheck handles the health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.tasks.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, models.HealthStatus{Status: "degraded", Database: "down"})
		return
	}
	c.JSON(http.StatusOK, models.HealthStatus{Status: "ok", Database: "up"})
}
