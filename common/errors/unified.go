package errors

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key holding the request correlation id
const RequestIDKey = "request_id"

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// UnifiedErrorHandler turns kind-tagged errors into JSON responses and logs
// the full detail server side.
type UnifiedErrorHandler struct {
	logger *zap.Logger
}

// NewUnifiedErrorHandler creates a new unified error handler
func NewUnifiedErrorHandler(logger *zap.Logger) *UnifiedErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnifiedErrorHandler{logger: logger.Named("errors")}
}

// HandleError writes err as {"error": "..."} with the status of its kind
func (h *UnifiedErrorHandler) HandleError(c *gin.Context, err error) {
	kind := KindOf(err)
	status := kind.HTTPStatus()

	fields := []zap.Field{
		zap.String("kind", kind.String()),
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	}
	if requestID := c.GetString(RequestIDKey); requestID != "" {
		fields = append(fields, zap.String(RequestIDKey, requestID))
	}

	// canceled: the client went away
	if status >= 500 && !Is(err, context.Canceled) {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Debug("request rejected", fields...)
	}

	c.JSON(status, ErrorResponse{Error: PublicMessage(err)})
}

// Middleware creates a Gin middleware that renders the last error attached
// to the context with c.Error.
func (h *UnifiedErrorHandler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			h.HandleError(c, err.Err)
			c.Abort()
		}
	}
}
