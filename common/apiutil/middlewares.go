package apiutil

import (
	"github.com/Aidin1998/minitask/common/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware echoes the caller's X-Request-ID or mints a new one,
// and stores it under errors.RequestIDKey for loggers and error handlers.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}

		c.Set(errors.RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// RequestID returns the id stored by RequestIDMiddleware
func RequestID(c *gin.Context) string {
	return c.GetString(errors.RequestIDKey)
}
