package middleware

import (
	"XhsStudio/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxTraceIDLen = 64

// TraceMiddleware 沿用上游的 X-Trace-ID，没有时生成；后端调用会继续透传
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(logger.TraceHeader)
		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = uuid.NewString()
		}

		c.Set(logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))

		c.Header(logger.TraceHeader, traceID)
		c.Next()
	}
}
