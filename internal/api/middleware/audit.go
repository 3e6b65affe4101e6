package middleware

import (
	"XhsStudio/internal/pkg/logger"
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// 只缓存 JSON 响应的前一段用于日志
const auditBodyLimit = 4096

type auditWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *auditWriter) Write(b []byte) (int, error) {
	if w.body.Len() < auditBodyLimit && strings.Contains(w.Header().Get("Content-Type"), "json") {
		w.body.Write(b[:min(len(b), auditBodyLimit-w.body.Len())])
	}
	return w.ResponseWriter.Write(b)
}

func (w *auditWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func auditOutcome(status int) string {
	switch {
	case status == http.StatusSeeOther || status == http.StatusFound:
		return "redirect"
	case status >= http.StatusBadRequest:
		return "failed"
	default:
		return "ok"
	}
}

// AuditMiddleware 记录写操作的表单与结果。页面 GET 与 websocket 只有访问日志
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.IsWebsocket() || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(reqBody))
		}

		w := &auditWriter{ResponseWriter: c.Writer}
		c.Writer = w
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("form", logger.Redact(reqBody)),
			log.Int("status", status),
			log.String("outcome", auditOutcome(status)),
			log.Duration("latency", time.Since(start)),
		}
		if loc := c.Writer.Header().Get("Location"); loc != "" {
			fields = append(fields, log.String("location", loc))
		}
		if w.body.Len() > 0 {
			fields = append(fields, log.String("res_body", logger.Redact(w.body.Bytes())))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, log.String("errors", c.Errors.String()))
		}
		if status >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "AUDIT", fields...)
			return
		}
		log.InfoContext(ctx, "AUDIT", fields...)
	}
}
