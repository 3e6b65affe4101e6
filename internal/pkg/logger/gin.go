package logger

import (
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type accessLine struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Msg     string `json:"msg"`
	TraceID string `json:"trace_id,omitempty"`
	Session string `json:"session_id,omitempty"`
	Method  string `json:"method"`
	Path    string `json:"path"`
	Status  int    `json:"status"`
	Latency string `json:"latency"`
}

// 健康检查与静态资源不记访问日志
var accessSkipPaths = []string{"/api/ping", "/favicon.ico"}

func accessLevel(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "ERROR"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "WARN"
	default:
		return "INFO"
	}
}

func formatAccess(p gin.LogFormatterParams) string {
	line := accessLine{
		Time:    p.TimeStamp.Format(time.RFC3339),
		Level:   accessLevel(p.StatusCode),
		Msg:     "GIN_ACCESS",
		Method:  p.Method,
		Path:    p.Path,
		Status:  p.StatusCode,
		Latency: p.Latency.String(),
	}
	if id, ok := p.Keys[TraceIDKey].(string); ok {
		line.TraceID = id
	}
	if p.Request != nil {
		ctx := p.Request.Context()
		if line.TraceID == "" {
			line.TraceID = TraceID(ctx)
		}
		if sid, ok := ctx.Value(SessionIDKey).(string); ok && len(sid) >= 8 {
			line.Session = sid[:8]
		}
	}
	b, err := json.Marshal(line)
	if err != nil {
		return ""
	}
	return string(b) + "\n"
}

// SetupGin 访问日志与 panic 恢复
func SetupGin(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: accessSkipPaths,
		Formatter: formatAccess,
	}))

	r.Use(gin.CustomRecoveryWithWriter(LogWriter, func(c *gin.Context, err any) {
		log.ErrorContext(c.Request.Context(), "PANIC_RECOVERED", "path", c.Request.URL.Path, "err", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
