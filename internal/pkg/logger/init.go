package logger

import (
	"io"
	log "log/slog"
	"net"
	"os"
	"strings"
)

var LogWriter io.Writer = os.Stdout

// Options 日志初始化参数
type Options struct {
	Level         string
	RemoteAddress string
	RemoteIndex   string
	// Output 默认 stdout，命令行使用 stderr
	Output io.Writer
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

// InitLogger 初始化全局 slog：stdout JSON，可选地同时上报到远程 TCP 收集端
func InitLogger(opts Options) {
	level := ParseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	hStdout := log.NewJSONHandler(out, &log.HandlerOptions{Level: level})

	var finalHandler log.Handler = hStdout
	LogWriter = out

	if opts.RemoteAddress != "" {
		conn, err := net.Dial("tcp", opts.RemoteAddress)
		if err == nil {
			hRemote := log.NewJSONHandler(conn, &log.HandlerOptions{Level: level}).
				WithAttrs([]log.Attr{
					log.String("target_index", opts.RemoteIndex),
				})

			finalHandler = NewTee(hStdout, NewRemoteFilter(hRemote))
			LogWriter = io.MultiWriter(out, conn)
		} else {
			log.Warn("Failed to connect to remote log collector, logging to stdout only", "err", err)
		}
	}

	log.SetDefault(log.New(&ContextHandler{finalHandler}))
}
