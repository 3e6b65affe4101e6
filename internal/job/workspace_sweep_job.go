package job

import (
	"XhsStudio/internal/pkg/logger"
	"XhsStudio/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// SessionSweeper 需要主动清理过期会话的存储
type SessionSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// WorkspaceSweepJob 释放长时间无操作的工作区，并清理内存中的过期会话
type WorkspaceSweepJob struct {
	registry service.WorkspaceRegistry
	sessions SessionSweeper
	idleTTL  time.Duration
}

func NewWorkspaceSweepJob(registry service.WorkspaceRegistry, sessions SessionSweeper, idleTTL time.Duration) *WorkspaceSweepJob {
	return &WorkspaceSweepJob{
		registry: registry,
		sessions: sessions,
		idleTTL:  idleTTL,
	}
}

func (s *WorkspaceSweepJob) Run() {
	traceID := "job-sweep-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	swept := s.registry.Sweep(s.idleTTL)

	expired := 0
	if s.sessions != nil {
		n, err := s.sessions.Sweep(ctx)
		if err != nil {
			log.ErrorContext(ctx, "sweep sessions error", "err", err)
		}
		expired = n
	}

	log.InfoContext(ctx, "WorkspaceSweepJob done",
		"workspaces_swept", swept,
		"sessions_expired", expired,
		"workspaces_active", s.registry.Len(),
	)
}
