package wire

import (
	"XhsStudio/internal/api"
	"XhsStudio/internal/api/config"
	"XhsStudio/internal/api/handler"
	"XhsStudio/internal/api/middleware"
	"XhsStudio/internal/job"
	"XhsStudio/internal/pkg/cron"
	"XhsStudio/internal/pkg/logger"
	"XhsStudio/internal/pkg/redis"
	"XhsStudio/internal/pkg/remote"
	"XhsStudio/internal/pkg/session"
	"XhsStudio/internal/service"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	CronMgr  *cron.Manager
	Registry service.WorkspaceRegistry
	Redis    *redisv9.Client
}

// Close 释放外部连接
func (a *ApplicationContainer) Close() error {
	if a.Redis != nil {
		return a.Redis.Close()
	}
	return nil
}

func BuildApplication(ctx context.Context, cfg *config.Config) (*ApplicationContainer, error) {
	httpClient := remote.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		&logger.BackendTransport{Transport: http.DefaultTransport})

	var (
		store   session.Store
		sweeper job.SessionSweeper
		rdb     *redisv9.Client
	)
	switch cfg.Session.Store {
	case "redis":
		var err error
		rdb, err = redis.InitRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis connection: %w", err)
		}
		store = session.NewRedisStore(rdb, cfg.Session.TTL)
	case "", "memory":
		memory := session.NewMemoryStore(cfg.Session.TTL)
		store, sweeper = memory, memory
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}

	registry := service.NewWorkspaceRegistry(service.WorkspaceOptions{
		HTTP:         httpClient,
		Routes:       cfg.Backend.Routes,
		PageSize:     cfg.Backend.PageSize,
		ProgressTick: cfg.Story.ProgressTick,
		ProgressCap:  cfg.Story.ProgressCap,
	})

	authService := service.NewAuthService(httpClient, cfg.Backend.Routes, store, registry)
	noteService := service.NewNoteService()
	historyService := service.NewHistoryService(cfg.Story.Model)
	storyService := service.NewStoryService()
	settingsService := service.NewSettingsService()

	cookie := middleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	}

	handlers := &api.HandlersGroup{
		AuthHandler:     handler.NewAuthHandler(authService, cookie),
		NoteHandler:     handler.NewNoteHandler(noteService),
		HistoryHandler:  handler.NewHistoryHandler(historyService),
		StoryHandler:    handler.NewStoryHandler(storyService),
		SettingsHandler: handler.NewSettingsHandler(settingsService),
		WsHandler:       handler.NewWsHandler(cfg.Story.ProgressTick),
		AuthMiddleware:  middleware.AuthMiddleware(cookie, authService, registry),
		CORSMiddleware:  middleware.CORSMiddleware(cfg.Server.CORSOrigins),
	}

	router, err := api.SetupRouter(handlers)
	if err != nil {
		return nil, err
	}

	sweepJob := job.NewWorkspaceSweepJob(registry, sweeper, cfg.Sweep.IdleTTL)
	cronMgr := cron.NewCronManager(cfg.Sweep.Spec, sweepJob)

	return &ApplicationContainer{
		Router:   router,
		CronMgr:  cronMgr,
		Registry: registry,
		Redis:    rdb,
	}, nil
}
