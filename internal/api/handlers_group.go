package api

import (
	"XhsStudio/internal/api/handler"

	"github.com/gin-gonic/gin"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler     *handler.AuthHandler
	NoteHandler     *handler.NoteHandler
	HistoryHandler  *handler.HistoryHandler
	StoryHandler    *handler.StoryHandler
	SettingsHandler *handler.SettingsHandler
	WsHandler       *handler.WsHandler

	// AuthMiddleware 需要登录的路由使用
	AuthMiddleware gin.HandlerFunc
	// CORSMiddleware 只挂在 /api 上
	CORSMiddleware gin.HandlerFunc
}
