package api

import (
	"XhsStudio/internal/api/middleware"
	"XhsStudio/internal/api/view"
	"XhsStudio/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) (*gin.Engine, error) {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// TraceId & Logger
	r.Use(middleware.TraceMiddleware())
	logger.SetupGin(r)
	r.Use(middleware.AuditMiddleware())

	r.GET("/", group.AuthHandler.Index)
	r.GET("/login", group.AuthHandler.LoginPage)
	r.POST("/login", group.AuthHandler.Login)
	r.POST("/register", group.AuthHandler.Register)
	r.POST("/logout", group.AuthHandler.Logout)

	appGroup := r.Group("/app")
	appGroup.Use(group.AuthMiddleware)
	{
		appGroup.GET("/collect", group.NoteHandler.CollectPage)
		appGroup.POST("/collect", group.NoteHandler.Collect)

		notesGroup := appGroup.Group("/notes")
		{
			notesGroup.GET("", group.NoteHandler.Notes)
			notesGroup.POST("/more", group.NoteHandler.More)
			notesGroup.POST("/refresh", group.NoteHandler.Refresh)
			notesGroup.POST("/:id/delete", group.NoteHandler.Delete)
			notesGroup.POST("/:id/recreate", group.NoteHandler.Recreate)
		}

		historyGroup := appGroup.Group("/history")
		{
			historyGroup.GET("", group.HistoryHandler.History)
			historyGroup.POST("/more", group.HistoryHandler.More)
			historyGroup.POST("/refresh", group.HistoryHandler.Refresh)
			historyGroup.POST("/:id/delete", group.HistoryHandler.Delete)
			historyGroup.POST("/:id/story", group.HistoryHandler.GenerateStory)
		}

		storiesGroup := appGroup.Group("/stories")
		{
			storiesGroup.GET("", group.StoryHandler.Stories)
			storiesGroup.POST("/more", group.StoryHandler.More)
			storiesGroup.POST("/refresh", group.StoryHandler.Refresh)
			storiesGroup.GET("/current", group.StoryHandler.Current)
			storiesGroup.GET("/current/preview", group.StoryHandler.CurrentPreview)
			storiesGroup.GET("/current/download", group.StoryHandler.CurrentDownload)
			storiesGroup.POST("/current/close", group.StoryHandler.Close)
			storiesGroup.POST("/:id/delete", group.StoryHandler.Delete)
			storiesGroup.GET("/:id/preview", group.StoryHandler.Preview)
			storiesGroup.GET("/:id/download", group.StoryHandler.Download)
		}

		settingsGroup := appGroup.Group("/settings")
		{
			settingsGroup.GET("", group.SettingsHandler.Settings)
			settingsGroup.POST("", group.SettingsHandler.Update)
			settingsGroup.POST("/test", group.SettingsHandler.Test)
		}
	}

	wsGroup := r.Group("/ws")
	wsGroup.Use(group.AuthMiddleware)
	{
		wsGroup.GET("/story", group.WsHandler.StoryProgress)
	}

	apiGroup := r.Group("/api")
	apiGroup.Use(group.CORSMiddleware)
	{
		// 预检请求由 CORSMiddleware 直接应答
		apiGroup.OPTIONS("/*path", func(c *gin.Context) {})

		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		authGroup := apiGroup.Group("")
		authGroup.Use(group.AuthMiddleware)
		{
			authGroup.GET("/session", group.AuthHandler.Session)
			authGroup.GET("/notes", group.NoteHandler.List)
			authGroup.GET("/history", group.HistoryHandler.List)
			authGroup.GET("/stories", group.StoryHandler.List)
		}
	}

	return r, nil
}
