package middleware

import (
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/consts"
	"XhsStudio/internal/pkg/logger"
	"XhsStudio/internal/pkg/response"
	"XhsStudio/internal/service"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie 浏览器会话 cookie，只保存会话 ID
type SessionCookie struct {
	Name   string
	Secure bool
}

func (s SessionCookie) Read(c *gin.Context) string {
	v, err := c.Cookie(s.Name)
	if err != nil {
		return ""
	}
	return v
}

func (s SessionCookie) Write(c *gin.Context, sess *model.Session) {
	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, sess.ID, maxAge, "/", "", s.Secure, true)
}

func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}

// AuthMiddleware 读取会话并注入工作区；页面 GET 请求会向后端确认登录态
func AuthMiddleware(cookie SessionCookie, authSvc service.AuthService, registry service.WorkspaceRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := cookie.Read(c)
		c.Set(consts.ContextDropperKey, response.SessionDropper(func(c *gin.Context) {
			authSvc.Drop(c.Request.Context(), sessionID)
			cookie.Clear(c)
		}))

		ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(ctx)

		sess, err := authSvc.Current(ctx, sessionID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if isPageLoad(c) {
			sess, err = authSvc.Verify(ctx, sess)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
		}

		c.Set(consts.ContextSessionKey, sess)
		c.Set(consts.ContextWorkspaceKey, registry.Get(sess))
		c.Next()
	}
}

func isPageLoad(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet || c.IsWebsocket() {
		return false
	}
	return strings.HasPrefix(c.Request.URL.Path, "/app/")
}
