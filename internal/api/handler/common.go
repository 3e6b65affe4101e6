package handler

import (
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/consts"
	"XhsStudio/internal/pkg/response"
	"XhsStudio/internal/service"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

func workspace(c *gin.Context) *service.Workspace {
	return c.MustGet(consts.ContextWorkspaceKey).(*service.Workspace)
}

func currentSession(c *gin.Context) *model.Session {
	return c.MustGet(consts.ContextSessionKey).(*model.Session)
}

// render 渲染页面，公共字段 User 与 Active 在这里填充
func render(c *gin.Context, name, active string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if v, ok := c.Get(consts.ContextWorkspaceKey); ok {
		user := v.(*service.Workspace).User()
		data["User"] = &user
	}
	data["Active"] = active
	c.HTML(http.StatusOK, name, data)
}

// errorText 401 已处理时返回 false，其余错误转为页面内联文案
func errorText(c *gin.Context, err error) (string, bool) {
	if response.HandleUnauthorized(c, err) {
		return "", false
	}
	_, msg := response.Describe(err)
	return msg, true
}

// redirectSelect 操作成功后回到列表页并保持选中
func redirectSelect(c *gin.Context, base, selectID string) {
	target := base
	if selectID != "" {
		target += "?select=" + url.QueryEscape(selectID)
	}
	c.Redirect(http.StatusSeeOther, target)
}
