package handler

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/util"
	"XhsStudio/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsSvc service.SettingsService
}

func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

func (s *SettingsHandler) Settings(c *gin.Context) {
	s.page(c, "", "")
}

func (s *SettingsHandler) Update(c *gin.Context) {
	var form dto.AIConfigDTO
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, err)
		return
	}
	if err := util.ValidateDTO(&form); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.settingsSvc.Update(c.Request.Context(), workspace(c), &form); err != nil {
		s.fail(c, err)
		return
	}
	s.page(c, "配置已保存", "")
}

// Test 测试当前已保存的配置
func (s *SettingsHandler) Test(c *gin.Context) {
	msg, err := s.settingsSvc.Test(c.Request.Context(), workspace(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.page(c, msg, "")
}

func (s *SettingsHandler) fail(c *gin.Context, err error) {
	msg, ok := errorText(c, err)
	if ok {
		s.page(c, "", msg)
	}
}

func (s *SettingsHandler) page(c *gin.Context, notice, errMsg string) {
	cfg, err := s.settingsSvc.Get(c.Request.Context(), workspace(c))
	if err != nil {
		msg, ok := errorText(c, err)
		if !ok {
			return
		}
		if errMsg == "" {
			errMsg = msg
		}
		cfg = model.DefaultAIConfig()
	}
	render(c, "settings.html", "settings", gin.H{
		"Title":  "AI 设置",
		"Config": cfg,
		"Notice": notice,
		"Error":  errMsg,
	})
}
